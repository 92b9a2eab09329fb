package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rayhashcell/skills-manager/pkg/presenter"
	"github.com/rayhashcell/skills-manager/pkg/state"
)

type ListConfig struct {
	JSON bool
}

func NewListConfig() *ListConfig {
	return &ListConfig{
		JSON: false,
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List global skills and their linkage",
	Long: `List every skill in the global directory together with the agents it is
linked into. Agents holding a real symlink are marked; agents holding a local
copy under the same name count as linked but not symlinked.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)
		runListCommand(cmd.Context(), config)
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().Bool("json", defaults.JSON, "Output the full scan snapshot as JSON")
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}
	return config
}

func runListCommand(ctx context.Context, config *ListConfig) {
	data, err := newAggregator(homeDir()).AppData(ctx)
	if err != nil {
		presenter.Error(err, "Failed to scan skills")
		os.Exit(1)
	}

	if config.JSON {
		encoded, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to encode snapshot")
			os.Exit(1)
		}
		fmt.Println(string(encoded))
		return
	}

	for _, failure := range data.ScanFailures {
		presenter.Warning(fmt.Sprintf("Could not scan agent %q: %s", failure.AgentID, failure.Error))
	}

	if len(data.Skills) == 0 {
		presenter.Info("No skills in the global directory")
		return
	}

	renderSkillsTable(os.Stdout, data.Skills)
}

func renderSkillsTable(w io.Writer, skills []state.Skill) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLINKED AGENTS\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t-------------\t-----------")

	for _, skill := range skills {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, formatLinkage(skill), truncate(skill.Metadata.Description, 60))
	}
	tw.Flush()
}

// formatLinkage renders the linked agent list, starring the ones that hold a
// real symlink rather than a same-named local copy.
func formatLinkage(skill state.Skill) string {
	if len(skill.LinkedAgents) == 0 {
		return "-"
	}

	symlinked := make(map[string]bool, len(skill.SymlinkedAgents))
	for _, id := range skill.SymlinkedAgents {
		symlinked[id] = true
	}

	parts := make([]string, 0, len(skill.LinkedAgents))
	for _, id := range skill.LinkedAgents {
		if symlinked[id] {
			parts = append(parts, id)
		} else {
			parts = append(parts, id+" (local)")
		}
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
