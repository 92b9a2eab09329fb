package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rayhashcell/skills-manager/pkg/presenter"
	"github.com/rayhashcell/skills-manager/pkg/state"
)

type AgentConfig struct {
	JSON bool
}

func NewAgentConfig() *AgentConfig {
	return &AgentConfig{
		JSON: false,
	}
}

var agentCmd = &cobra.Command{
	Use:   "agent <agent-id>",
	Short: "Show one agent's skills",
	Long: `Show everything known about one agent: skills installed in its directory
(symlinked or local copies) plus the global skills it could install.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getAgentConfigFromFlags(cmd)
		runAgentCommand(cmd.Context(), args[0], config)
	},
}

func init() {
	defaults := NewAgentConfig()
	agentCmd.Flags().Bool("json", defaults.JSON, "Output the agent detail as JSON")
}

func getAgentConfigFromFlags(cmd *cobra.Command) *AgentConfig {
	config := NewAgentConfig()
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}
	return config
}

func runAgentCommand(ctx context.Context, agentID string, config *AgentConfig) {
	detail, err := newAggregator(homeDir()).AgentDetail(ctx, agentID)
	if err != nil {
		presenter.Error(err, "Failed to inspect agent")
		os.Exit(1)
	}

	if config.JSON {
		encoded, err := json.MarshalIndent(detail, "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to encode agent detail")
			os.Exit(1)
		}
		fmt.Println(string(encoded))
		return
	}

	presenter.Section(fmt.Sprintf("%s (%s)", detail.Agent.Name, detail.Agent.ID))
	if !detail.Agent.Detected {
		presenter.Warning("Agent not detected: its skills directory does not exist")
	}

	if len(detail.Skills) == 0 {
		presenter.Info("No skills installed or available")
		return
	}

	renderAgentSkillsTable(os.Stdout, detail.Skills)
}

func renderAgentSkillsTable(w io.Writer, skills []state.AgentSkill) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKILL\tSTATUS\tIN GLOBAL\tDESCRIPTION")
	fmt.Fprintln(tw, "-----\t------\t---------\t-----------")

	for _, skill := range skills {
		inGlobal := "-"
		if skill.InGlobal {
			inGlobal = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", skill.Name, skill.Status, inGlobal, truncate(skill.Metadata.Description, 60))
	}
	tw.Flush()
}
