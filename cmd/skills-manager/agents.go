package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rayhashcell/skills-manager/pkg/registry"
)

type AgentsConfig struct {
	DetectedOnly bool
}

func NewAgentsConfig() *AgentsConfig {
	return &AgentsConfig{
		DetectedOnly: false,
	}
}

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List known agents and their detection status",
	Long: `List every agent skills-manager knows about. An agent is detected when its
skills directory exists under the home directory.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getAgentsConfigFromFlags(cmd)
		runAgentsCommand(config)
	},
}

func init() {
	defaults := NewAgentsConfig()
	agentsCmd.Flags().Bool("detected", defaults.DetectedOnly, "Show only detected agents")
}

func getAgentsConfigFromFlags(cmd *cobra.Command) *AgentsConfig {
	config := NewAgentsConfig()
	if detected, err := cmd.Flags().GetBool("detected"); err == nil {
		config.DetectedOnly = detected
	}
	return config
}

func runAgentsCommand(config *AgentsConfig) {
	agents := registry.Detect(homeDir())

	if config.DetectedOnly {
		detected := agents[:0]
		for _, a := range agents {
			if a.Detected {
				detected = append(detected, a)
			}
		}
		agents = detected
	}

	renderAgentsTable(os.Stdout, agents)
}

func renderAgentsTable(w io.Writer, agents []registry.Agent) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDETECTED\tSKILLS DIRECTORY")
	fmt.Fprintln(tw, "--\t----\t--------\t----------------")

	for _, a := range agents {
		detected := "-"
		if a.Detected {
			detected = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ID, a.Name, detected, a.Path)
	}
	tw.Flush()
}

// detectedAgentIDs keeps the ids of detected agents, preserving registry
// order.
func detectedAgentIDs(agents []registry.Agent) []string {
	var ids []string
	for _, a := range agents {
		if a.Detected {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
