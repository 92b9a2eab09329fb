package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rayhashcell/skills-manager/pkg/mutate"
	"github.com/rayhashcell/skills-manager/pkg/presenter"
	"github.com/rayhashcell/skills-manager/pkg/registry"
)

type LinkConfig struct {
	All bool
}

func NewLinkConfig() *LinkConfig {
	return &LinkConfig{
		All: false,
	}
}

var linkCmd = &cobra.Command{
	Use:   "link <skill> [agent...]",
	Short: "Symlink a global skill into agents",
	Long: `Symlink a skill from the global directory into one or more agent skills
directories. Each agent is attempted independently; failures on one agent do
not stop the others.

Examples:
  skills-manager link tailwind-v4-shadcn cursor claude-code
  skills-manager link tailwind-v4-shadcn --all`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getLinkConfigFromFlags(cmd)
		runLinkCommand(cmd.Context(), args[0], args[1:], config)
	},
}

func init() {
	defaults := NewLinkConfig()
	linkCmd.Flags().Bool("all", defaults.All, "Link into every detected agent")
}

func getLinkConfigFromFlags(cmd *cobra.Command) *LinkConfig {
	config := NewLinkConfig()
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		config.All = all
	}
	return config
}

func runLinkCommand(ctx context.Context, skill string, agentIDs []string, config *LinkConfig) {
	home := homeDir()

	if config.All {
		agentIDs = detectedAgentIDs(registry.Detect(home))
		if len(agentIDs) == 0 {
			presenter.Warning("No agents detected")
			return
		}
	}
	if len(agentIDs) == 0 {
		presenter.Error(errors.New("no agents given"), "Name at least one agent or pass --all")
		os.Exit(1)
	}

	result, err := newEngine(home).LinkAgents(ctx, skill, agentIDs)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to link %q", skill))
		os.Exit(1)
	}

	if !reportBatch(result, func(id string) string {
		return fmt.Sprintf("Linked %q to %s", skill, id)
	}) {
		os.Exit(1)
	}
}

// reportBatch prints one line per batch target and reports whether every
// target succeeded.
func reportBatch(result mutate.BatchResult, describe func(id string) string) bool {
	for _, id := range result.Success {
		presenter.Success(describe(id))
	}
	for _, f := range result.Failed {
		presenter.Error(errors.New(f.Error), f.ID)
	}
	return len(result.Failed) == 0
}
