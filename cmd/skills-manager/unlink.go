package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rayhashcell/skills-manager/pkg/presenter"
	"github.com/rayhashcell/skills-manager/pkg/state"
)

type UnlinkConfig struct {
	All bool
}

func NewUnlinkConfig() *UnlinkConfig {
	return &UnlinkConfig{
		All: false,
	}
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <skill> [agent...]",
	Short: "Remove a skill's symlinks from agents",
	Long: `Remove the symlink for a skill from one or more agent skills directories.
Only symlinks are removed; a local copy under the same name is left alone and
reported as a failure.

With --all the skill is unlinked from every agent currently holding a symlink
for it, determined by a fresh scan.

Examples:
  skills-manager unlink tailwind-v4-shadcn cursor
  skills-manager unlink tailwind-v4-shadcn --all`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getUnlinkConfigFromFlags(cmd)
		runUnlinkCommand(cmd.Context(), args[0], args[1:], config)
	},
}

func init() {
	defaults := NewUnlinkConfig()
	unlinkCmd.Flags().Bool("all", defaults.All, "Unlink from every agent currently symlinked")
}

func getUnlinkConfigFromFlags(cmd *cobra.Command) *UnlinkConfig {
	config := NewUnlinkConfig()
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		config.All = all
	}
	return config
}

func runUnlinkCommand(ctx context.Context, skill string, agentIDs []string, config *UnlinkConfig) {
	home := homeDir()

	if config.All {
		data, err := newAggregator(home).AppData(ctx)
		if err != nil {
			presenter.Error(err, "Failed to scan skills")
			os.Exit(1)
		}
		agentIDs = symlinkedAgentIDs(data, skill)
		if len(agentIDs) == 0 {
			presenter.Info(fmt.Sprintf("No agents have %q symlinked", skill))
			return
		}
	}
	if len(agentIDs) == 0 {
		presenter.Error(errors.New("no agents given"), "Name at least one agent or pass --all")
		os.Exit(1)
	}

	result, err := newEngine(home).UnlinkAgents(ctx, skill, agentIDs)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to unlink %q", skill))
		os.Exit(1)
	}

	if !reportBatch(result, func(id string) string {
		return fmt.Sprintf("Unlinked %q from %s", skill, id)
	}) {
		os.Exit(1)
	}
}

// symlinkedAgentIDs returns the agents currently holding a symlink for the
// named global skill.
func symlinkedAgentIDs(data state.AppData, skill string) []string {
	for _, s := range data.Skills {
		if s.Name == skill {
			return s.SymlinkedAgents
		}
	}
	return nil
}
