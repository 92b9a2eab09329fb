package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rayhashcell/skills-manager/pkg/presenter"
)

type RemoveConfig struct {
	Force bool
}

func NewRemoveConfig() *RemoveConfig {
	return &RemoveConfig{
		Force: false,
	}
}

var removeCmd = &cobra.Command{
	Use:   "remove <agent> <skill>",
	Short: "Delete an agent's local copy of a skill",
	Long: `Delete a skill directory that lives directly inside an agent's skills
directory. Symlinked skills cannot be removed this way; use unlink instead.
The deletion is recursive and permanent, so the command asks for confirmation
unless --force is given.

Examples:
  skills-manager remove cursor my-local-skill
  skills-manager remove cursor my-local-skill --force`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config := getRemoveConfigFromFlags(cmd)
		runRemoveCommand(cmd.Context(), args[0], args[1], config)
	},
}

func init() {
	defaults := NewRemoveConfig()
	removeCmd.Flags().BoolP("force", "f", defaults.Force, "Delete without asking for confirmation")
}

func getRemoveConfigFromFlags(cmd *cobra.Command) *RemoveConfig {
	config := NewRemoveConfig()
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	return config
}

func runRemoveCommand(ctx context.Context, agentID, skill string, config *RemoveConfig) {
	if !config.Force {
		answer := presenter.Prompt(fmt.Sprintf("Delete local skill %q from agent %q?", skill, agentID), "y", "N")
		if !confirmed(answer) {
			presenter.Info("Aborted")
			return
		}
	}

	if err := newEngine(homeDir()).DeleteLocal(ctx, agentID, skill); err != nil {
		presenter.Error(err, "Failed to delete local skill")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Deleted local skill %q from %s", skill, agentID))
}

func confirmed(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
