package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rayhashcell/skills-manager/pkg/presenter"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <agent> <skill>",
	Short: "Copy an agent's local skill into the global directory",
	Long: `Copy a skill that lives directly inside an agent's skills directory into the
global directory, making it linkable into other agents. The agent's local copy
is left in place.

Examples:
  skills-manager upload cursor my-local-skill`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runUploadCommand(cmd.Context(), args[0], args[1])
	},
}

func runUploadCommand(ctx context.Context, agentID, skill string) {
	engine := newEngine(homeDir())

	if err := engine.UploadToGlobal(ctx, agentID, skill); err != nil {
		presenter.Error(err, "Failed to upload skill")
		os.Exit(1)
	}

	presenter.Success(fmt.Sprintf("Uploaded %q from %s to %s", skill, agentID, engine.GlobalDir()))
	presenter.Info(fmt.Sprintf("The copy in %s is untouched; link the global one elsewhere with 'skills-manager link %s <agent>'", agentID, skill))
}
