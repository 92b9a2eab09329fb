package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rayhashcell/skills-manager/pkg/presenter"
	"github.com/rayhashcell/skills-manager/pkg/skillmd"
)

type InitConfig struct {
	Description string
	Tools       []string
}

func NewInitConfig() *InitConfig {
	return &InitConfig{
		Description: "",
		Tools:       nil,
	}
}

var initCmd = &cobra.Command{
	Use:   "init <skill-name>",
	Short: "Scaffold a new skill in the global directory",
	Long: `Create a new skill directory in the global directory with a SKILL.md
frontmatter stub, ready to be filled in and linked into agents.

Examples:
  skills-manager init pdf-tools --description "Work with PDF files"
  skills-manager init pdf-tools -d "Work with PDF files" -t pdftotext -t qpdf`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getInitConfigFromFlags(cmd)
		runInitCommand(cmd.Context(), args[0], config)
	},
}

func init() {
	defaults := NewInitConfig()
	initCmd.Flags().StringP("description", "d", defaults.Description, "Skill description for the SKILL.md frontmatter")
	initCmd.Flags().StringArrayP("tool", "t", defaults.Tools, "Allowed tool (repeatable)")
}

func getInitConfigFromFlags(cmd *cobra.Command) *InitConfig {
	config := NewInitConfig()
	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}
	if tools, err := cmd.Flags().GetStringArray("tool"); err == nil {
		config.Tools = tools
	}
	return config
}

func runInitCommand(ctx context.Context, name string, config *InitConfig) {
	engine := newEngine(homeDir())

	meta := skillmd.Metadata{
		Name:         name,
		Description:  config.Description,
		AllowedTools: config.Tools,
	}

	if err := engine.CreateGlobal(ctx, name, meta); err != nil {
		presenter.Error(err, "Failed to create skill")
		os.Exit(1)
	}

	skillFile := filepath.Join(engine.GlobalDir(), name, skillmd.FileName)
	presenter.Success(fmt.Sprintf("Created skill %q", name))
	presenter.Info(fmt.Sprintf("Edit %s, then link it with 'skills-manager link %s --all'", skillFile, name))
}
