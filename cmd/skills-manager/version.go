package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rayhashcell/skills-manager/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()

		if jsonOut, err := cmd.Flags().GetBool("json"); err == nil && jsonOut {
			encoded, err := info.JSON()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error formatting version info: %s\n", err)
				os.Exit(1)
			}
			fmt.Println(encoded)
			return
		}

		fmt.Println(info.String())
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Output as JSON")
}
