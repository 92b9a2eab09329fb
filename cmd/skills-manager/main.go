package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rayhashcell/skills-manager/pkg/logger"
	"github.com/rayhashcell/skills-manager/pkg/mutate"
	"github.com/rayhashcell/skills-manager/pkg/presenter"
	"github.com/rayhashcell/skills-manager/pkg/state"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLS_MANAGER")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skills-manager")
	viper.AddConfigPath(".")

	viper.SetDefault("log_level", "warning")
	viper.SetDefault("log_format", "text")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skills-manager",
	Short: "Manage agent skills from one global directory",
	Long: `skills-manager keeps one global skills directory (~/.agents/skills) and
distributes skills to coding agents by symlinking them into each agent's own
skills directory. Every command scans the filesystem fresh; nothing is cached.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			presenter.Warning(fmt.Sprintf("Invalid log level %q, using default", viper.GetString("log_level")))
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))

		fields := map[string]any{"command": cmd.CommandPath()}
		cmd.Flags().Visit(func(flag *pflag.Flag) {
			fields["flag."+flag.Name] = flag.Value.String()
		})
		logger.G(cmd.Context()).WithFields(fields).Debug("command invoked")
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// homeDir resolves the user home directory or exits
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		presenter.Error(err, "Failed to determine home directory")
		os.Exit(1)
	}
	return home
}

// newAggregator builds a state aggregator honoring the global_dir config
func newAggregator(home string) *state.Aggregator {
	var opts []state.Option
	if dir := viper.GetString("global_dir"); dir != "" {
		opts = append(opts, state.WithGlobalDir(dir))
	}
	return state.New(home, opts...)
}

// newEngine builds a mutation engine honoring the global_dir config
func newEngine(home string) *mutate.Engine {
	var opts []mutate.Option
	if dir := viper.GetString("global_dir"); dir != "" {
		opts = append(opts, mutate.WithGlobalDir(dir))
	}
	return mutate.New(home, opts...)
}

func main() {
	rootCmd.PersistentFlags().String("global-dir", "", "Global skills directory (defaults to ~/.agents/skills)")
	rootCmd.PersistentFlags().String("log-level", "warning", "Log level (debug, info, warning, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")

	viper.BindPFlag("global_dir", rootCmd.PersistentFlags().Lookup("global-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(agentCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
