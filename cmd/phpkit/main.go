package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ekut/claude-code-php-toolkit/pkg/logger"
	"github.com/ekut/claude-code-php-toolkit/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "phpkit",
	Short: "Manage the Claude Code PHP toolkit content",
	Long: `phpkit discovers, validates, and installs the toolkit's content:
agents, skills, commands, rules, hooks, and examples for AI-assisted PHP
development.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		quiet, _ := cmd.Flags().GetBool("quiet")
		presenter.SetQuiet(quiet)
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func init() {
	viper.SetEnvPrefix("PHPKIT")
	viper.AutomaticEnv()
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress informational output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
