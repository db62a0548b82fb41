// Package cli assembles the studybot command tree.
package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/academykit/studybot/logging"
)

// NewRootCommand builds the root command with the standard flags.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "studybot",
		Short:         "Telegram bot for navigating and studying a tree of text materials",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to studybot.yml config file")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		HandleError(err)
		os.Exit(1)
	}
}

// GetLogger creates a logger honoring the --verbose flag.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("cli")
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}
	return entry
}
