package cmd

import (
	"fmt"
	"os"

	"curriculum-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags shared by all commands
	contentDir string
	dryRun     bool
)

// RootCmd represents the base command when called without any subcommands.
// A bare invocation performs one full sync.
var RootCmd = &cobra.Command{
	Use:   "curriculum-sync",
	Short: "Sync a flashcard curriculum into Anki",
	Long: `Curriculum Sync pushes a JSON flashcard corpus into a running Anki
instance through the AnkiConnect add-on. Every card carries a stable uid, so
repeated runs create, update and delete notes without disturbing the review
history of untouched cards.

Running without a subcommand performs one full sync of the corpus.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSync,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level so the failure prints pretty with an
		// ISO8601 timestamp instead of an epoch.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "Corpus directory (overrides CONTENT_DIR)")
	RootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Plan and report without mutating the collection")
}
