package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"curriculum-sync/core/anki"
	"curriculum-sync/core/config"
	"curriculum-sync/core/logger"
	"curriculum-sync/feature/curriculum"
	"curriculum-sync/feature/curriculum/reconcile"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var yesConfirm bool

// purgeCmd removes every corpus note and media file from the collection.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove every corpus note and media file from Anki",
	Long: `Purge deletes all remote notes carrying a corpus uid tag, duplicate
claimants included, and every media file in the corpus namespace. Decks stay
in place. The review history of the deleted notes is lost.

Examples:
  # See what would be removed
  curriculum-sync purge --dry-run

  # Purge with interactive confirmation
  curriculum-sync purge

  # Purge without prompting
  curriculum-sync purge --yes`,
	RunE: runPurge,
}

func init() {
	purgeCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	RootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	l, _ = logger.WithRunID(l)

	client, err := anki.NewClient(cfg.Anki)
	if err != nil {
		return fmt.Errorf("failed to create anki client: %w", err)
	}

	// Only the manifest matters here: purge removes by uid prefix and does
	// not care what the lesson files currently contain.
	manifest, err := curriculum.LoadManifest(afero.NewOsFs(), corpusDir(cfg))
	if err != nil {
		return fmt.Errorf("failed to load corpus manifest: %w", err)
	}

	l.Info("Planning purge...",
		zap.String("course", manifest.Course),
		zap.String("uid_prefix", manifest.UIDPrefix),
	)
	plan, err := reconcile.BuildPurgePlan(ctx, client, manifest)
	if err != nil {
		if errors.Is(err, anki.ErrUnreachable) {
			return fmt.Errorf("cannot connect to Anki at %s, make sure Anki is running with the AnkiConnect add-on installed: %w", cfg.Anki.Endpoint, err)
		}
		return fmt.Errorf("failed to plan purge: %w", err)
	}

	l.Info("Purge plan",
		zap.Int("notes", plan.Summary.Deleted),
		zap.Int("media_files", plan.Summary.MediaDeleted),
	)
	if plan.Empty() {
		l.Info("Nothing to purge.")
		return nil
	}

	if dryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if !confirmPurge(plan.Summary) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	executed, err := reconcile.ApplyPlan(ctx, client, afero.NewOsFs(), plan, reconcile.Options{Confirmed: true})
	if err != nil {
		return fmt.Errorf("failed to apply purge plan: %w", err)
	}
	l.Info("Purge complete", zap.Int("actions", executed))
	return nil
}

// confirmPurge prompts the user for confirmation or uses the --yes flag.
func confirmPurge(s reconcile.Summary) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  About to delete %d notes and %d media files. Type 'yes' to confirm: ", s.Deleted, s.MediaDeleted)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
