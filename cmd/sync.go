package cmd

import (
	"errors"
	"fmt"
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

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	l, _ = logger.WithRunID(l)

	// Load and validate the corpus before any remote call
	fsys := afero.NewOsFs()
	dir := corpusDir(cfg)
	catalog, err := curriculum.Load(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to load corpus from %s: %w", dir, err)
	}
	for _, warning := range catalog.Warnings {
		l.Warn("Corpus warning", zap.String("detail", warning))
	}
	if catalog.CardCount() == 0 {
		l.Warn("Corpus has no cards; syncing will delete every remote card of this corpus")
	}

	// Connect to Anki
	client, err := anki.NewClient(cfg.Anki)
	if err != nil {
		return fmt.Errorf("failed to create anki client: %w", err)
	}

	version, err := client.Version(ctx)
	if err != nil {
		if errors.Is(err, anki.ErrUnreachable) {
			return fmt.Errorf("cannot connect to Anki at %s, make sure Anki is running with the AnkiConnect add-on installed: %w", cfg.Anki.Endpoint, err)
		}
		return fmt.Errorf("failed to probe anki: %w", err)
	}
	if version < anki.APIVersion {
		return fmt.Errorf("AnkiConnect API version %d is too old, version %d or newer is required", version, anki.APIVersion)
	}
	l.Info("Connected to Anki", zap.String("endpoint", cfg.Anki.Endpoint), zap.Int("api_version", version))

	fmt.Printf("Syncing: %s\n", catalog.Manifest.Course)
	fmt.Printf("Parent deck: %s\n", catalog.Manifest.Deck)
	fmt.Printf("Lessons: %d\n", len(catalog.Lessons))
	fmt.Println()

	// Plan against the remote state
	plan, err := reconcile.BuildPlan(ctx, client, catalog)
	if err != nil {
		return fmt.Errorf("failed to plan sync: %w", err)
	}
	logPlanActions(l, plan)
	printLessonProgress(catalog, plan)

	if dryRun {
		printSummary(plan.Summary)
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Apply
	executed, err := reconcile.ApplyPlan(ctx, client, fsys, plan, reconcile.Options{Confirmed: true})
	if err != nil {
		return fmt.Errorf("failed to apply sync plan: %w", err)
	}
	l.Info("Sync complete", zap.Int("actions", executed))

	printSummary(plan.Summary)
	return nil
}

// corpusDir resolves the corpus directory. The --content flag wins over the
// configured default.
func corpusDir(cfg *config.Config) string {
	if contentDir != "" {
		return contentDir
	}
	return cfg.Content.Dir
}

// printLessonProgress narrates the plan lesson by lesson: one line per card
// that will change, delete lines after. Unchanged cards stay silent.
func printLessonProgress(catalog *curriculum.Catalog, plan *reconcile.Plan) {
	status := make(map[string]reconcile.ActionType, len(plan.Actions))
	for _, action := range plan.Actions {
		switch action.Type {
		case reconcile.ActionCreateNote, reconcile.ActionUpdateNote:
			status[action.UID] = action.Type
		}
	}

	for _, lesson := range catalog.Lessons {
		fmt.Printf("Lesson %s: %s\n", lesson.ID, lesson.Title)
		for _, card := range lesson.Cards {
			switch status[card.UID] {
			case reconcile.ActionCreateNote:
				fmt.Printf("  added: %s\n", card.UID)
			case reconcile.ActionUpdateNote:
				fmt.Printf("  updated: %s\n", card.UID)
			}
		}
	}
	fmt.Println()

	for _, action := range plan.Actions {
		if action.Type == reconcile.ActionDeleteNote {
			fmt.Printf("  deleted: %s\n", action.UID)
		}
	}
}

// printSummary prints the run totals in a fixed-width block.
func printSummary(s reconcile.Summary) {
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Added:     %d\n", s.Added)
	fmt.Printf("Updated:   %d\n", s.Updated)
	if s.Adopted > 0 {
		fmt.Printf("Adopted:   %d\n", s.Adopted)
	}
	fmt.Printf("Unchanged: %d\n", s.Unchanged)
	fmt.Printf("Deleted:   %d\n", s.Deleted)
	fmt.Printf("Media stored:  %d\n", s.MediaStored)
	fmt.Printf("Media deleted: %d\n", s.MediaDeleted)
	fmt.Println(strings.Repeat("=", 40))
}

// logPlanActions logs every planned action at debug level.
func logPlanActions(l *zap.Logger, plan *reconcile.Plan) {
	for _, action := range plan.Actions {
		l.Debug("Planned action",
			zap.String("type", string(action.Type)),
			zap.String("uid", action.UID),
			zap.String("deck", action.Deck),
			zap.String("filename", action.Filename),
			zap.String("reason", action.Reason),
		)
	}
}
