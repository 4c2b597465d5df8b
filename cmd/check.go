package cmd

import (
	"fmt"

	"curriculum-sync/core/config"
	"curriculum-sync/core/logger"
	"curriculum-sync/feature/curriculum"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCmd validates the corpus without touching Anki.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the corpus without contacting Anki",
	Long: `Check loads and validates the full corpus: JSON shape, uid uniqueness
and format, card markup, image references and media naming. It makes no
remote calls and exits non-zero when anything is off, so it can gate content
changes in CI.`,
	RunE: runCheck,
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	dir := corpusDir(cfg)
	catalog, err := curriculum.Load(afero.NewOsFs(), dir)
	if err != nil {
		return fmt.Errorf("corpus is invalid: %w", err)
	}

	l.Info("Corpus loaded",
		zap.String("course", catalog.Manifest.Course),
		zap.Int("lessons", len(catalog.Lessons)),
		zap.Int("cards", catalog.CardCount()),
		zap.Int("images", len(catalog.Images)),
	)

	for _, warning := range catalog.Warnings {
		fmt.Println(warning)
	}

	findings := catalog.Check()
	for _, finding := range findings {
		fmt.Println(finding.String())
	}

	if total := len(catalog.Warnings) + len(findings); total > 0 {
		return fmt.Errorf("check found %d problems", total)
	}

	l.Info("Corpus is clean.")
	return nil
}
