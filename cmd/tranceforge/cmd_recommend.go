package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tranceforge/internal/catalog"
	"tranceforge/internal/preset"
	"tranceforge/internal/usage"
)

var (
	recommendOutcome string
	recommendNotes   string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [presenting issue text]",
	Short: "Recommend templates for free-text client input",
	Long: `Scores every template in the catalog against the given client input
and prints the ranked recommendations with reasons. Stored usage counts
are merged in before scoring when the usage database exists.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendOutcome, "outcome", "", "desired outcome text")
	recommendCmd.Flags().StringVar(&recommendNotes, "notes", "", "additional session notes")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	bundle, err := loadBundle()
	if err != nil {
		return err
	}

	templates := make([]catalog.Template, len(bundle.Templates))
	copy(templates, bundle.Templates)
	if store, err := usage.Open(cfg.Usage.DatabasePath); err == nil {
		defer store.Close()
		if counts, err := store.Counts(); err == nil {
			for i := range templates {
				templates[i].UsageCount += counts[templates[i].ID]
			}
		}
	} else {
		logger.Debug("usage store unavailable, scoring with catalog counts only", zap.Error(err))
	}

	recs := preset.Recommend(templates, preset.Input{
		Issue:   strings.Join(args, " "),
		Outcome: recommendOutcome,
		Notes:   recommendNotes,
	})

	fmt.Println("=== Recommendations ===")
	for i, rec := range recs {
		fmt.Printf("%2d. %s (score %d)\n", i+1, rec.Template.Name, rec.Score)
		for _, reason := range rec.Reasons {
			fmt.Println("      -", reason)
		}
	}
	return nil
}
