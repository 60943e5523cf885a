package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tranceforge/internal/catalog"
	"tranceforge/internal/quality"
)

var (
	validateWords  int
	validateFamily string
)

var validateCmd = &cobra.Command{
	Use:   "validate [script.txt]",
	Short: "Score a script file against the language rules",
	Long: `Scans a generated script for rule violations and prints the scored
report. Pass --metaphor to also check stem frequency for a named
metaphor family from the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().IntVar(&validateWords, "words", 0, "word count of the script (0 counts the file)")
	validateCmd.Flags().StringVar(&validateFamily, "metaphor", "", "metaphor family name for the frequency check")
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read script file: %w", err)
	}
	text := string(data)

	bundle, err := loadBundle()
	if err != nil {
		return err
	}

	var family *catalog.MetaphorFamily
	if validateFamily != "" {
		f, ok := bundle.Metaphors.Get(validateFamily)
		if !ok {
			return fmt.Errorf("unknown metaphor family %q", validateFamily)
		}
		family = f
	}

	words := validateWords
	if words <= 0 {
		words = len(strings.Fields(text))
	}

	validator := quality.NewValidator(bundle.Language)
	report := validator.Validate(text, words, family)
	printReport(report)

	if !report.PassesMinimumQuality() {
		os.Exit(1)
	}
	return nil
}

func printReport(report *quality.Report) {
	fmt.Println("=== Quality Report ===")
	fmt.Printf("Score: %d/100  valid=%t  passes=%t\n",
		report.Score, report.IsValid(), report.PassesMinimumQuality())

	if len(report.Violations) > 0 {
		fmt.Println("\nViolations:")
		for _, v := range report.Violations {
			fmt.Printf("  [%s] %s: %s\n", v.Severity, v.Category, v.Message)
			if v.Excerpt != "" {
				fmt.Printf("      excerpt: %s\n", v.Excerpt)
			}
			if v.SuggestedFix != "" {
				fmt.Printf("      fix: %s\n", v.SuggestedFix)
			}
		}
	}
	for _, w := range report.Warnings {
		fmt.Println("warning:", w)
	}
	for _, s := range report.Suggestions {
		fmt.Println("suggestion:", s)
	}
}
