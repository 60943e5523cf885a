package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var catalogsCmd = &cobra.Command{
	Use:   "catalogs",
	Short: "Load and lint the configured catalogs",
	Long: `Loads every catalog (external files per config, embedded defaults
otherwise), runs load-time validation, and prints a summary. Exits
non-zero if any catalog fails to parse or validate.`,
	RunE: runCatalogs,
}

func runCatalogs(cmd *cobra.Command, args []string) error {
	bundle, err := loadBundle()
	if err != nil {
		return err
	}

	fmt.Println("=== Catalogs ===")
	fmt.Printf("Arcs:              %d (mandatory: %v, cap %d)\n",
		bundle.Arcs.Count(), bundle.Arcs.MandatoryArcIDs, bundle.Arcs.MaxArcsPerScript)
	fmt.Printf("Metaphor families: %d (default: %s)\n",
		len(bundle.Metaphors.All()), bundle.Metaphors.DefaultFamily)
	fmt.Printf("Issue categories:  %d\n", len(bundle.Issues.Categories))
	fmt.Printf("Principles:        %d\n", len(bundle.Principles.All()))
	fmt.Printf("Templates:         %d\n", len(bundle.Templates))
	fmt.Printf("Language rules:    %d reflective, %d cliches, %d visual commands\n",
		len(bundle.Language.ReflectivePhrases), len(bundle.Language.Cliches), len(bundle.Language.VisualCommands))
	fmt.Println("\nAll catalogs loaded and validated.")
	return nil
}
