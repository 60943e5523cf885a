// tranceforge plans, assembles, and validates personalized therapeutic
// narration scripts from declarative catalogs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tranceforge/internal/catalog"
	"tranceforge/internal/config"
	"tranceforge/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool
	debugLogs  bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tranceforge",
	Short: "tranceforge - therapeutic narration planning pipeline",
	Long: `tranceforge builds generation plans for personalized therapeutic
narration scripts: it detects presenting issues, selects narrative arcs
and a metaphor family, renders dimension guidance, assembles the full
generation prompt, and validates generated text against language rules.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		debug := debugLogs || cfg.Logging.Debug
		if err := logging.Initialize(cfg.Logging.Directory, debug, cfg.Logging.Level); err != nil {
			return fmt.Errorf("failed to initialize file logging: %w", err)
		}
		if len(cfg.Logging.Categories) > 0 {
			enabled := make(map[string]bool, len(cfg.Logging.Categories))
			for _, c := range cfg.Logging.Categories {
				enabled[c] = true
			}
			logging.SetCategories(enabled)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// loadBundle loads catalogs per config, falling back to the embedded
// defaults for any unset path.
func loadBundle() (*catalog.Bundle, error) {
	paths := catalog.Paths{
		Arcs:       cfg.Catalogs.ArcsPath,
		Metaphors:  cfg.Catalogs.MetaphorsPath,
		Issues:     cfg.Catalogs.IssuesPath,
		Principles: cfg.Catalogs.PrinciplesPath,
		Language:   cfg.Catalogs.LanguagePath,
		Templates:  cfg.Catalogs.TemplatesPath,
	}
	bundle, err := catalog.LoadBundleFromFiles(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}
	logger.Debug("catalogs loaded",
		zap.Int("arcs", bundle.Arcs.Count()),
		zap.Int("metaphor_families", len(bundle.Metaphors.All())),
		zap.Int("templates", len(bundle.Templates)))
	return bundle, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tranceforge.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose console output")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug-logs", false, "write categorized debug log files")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(catalogsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
