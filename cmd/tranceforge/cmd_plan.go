package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"tranceforge/internal/catalog"
	"tranceforge/internal/compose"
	"tranceforge/internal/dimension"
	"tranceforge/internal/generate"
	"tranceforge/internal/plan"
	"tranceforge/internal/principle"
	"tranceforge/internal/quality"
	"tranceforge/internal/usage"
)

var (
	planGenerate bool
	planCheck    bool
	planOut      string
)

var planCmd = &cobra.Command{
	Use:   "plan [request.yaml]",
	Short: "Build a generation plan and prompt from a request file",
	Long: `Reads a request YAML file, runs the full planning pipeline, and
prints the assembled generation prompt with the reasoning log.

A request that names a template_id seeds arc selection with that
template's preferred arcs and records a use against it in the usage
store, which feeds future recommendations.

With --generate the prompt is sent to the configured generator; with
--check the generated text is additionally validated and scored.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planGenerate, "generate", false, "send the prompt to the configured generator")
	planCmd.Flags().BoolVar(&planCheck, "check", false, "validate the generated text (implies --generate)")
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "write the prompt (or generated script) to a file")
}

// requestFile is the YAML shape of a plan request.
type requestFile struct {
	Issue   string `yaml:"issue"`
	Outcome string `yaml:"outcome"`
	Notes   string `yaml:"notes"`

	ManualArcID  string   `yaml:"manual_arc_id"`
	TemplateID   string   `yaml:"template_id"`
	TemplateArcs []string `yaml:"template_arcs"`

	Dimensions struct {
		Somatic       int `yaml:"somatic"`
		Temporal      int `yaml:"temporal"`
		Symbolic      int `yaml:"symbolic"`
		Psychological int `yaml:"psychological"`
		Perspective   int `yaml:"perspective"`
		Spiritual     int `yaml:"spiritual"`
		Relational    int `yaml:"relational"`
		Language      int `yaml:"language"`
	} `yaml:"dimensions"`
	SpiritualEnabled bool `yaml:"spiritual_enabled"`

	// Optional sub-attributes rendered ahead of the tier guidance.
	Techniques         string `yaml:"techniques"`
	Archetype          string `yaml:"archetype"`
	PersonalMetaphor   string `yaml:"personal_metaphor"`
	CommunicationStyle string `yaml:"communication_style"`

	ClientLevel string `yaml:"client_level"`
	Anxious     bool   `yaml:"anxious"`
	Emergence   string `yaml:"emergence"`

	WordCount int `yaml:"word_count"`
}

func (r requestFile) toCompose() compose.Request {
	return compose.Request{
		Context: plan.PresentingContext{
			Issue:   r.Issue,
			Outcome: r.Outcome,
			Notes:   r.Notes,
		},
		ManualArcID:             r.ManualArcID,
		TemplatePreferredArcIDs: r.TemplateArcs,
		Levels: dimension.Levels{
			Somatic: dimension.Level{Value: r.Dimensions.Somatic,
				Attributes: attrs("Preferred techniques", r.Techniques)},
			Temporal: dimension.Level{Value: r.Dimensions.Temporal},
			Symbolic: dimension.Level{Value: r.Dimensions.Symbolic,
				Attributes: attrs("Personal metaphor", r.PersonalMetaphor)},
			Psychological: dimension.Level{Value: r.Dimensions.Psychological,
				Attributes: attrs("Archetype", r.Archetype)},
			Perspective: dimension.Level{Value: r.Dimensions.Perspective},
			Spiritual:   dimension.Level{Value: r.Dimensions.Spiritual},
			Relational:  dimension.Level{Value: r.Dimensions.Relational},
			Language: dimension.Level{Value: r.Dimensions.Language,
				Attributes: attrs("Communication style", r.CommunicationStyle)},
			SpiritualEnabled: r.SpiritualEnabled,
		},
		ClientLevel: clientLevel(r.ClientLevel),
		Anxious:     r.Anxious,
		Emergence:   emergenceMode(r.Emergence),
	}
}

func attrs(label, value string) []dimension.Attribute {
	if value == "" {
		return nil
	}
	return []dimension.Attribute{{Label: label, Value: value}}
}

func clientLevel(s string) principle.ClientLevel {
	switch strings.ToLower(s) {
	case "intermediate":
		return principle.LevelIntermediate
	case "advanced":
		return principle.LevelAdvanced
	default:
		return principle.LevelBeginner
	}
}

func emergenceMode(s string) principle.Emergence {
	if strings.EqualFold(s, "sleep") {
		return principle.EmergenceSleep
	}
	return principle.EmergenceRegular
}

func runPlan(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}
	var req requestFile
	if err := yaml.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse request file: %w", err)
	}

	bundle, err := loadBundle()
	if err != nil {
		return err
	}

	usedTemplateID, ok := applyTemplate(&req, bundle.Templates)
	if !ok {
		logger.Warn("template not found, planning without preset",
			zap.String("template_id", req.TemplateID))
	}

	composer := compose.NewComposer(bundle)
	result := composer.PlanScript(req.toCompose())

	fmt.Println("=== Reasoning ===")
	for _, line := range result.ReasoningLog {
		fmt.Println("  -", line)
	}
	fmt.Println()

	output := result.SystemPrompt
	if planCheck {
		planGenerate = true
	}
	if planGenerate {
		text, err := generateScript(cmd, result)
		if err != nil {
			return err
		}
		output = text
		fmt.Println("=== Generated Script ===")
		fmt.Println(text)

		if planCheck {
			validator := quality.NewValidator(bundle.Language)
			report := validator.Validate(text, req.WordCount, selectedFamily(result))
			printReport(report)
		}
	} else {
		fmt.Println("=== Prompt ===")
		fmt.Println(result.SystemPrompt)
	}

	if planOut != "" {
		if err := os.WriteFile(planOut, []byte(output), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("output written", zap.String("path", planOut))
	}

	if usedTemplateID != "" {
		if err := recordTemplateUse(cfg.Usage.DatabasePath, usedTemplateID); err != nil {
			logger.Warn("failed to record template usage", zap.Error(err))
		}
	}
	return nil
}

// applyTemplate resolves the request's template, seeding preferred arcs
// when the request supplies none. Returns the template ID to record
// after a successful run, and false when a named template is missing
// from the catalog.
func applyTemplate(req *requestFile, templates []catalog.Template) (string, bool) {
	if req.TemplateID == "" {
		return "", true
	}
	t, found := templateByID(templates, req.TemplateID)
	if !found {
		return "", false
	}
	if len(req.TemplateArcs) == 0 {
		req.TemplateArcs = t.PreferredArcIDs
	}
	return t.ID, true
}

func templateByID(templates []catalog.Template, id string) (catalog.Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return catalog.Template{}, false
}

func recordTemplateUse(dbPath, templateID string) error {
	store, err := usage.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(templateID)
}

func selectedFamily(result *compose.Result) *catalog.MetaphorFamily {
	if result.Contract == nil || result.Contract.PrimaryMetaphor == nil {
		return nil
	}
	return result.Contract.PrimaryMetaphor.Family
}

func generateScript(cmd *cobra.Command, result *compose.Result) (string, error) {
	client := generate.NewHTTPClient(generate.Config{
		APIKey:      cfg.Generator.APIKey,
		BaseURL:     cfg.Generator.BaseURL,
		Model:       cfg.Generator.Model,
		MaxTokens:   cfg.Generator.MaxTokens,
		Temperature: cfg.Generator.Temperature,
		Timeout:     cfg.Generator.ParsedTimeout(),
		MaxRetries:  cfg.Generator.MaxRetries,
	})
	text, err := client.Generate(cmd.Context(), result.SystemPrompt, "Write the full script now.")
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	return text, nil
}
