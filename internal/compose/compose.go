// Package compose is the planning entry point: it runs issue detection,
// arc and metaphor selection, principle enforcement, and dimension
// rendering for one request and assembles the final generation prompt.
package compose

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tranceforge/internal/catalog"
	"tranceforge/internal/dimension"
	"tranceforge/internal/logging"
	"tranceforge/internal/plan"
	"tranceforge/internal/principle"
)

// Request is everything a caller supplies to plan one script.
type Request struct {
	Context plan.PresentingContext

	// ManualArcID forces a single arc alongside the mandatory set.
	ManualArcID string

	// TemplatePreferredArcIDs come from a chosen template, if any.
	TemplatePreferredArcIDs []string

	// Levels carries the eight dimension levels plus the spiritual
	// enable flag. The symbolic level also gates metaphor selection.
	Levels dimension.Levels

	ClientLevel principle.ClientLevel
	Anxious     bool
	Emergence   principle.Emergence
}

// Result is the assembled plan for one request.
type Result struct {
	// RequestID correlates log lines for this plan. Not persisted.
	RequestID string

	Contract *plan.GenerationContract

	// SystemPrompt is the complete prompt handed to the generator.
	SystemPrompt string

	// Instructions is the flat imperative directive list.
	Instructions []string

	// QualityReminders are the principle quality gates, restated for
	// the validator's human reader.
	QualityReminders []string

	ReasoningLog []string
}

// Composer wires the planning stages over one immutable catalog bundle.
type Composer struct {
	bundle   *catalog.Bundle
	planner  *plan.Planner
	enforcer *principle.Enforcer
}

// NewComposer creates a composer over the given bundle.
func NewComposer(bundle *catalog.Bundle) *Composer {
	return &Composer{
		bundle:   bundle,
		planner:  plan.NewPlanner(bundle.Arcs, bundle.Metaphors, bundle.Issues),
		enforcer: principle.NewEnforcer(bundle.Principles, bundle.Language),
	}
}

// PlanScript builds the full generation plan for one request. It never
// fails: missing catalog entries degrade to warnings and fallbacks, and
// the reasoning log records every decision taken.
func (c *Composer) PlanScript(req Request) *Result {
	requestID := uuid.New().String()
	log := logging.Get(logging.CategoryPlanning)
	log.Info("[%s] planning script (issue=%q, manual_arc=%q)", requestID, req.Context.Issue, req.ManualArcID)

	timer := logging.StartTimer(logging.CategoryPlanning, "Composer.PlanScript")
	defer timer.Stop()

	contract := c.planner.Plan(plan.Request{
		Context:                 req.Context,
		ManualArcID:             req.ManualArcID,
		TemplatePreferredArcIDs: req.TemplatePreferredArcIDs,
		SymbolicLevel:           req.Levels.Symbolic.Value,
	})

	enforced := c.enforcer.Enforce(principle.Input{
		ClientLevel:   req.ClientLevel,
		Anxious:       req.Anxious,
		SymbolicLevel: req.Levels.Symbolic.Value,
		Emergence:     req.Emergence,
	})

	directives := dimension.Build(req.Levels)

	result := &Result{
		RequestID:        requestID,
		Contract:         contract,
		Instructions:     enforced.Instructions,
		QualityReminders: enforced.QualityReminders,
		ReasoningLog:     contract.ReasoningLog,
	}
	result.SystemPrompt = assemble(enforced.SystemPrompt, contract, directives)
	result.ReasoningLog = append(result.ReasoningLog,
		fmt.Sprintf("rendered %d dimension directives", len(directives)))

	for _, summary := range enforced.Summaries {
		log.Debug("[%s] applied principle: %s", requestID, summary)
	}
	log.Info("[%s] plan complete: %d arcs, %d instructions, prompt %d bytes",
		requestID, len(contract.SelectedArcs), len(result.Instructions), len(result.SystemPrompt))
	return result
}

// assemble joins the prompt sections in fixed order: principle
// preamble, arc integration text, metaphor guidance, dimension
// directives.
func assemble(preamble string, contract *plan.GenerationContract, directives []dimension.Directive) string {
	var sb strings.Builder
	sb.WriteString(preamble)

	if len(contract.SelectedArcs) > 0 {
		sb.WriteString("## Narrative Arcs\n")
		sb.WriteString("Weave the following arcs through the script, in this priority order:\n\n")
		for i, sel := range contract.SelectedArcs {
			fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, sel.Arc.Name, sel.Reason)
			if sel.Arc.PromptIntegration != "" {
				fmt.Fprintf(&sb, "   %s\n", sel.Arc.PromptIntegration)
			}
			if len(sel.Arc.KeyLanguage) > 0 {
				fmt.Fprintf(&sb, "   Key language: %s\n", strings.Join(sel.Arc.KeyLanguage, "; "))
			}
		}
		sb.WriteString("\n")
	}

	if m := contract.PrimaryMetaphor; m != nil {
		sb.WriteString("## Primary Metaphor\n")
		fmt.Fprintf(&sb, "Carry the %q imagery family through the script (%s).\n",
			m.Family.Name, m.Reason)
		if len(m.Family.PrimaryImages) > 0 {
			fmt.Fprintf(&sb, "Primary images: %s.\n", strings.Join(m.Family.PrimaryImages, ", "))
		}
		sb.WriteString("\n")
	}

	if len(directives) > 0 {
		sb.WriteString("## Dimension Emphasis\n")
		for _, d := range directives {
			fmt.Fprintf(&sb, "### %s (%s)\n%s\n", d.Dimension, d.Tier, strings.TrimRight(d.Text, "\n"))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
