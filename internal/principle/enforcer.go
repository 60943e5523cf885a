// Package principle renders the catalog of authorial principles into
// the instructional preamble, directive list, and quality reminders for
// one generation request.
//
// Whether a principle applies at all is decided by a single declarative
// predicate table evaluated once during assembly, not by ad-hoc checks
// scattered through the rendering code.
package principle

import (
	"fmt"
	"strings"

	"tranceforge/internal/catalog"
	"tranceforge/internal/logging"
)

// ClientLevel is the client's experience with therapeutic narration.
type ClientLevel string

const (
	LevelBeginner     ClientLevel = "beginner"
	LevelIntermediate ClientLevel = "intermediate"
	LevelAdvanced     ClientLevel = "advanced"
)

// Emergence is the closing mode of a generated script.
type Emergence string

const (
	EmergenceRegular Emergence = "regular"
	EmergenceSleep   Emergence = "sleep"
)

// MetaphorConsistencyThreshold: metaphor-consistency guidance is
// included only above this symbolic level; at or below it a
// minimal-metaphor directive is substituted.
const MetaphorConsistencyThreshold = 40

// Input carries the per-request conditions principle rendering depends on.
type Input struct {
	ClientLevel   ClientLevel
	Anxious       bool
	SymbolicLevel int
	Emergence     Emergence
}

// Output is everything the enforcer produces for the prompt assembler.
type Output struct {
	// SystemPrompt is the full instructional preamble.
	SystemPrompt string

	// Instructions are short imperative directives, one per line item.
	Instructions []string

	// QualityReminders are post-hoc check reminders drawn from each
	// principle's quality gates.
	QualityReminders []string

	// Summaries holds one line per applied principle, for logging.
	Summaries []string
}

// applicability is the declarative predicate table: a principle with no
// entry always applies.
var applicability = map[string]func(Input) bool{
	"metaphor-coherence": func(in Input) bool { return in.SymbolicLevel > MetaphorConsistencyThreshold },
}

// Enforcer renders principles against immutable catalog data.
type Enforcer struct {
	principles *catalog.PrincipleCatalog
	rules      *catalog.LanguageRules
}

// NewEnforcer creates an enforcer over the given catalogs.
func NewEnforcer(principles *catalog.PrincipleCatalog, rules *catalog.LanguageRules) *Enforcer {
	return &Enforcer{principles: principles, rules: rules}
}

// Enforce builds the preamble and directive lists for one request.
func (e *Enforcer) Enforce(in Input) Output {
	timer := logging.StartTimer(logging.CategoryPlanning, "Enforcer.Enforce")
	defer timer.Stop()

	var out Output
	var sb strings.Builder

	sb.WriteString("You are writing a therapeutic narration script.\n")
	sb.WriteString("Methodology: " + strings.TrimSpace(e.principles.MethodologyContext))
	sb.WriteString("\n\n")

	for _, p := range e.principles.All() {
		if pred, ok := applicability[p.ID]; ok && !pred(in) {
			if p.ID == "metaphor-coherence" {
				e.renderMinimalMetaphor(&sb, &out)
			}
			continue
		}
		e.renderPrinciple(&sb, &out, p, in)
	}

	e.renderLanguageCraft(&sb, &out)
	e.renderSafety(&sb, &out, in)
	e.renderEmergence(&sb, &out, in)

	out.SystemPrompt = sb.String()
	logging.Get(logging.CategoryPlanning).Debug(
		"enforced %d principles, %d instructions, %d reminders",
		len(out.Summaries), len(out.Instructions), len(out.QualityReminders))
	return out
}

func (e *Enforcer) renderPrinciple(sb *strings.Builder, out *Output, p *catalog.Principle, in Input) {
	fmt.Fprintf(sb, "## %s\n%s\n%s\n", p.Name, p.Description, p.Rationale)
	for _, directive := range p.PromptDirectives {
		fmt.Fprintf(sb, "- %s\n", directive)
		out.Instructions = append(out.Instructions, directive)
	}
	sb.WriteString("\n")

	for _, gate := range p.QualityGates {
		out.QualityReminders = append(out.QualityReminders, gate.Check)
	}
	out.Summaries = append(out.Summaries, fmt.Sprintf("%s: %s", p.Name, p.Rule))
}

func (e *Enforcer) renderMinimalMetaphor(sb *strings.Builder, out *Output) {
	const directive = "Use minimal metaphor: keep language plain and literal, with at most an occasional passing image."
	sb.WriteString("## Metaphor\n" + directive + "\n\n")
	out.Instructions = append(out.Instructions, directive)
	out.Summaries = append(out.Summaries, "Metaphor Coherence: substituted minimal-metaphor directive")
}

// renderLanguageCraft emits the fixed language-rule block: tone ratio,
// forbidden reflective phrases with replacements, the second-person
// opener rule, inclusive sensory verbs, and banned cliches/filler.
func (e *Enforcer) renderLanguageCraft(sb *strings.Builder, out *Output) {
	r := e.rules

	sb.WriteString("## Language Craft\n")
	fmt.Fprintf(sb, "Target roughly %d%% directive phrasing to %d%% permissive phrasing overall.\n",
		r.DirectiveRatio, 100-r.DirectiveRatio)

	sb.WriteString("Never use these reflective or cognitive instructions; use the direct-experience pattern instead:\n")
	for _, pair := range r.ReflectivePhrases {
		fmt.Fprintf(sb, "- never %q; instead: %q\n", pair.Phrase, pair.Replacement)
	}
	out.Instructions = append(out.Instructions,
		"Never instruct the listener to recall, choose, or analyze; state experience as already happening.")

	const openerRule = "Never begin three or more consecutive sentences with the second-person pronoun."
	sb.WriteString(openerRule + "\n")
	out.Instructions = append(out.Instructions, openerRule)

	fmt.Fprintf(sb, "Use inclusive sensory verbs (%s) rather than visual-only commands (%s).\n",
		strings.Join(r.InclusiveVerbs, ", "), strings.Join(r.VisualCommands, ", "))
	out.Instructions = append(out.Instructions, "Use inclusive sensory verbs; never visual-only commands.")

	if len(r.Cliches) > 0 {
		fmt.Fprintf(sb, "Banned cliches: %s.\n", strings.Join(r.Cliches, "; "))
	}
	if len(r.FillerPhrases) > 0 {
		fmt.Fprintf(sb, "Banned filler phrases: %s.\n", strings.Join(r.FillerPhrases, "; "))
	}
	sb.WriteString("\n")
}

// renderSafety selects the tone mix and safety phrases from the safety
// principle's lookup table, keyed by experience level and anxiety flag.
func (e *Enforcer) renderSafety(sb *strings.Builder, out *Output, in Input) {
	safety, ok := e.principles.Get("client-safety")
	if !ok || len(safety.LanguageHierarchy) == 0 {
		return
	}

	key := string(in.ClientLevel)
	if in.Anxious {
		key += "_anxious"
	}
	mix, ok := safety.LanguageHierarchy[key]
	if !ok {
		mix, ok = safety.LanguageHierarchy[string(in.ClientLevel)]
	}
	if !ok {
		logging.Get(logging.CategoryPlanning).Warn("no tone mix for client level %q, skipping safety section", in.ClientLevel)
		return
	}

	sb.WriteString("## Safety & Permissiveness\n")
	fmt.Fprintf(sb, "For this client (%s%s), use about %d%% permissive and %d%% directive phrasing.\n",
		in.ClientLevel, anxiousSuffix(in.Anxious), mix.Permissive, mix.Directive)

	phrases := safety.SafetyPhraseLibrary
	if len(phrases) > 3 {
		phrases = phrases[:3]
	}
	if len(phrases) > 0 {
		sb.WriteString("Include safety phrases such as:\n")
		for _, phrase := range phrases {
			fmt.Fprintf(sb, "- %s\n", phrase)
		}
	}
	sb.WriteString("\n")

	out.Instructions = append(out.Instructions,
		fmt.Sprintf("Hold roughly %d%% permissive to %d%% directive phrasing.", mix.Permissive, mix.Directive))
}

// renderEmergence branches sharply on the target emergence mode.
func (e *Enforcer) renderEmergence(sb *strings.Builder, out *Output, in Input) {
	sb.WriteString("## Emergence\n")
	switch in.Emergence {
	case EmergenceSleep:
		const directive = "Close with a gradual fade into sleep: no counting up, no return-to-alertness language of any kind; sentences slow, imagery dims, and the script simply ends."
		sb.WriteString(directive + "\n\n")
		out.Instructions = append(out.Instructions, directive)
	default:
		const directive = "Close with the standard strengthening-and-count-up pattern: consolidate the session's gains, then count from one to five back to full, refreshed alertness."
		sb.WriteString(directive + "\n\n")
		out.Instructions = append(out.Instructions, directive)
	}
}

func anxiousSuffix(anxious bool) string {
	if anxious {
		return ", presenting with anxiety"
	}
	return ""
}
