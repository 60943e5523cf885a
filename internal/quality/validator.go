// Package quality scans generated script text against the language-rule
// catalog and produces a severity-scored validation report.
//
// The validator never fails: an absent violation category simply yields
// nothing for that category, and malformed input degrades to an empty
// report rather than an error.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"tranceforge/internal/catalog"
	"tranceforge/internal/logging"
)

// Severity classifies how badly a violation damages the script.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Category names the rule a violation broke.
type Category string

const (
	CategoryReflectivePhrase  Category = "reflective_phrase"
	CategoryCliche            Category = "cliche"
	CategoryVisualCommand     Category = "visual_command"
	CategoryRepetition        Category = "repetition"
	CategoryBenefitDensity    Category = "benefit_density"
	CategoryMetaphorFrequency Category = "metaphor_frequency"
	CategoryEmDash            Category = "em_dash"
	CategoryFillerPhrase      Category = "filler_phrase"
)

// Severity penalties.
const (
	penaltyCritical = 25
	penaltyMajor    = 10
	penaltyMinor    = 5

	minimumQualityScore = 60
)

// benefitDensityMax: more benefit-keyword occurrences than this inside
// one paragraph reads as overstuffed affirmation. Repeats count.
const benefitDensityMax = 3

// Metaphor stem caps, scaled by script length.
const (
	metaphorCapShort      = 8
	metaphorCapLong       = 10
	metaphorLongWordCount = 1500
)

// Violation is one rule breach found in the text.
type Violation struct {
	Severity     Severity
	Category     Category
	Message      string
	Excerpt      string
	SuggestedFix string
}

// Report is the scored outcome of validating one script.
type Report struct {
	Score       int
	Violations  []Violation
	Warnings    []string
	Suggestions []string
}

// IsValid reports whether the script has zero critical violations. It is
// independent of the numeric score.
func (r *Report) IsValid() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			return false
		}
	}
	return true
}

// PassesMinimumQuality reports whether the script is valid and also
// scores above the minimum threshold.
func (r *Report) PassesMinimumQuality() bool {
	return r.IsValid() && r.Score > minimumQualityScore
}

func (r *Report) count(s Severity) int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == s {
			n++
		}
	}
	return n
}

// Validator scans text against immutable language rules.
type Validator struct {
	rules *catalog.LanguageRules
}

// NewValidator creates a validator over the given rule catalog.
func NewValidator(rules *catalog.LanguageRules) *Validator {
	return &Validator{rules: rules}
}

// Validate scans the script text and returns the scored report. The
// word count is supplied by the caller (it usually comes from the
// generation request, not from re-counting the text). A non-nil
// metaphor family enables the stem-frequency check.
func (v *Validator) Validate(text string, wordCount int, family *catalog.MetaphorFamily) *Report {
	timer := logging.StartTimer(logging.CategoryQuality, "Validator.Validate")
	defer timer.Stop()

	report := &Report{}
	folded := strings.ToLower(text)
	sentences := splitSentences(text)

	v.checkReflectivePhrases(report, folded, sentences)
	v.checkCliches(report, folded)
	v.checkVisualCommands(report, folded)
	v.checkRepetition(report, sentences)
	v.checkBenefitDensity(report, text)
	v.checkMetaphorFrequency(report, folded, wordCount, family)
	v.checkEmDash(report, text)
	v.checkFillerPhrases(report, folded)

	report.Score = score(report)
	deriveAdvice(report)

	logging.Get(logging.CategoryQuality).Info(
		"validated script: score=%d critical=%d major=%d minor=%d",
		report.Score, report.count(SeverityCritical),
		report.count(SeverityMajor), report.count(SeverityMinor))
	return report
}

func score(r *Report) int {
	s := 100 -
		penaltyCritical*r.count(SeverityCritical) -
		penaltyMajor*r.count(SeverityMajor) -
		penaltyMinor*r.count(SeverityMinor)
	if s < 0 {
		s = 0
	}
	return s
}

// checkReflectivePhrases flags forbidden cognitive instructions. One
// violation per distinct phrase, with the first offending sentence
// excerpted.
func (v *Validator) checkReflectivePhrases(r *Report, folded string, sentences []string) {
	for _, pair := range v.rules.ReflectivePhrases {
		phrase := strings.ToLower(pair.Phrase)
		if phrase == "" || !strings.Contains(folded, phrase) {
			continue
		}
		r.Violations = append(r.Violations, Violation{
			Severity:     SeverityCritical,
			Category:     CategoryReflectivePhrase,
			Message:      fmt.Sprintf("forbidden reflective instruction %q", pair.Phrase),
			Excerpt:      sentenceContaining(sentences, phrase),
			SuggestedFix: pair.Replacement,
		})
	}
}

func (v *Validator) checkCliches(r *Report, folded string) {
	for _, cliche := range v.rules.Cliches {
		c := strings.ToLower(cliche)
		if c == "" || !strings.Contains(folded, c) {
			continue
		}
		r.Violations = append(r.Violations, Violation{
			Severity:     SeverityMajor,
			Category:     CategoryCliche,
			Message:      fmt.Sprintf("cliche %q", cliche),
			Excerpt:      cliche,
			SuggestedFix: "replace with a specific, concrete image",
		})
	}
}

// checkVisualCommands matches visual-only command verbs on word
// boundaries. One violation per distinct verb, occurrence count in the
// message.
func (v *Validator) checkVisualCommands(r *Report, folded string) {
	for _, verb := range v.rules.VisualCommands {
		if verb == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(verb)) + `\b`)
		if err != nil {
			logging.Get(logging.CategoryQuality).Warn("bad visual command pattern %q: %v", verb, err)
			continue
		}
		matches := re.FindAllStringIndex(folded, -1)
		if len(matches) == 0 {
			continue
		}
		r.Violations = append(r.Violations, Violation{
			Severity: SeverityMajor,
			Category: CategoryVisualCommand,
			Message:  fmt.Sprintf("visual-only command %q used %d time(s)", verb, len(matches)),
			Excerpt:  verb,
			SuggestedFix: fmt.Sprintf("use an inclusive sensory verb instead (%s)",
				strings.Join(v.rules.InclusiveVerbs, ", ")),
		})
	}
}

// checkRepetition slides a three-sentence window over the text and
// flags every triple whose sentences all open with the second-person
// pronoun followed by a space. Overlapping triples each count.
func (v *Validator) checkRepetition(r *Report, sentences []string) {
	opens := make([]bool, len(sentences))
	for i, s := range sentences {
		opens[i] = strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "you ")
	}
	for i := 0; i+2 < len(opens); i++ {
		if opens[i] && opens[i+1] && opens[i+2] {
			r.Violations = append(r.Violations, Violation{
				Severity:     SeverityMajor,
				Category:     CategoryRepetition,
				Message:      "three consecutive sentences open with the second-person pronoun",
				Excerpt:      strings.TrimSpace(sentences[i]),
				SuggestedFix: "vary sentence openings: lead with the experience, the breath, or the setting",
			})
		}
	}
}

// checkBenefitDensity flags paragraphs stuffed with benefit keywords.
// Occurrences are counted with repeats, per paragraph.
func (v *Validator) checkBenefitDensity(r *Report, text string) {
	if len(v.rules.BenefitKeywords) == 0 {
		return
	}
	for _, paragraph := range strings.Split(text, "\n\n") {
		folded := strings.ToLower(paragraph)
		total := 0
		for _, keyword := range v.rules.BenefitKeywords {
			total += countWord(folded, strings.ToLower(keyword))
		}
		if total <= benefitDensityMax {
			continue
		}
		r.Violations = append(r.Violations, Violation{
			Severity:     SeverityMajor,
			Category:     CategoryBenefitDensity,
			Message:      fmt.Sprintf("%d benefit keywords in one paragraph (max %d)", total, benefitDensityMax),
			Excerpt:      excerpt(paragraph, 80),
			SuggestedFix: "spread benefit statements across the script; let imagery carry some of them",
		})
	}
}

// checkMetaphorFrequency flags overuse of the primary metaphor family.
// Stems match on word boundaries with a suffix wildcard so plurals and
// derived forms count. The cap scales with script length.
func (v *Validator) checkMetaphorFrequency(r *Report, folded string, wordCount int, family *catalog.MetaphorFamily) {
	if family == nil || len(family.PrimaryImages) == 0 {
		return
	}
	total := 0
	for _, image := range family.PrimaryImages {
		stem := strings.ToLower(image)
		if stem == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(stem) + `[a-z]*\b`)
		if err != nil {
			continue
		}
		total += len(re.FindAllStringIndex(folded, -1))
	}

	limit := metaphorCapShort
	if wordCount >= metaphorLongWordCount {
		limit = metaphorCapLong
	}
	if total <= limit {
		return
	}
	r.Violations = append(r.Violations, Violation{
		Severity:     SeverityMajor,
		Category:     CategoryMetaphorFrequency,
		Message:      fmt.Sprintf("metaphor family %q appears %d times (max %d for this length)", family.Name, total, limit),
		Excerpt:      family.Name,
		SuggestedFix: "thin the imagery: return to plain somatic language between metaphor passages",
	})
}

func (v *Validator) checkEmDash(r *Report, text string) {
	n := strings.Count(text, "—")
	if n == 0 {
		return
	}
	r.Violations = append(r.Violations, Violation{
		Severity:     SeverityMinor,
		Category:     CategoryEmDash,
		Message:      fmt.Sprintf("em-dash used %d time(s)", n),
		Excerpt:      "—",
		SuggestedFix: "restructure into separate sentences or use a comma",
	})
}

func (v *Validator) checkFillerPhrases(r *Report, folded string) {
	for _, filler := range v.rules.FillerPhrases {
		f := strings.ToLower(filler)
		if f == "" || !strings.Contains(folded, f) {
			continue
		}
		r.Violations = append(r.Violations, Violation{
			Severity:     SeverityMinor,
			Category:     CategoryFillerPhrase,
			Message:      fmt.Sprintf("filler phrase %q", filler),
			Excerpt:      filler,
			SuggestedFix: "delete it; the sentence is stronger without it",
		})
	}
}

// deriveAdvice turns fired categories into human-readable warnings and
// rewrite suggestions. These never affect the numeric contract.
func deriveAdvice(r *Report) {
	fired := make(map[Category]bool)
	for _, v := range r.Violations {
		fired[v.Category] = true
	}

	if fired[CategoryReflectivePhrase] {
		r.Warnings = append(r.Warnings, "script contains cognitive instructions that break immersion")
		r.Suggestions = append(r.Suggestions, "state the experience as already happening instead of asking the listener to recall or decide")
	}
	if fired[CategoryCliche] {
		r.Warnings = append(r.Warnings, "script leans on stock phrases")
		r.Suggestions = append(r.Suggestions, "replace each cliche with one concrete sensory detail")
	}
	if fired[CategoryVisualCommand] {
		r.Warnings = append(r.Warnings, "script excludes listeners who do not visualize")
		r.Suggestions = append(r.Suggestions, "swap visual commands for notice, sense, feel, or experience")
	}
	if fired[CategoryRepetition] {
		r.Warnings = append(r.Warnings, "repetitive second-person sentence openings flatten the rhythm")
		r.Suggestions = append(r.Suggestions, "open some sentences with the setting, the breath, or a sensation")
	}
	if fired[CategoryBenefitDensity] {
		r.Warnings = append(r.Warnings, "benefit statements are clustered too densely")
	}
	if fired[CategoryMetaphorFrequency] {
		r.Warnings = append(r.Warnings, "the primary metaphor is overworked")
	}
	if fired[CategoryEmDash] || fired[CategoryFillerPhrase] {
		r.Suggestions = append(r.Suggestions, "tighten punctuation and cut filler phrasing")
	}
}

// splitSentences breaks text on terminal punctuation. Good enough for
// generated prose; abbreviations are not a concern in this domain.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func sentenceContaining(sentences []string, foldedPhrase string) string {
	for _, s := range sentences {
		if strings.Contains(strings.ToLower(s), foldedPhrase) {
			return s
		}
	}
	return ""
}

func countWord(folded, word string) int {
	if word == "" {
		return 0
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return strings.Count(folded, word)
	}
	return len(re.FindAllStringIndex(folded, -1))
}

func excerpt(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
