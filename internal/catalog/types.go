// Package catalog defines the declarative catalog data the planning
// pipeline consumes: narrative arcs, metaphor families, issue triggers,
// authorial principles, language rules, and reusable templates.
//
// Catalogs are loaded once at process start (from embedded defaults or
// external YAML files) and are read-only afterwards. They are passed by
// reference into the pure planning and scoring functions; there is no
// ambient global lookup. All by-ID lookups return (value, ok) so callers
// must handle the missing-ID case explicitly.
package catalog

// NarrativeArc is a named thematic/structural pattern selectable into a
// script, with associated vocabulary and prompt integration text.
type NarrativeArc struct {
	ID                string   `yaml:"id"`
	Name              string   `yaml:"name"`
	KeyLanguage       []string `yaml:"key_language"`
	PresentingIssues  []string `yaml:"presenting_issues"`
	PromptIntegration string   `yaml:"prompt_integration"`
}

// ArcCatalog holds all narrative arcs plus the selection rules that
// govern how they are combined into a script.
type ArcCatalog struct {
	arcs  map[string]*NarrativeArc
	order []string

	// MandatoryArcIDs are always included, in this order, ahead of any
	// issue-matched or template-preferred arcs.
	MandatoryArcIDs []string

	// IssueArcs maps a detected issue tag to the arc IDs that address it.
	IssueArcs map[string][]string

	// MaxArcsPerScript caps the selected arc list.
	MaxArcsPerScript int
}

// Get retrieves an arc by ID.
func (c *ArcCatalog) Get(id string) (*NarrativeArc, bool) {
	arc, ok := c.arcs[id]
	return arc, ok
}

// All returns all arcs in catalog order.
func (c *ArcCatalog) All() []*NarrativeArc {
	result := make([]*NarrativeArc, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.arcs[id])
	}
	return result
}

// Count returns the number of arcs in the catalog.
func (c *ArcCatalog) Count() int {
	return len(c.arcs)
}

// MetaphorFamily is a named symbolic-imagery set that gives generated
// text a coherent figurative world.
type MetaphorFamily struct {
	Name          string   `yaml:"name"`
	PrimaryImages []string `yaml:"primary_images"`
}

// MetaphorCatalog holds metaphor families plus the issue mapping used
// to pick one for a client.
type MetaphorCatalog struct {
	families map[string]*MetaphorFamily
	order    []string

	// IssueFamilies maps an issue tag to recommended family names,
	// most preferred first.
	IssueFamilies map[string][]string

	// DefaultFamily is used when no detected issue has a mapping.
	DefaultFamily string
}

// Get retrieves a metaphor family by name.
func (c *MetaphorCatalog) Get(name string) (*MetaphorFamily, bool) {
	family, ok := c.families[name]
	return family, ok
}

// All returns all families in catalog order.
func (c *MetaphorCatalog) All() []*MetaphorFamily {
	result := make([]*MetaphorFamily, 0, len(c.order))
	for _, name := range c.order {
		result = append(result, c.families[name])
	}
	return result
}

// IssueCategory names a presenting-issue tag and the substrings that
// trigger it in free-text client input.
type IssueCategory struct {
	Tag      string   `yaml:"tag"`
	Triggers []string `yaml:"triggers"`
}

// IssueCatalog holds the ordered list of issue categories. Order
// matters: metaphor selection iterates detected issues in catalog
// order and takes the first with a family mapping.
type IssueCatalog struct {
	Categories []IssueCategory
}

// ToneMix is a target split between permissive and directive phrasing,
// expressed as percentages that sum to 100.
type ToneMix struct {
	Permissive int `yaml:"permissive"`
	Directive  int `yaml:"directive"`
}

// QualityGate is a named check a principle expects satisfied in
// generated text. The validator surfaces these as reminder strings.
type QualityGate struct {
	Check string `yaml:"check"`
}

// Principle is one entry in the fixed catalog of authorial principles.
type Principle struct {
	ID               string        `yaml:"id"`
	Name             string        `yaml:"name"`
	Description      string        `yaml:"description"`
	Rationale        string        `yaml:"rationale"`
	Rule             string        `yaml:"rule"`
	PromptDirectives []string      `yaml:"prompt_directives"`
	QualityGates     []QualityGate `yaml:"quality_gates"`

	// LanguageHierarchy maps experience level ("beginner",
	// "intermediate", "advanced", each with an optional "_anxious"
	// variant) to a tone mix. Only the safety principle carries one.
	LanguageHierarchy map[string]ToneMix `yaml:"language_hierarchy"`

	// SafetyPhraseLibrary lists example permissive phrases.
	SafetyPhraseLibrary []string `yaml:"safety_phrase_library"`
}

// PrincipleCatalog holds all authorial principles in catalog order.
type PrincipleCatalog struct {
	principles map[string]*Principle
	order      []string

	// MethodologyContext names the author methodology the preamble
	// opens with.
	MethodologyContext string
}

// Get retrieves a principle by ID.
func (c *PrincipleCatalog) Get(id string) (*Principle, bool) {
	p, ok := c.principles[id]
	return p, ok
}

// All returns all principles in catalog order.
func (c *PrincipleCatalog) All() []*Principle {
	result := make([]*Principle, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.principles[id])
	}
	return result
}

// ReplacementPattern pairs a forbidden phrase with the direct-experience
// pattern the generator should use instead.
type ReplacementPattern struct {
	Phrase      string `yaml:"phrase"`
	Replacement string `yaml:"replacement"`
}

// LanguageRules is the language-craft rule catalog consumed by both the
// principle enforcer (as directives) and the quality validator (as
// scanning rules).
type LanguageRules struct {
	// DirectiveRatio is the target percentage of directive (vs.
	// permissive) phrasing in a default script.
	DirectiveRatio int `yaml:"directive_ratio"`

	// ReflectivePhrases are forbidden cognitive instructions that ask
	// the listener to recall, choose, or analyze.
	ReflectivePhrases []ReplacementPattern `yaml:"reflective_phrases"`

	// Cliches are banned stock phrases.
	Cliches []string `yaml:"cliches"`

	// VisualCommands are visual-only command verbs that exclude
	// non-visualizers; matched on word boundaries.
	VisualCommands []string `yaml:"visual_commands"`

	// InclusiveVerbs are the sensory verbs to use instead.
	InclusiveVerbs []string `yaml:"inclusive_verbs"`

	// FillerPhrases are AI-sounding filler phrases (minor violations).
	FillerPhrases []string `yaml:"filler_phrases"`

	// BenefitKeywords feed the per-paragraph benefit-density check.
	BenefitKeywords []string `yaml:"benefit_keywords"`
}

// Template is a reusable preset bundling dimension levels, tags, and
// intended-use metadata, rankable against free-text client input.
type Template struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Category         string   `yaml:"category"`
	Tags             []string `yaml:"tags"`
	UseCases         []string `yaml:"use_cases"`
	PresentingIssues []string `yaml:"presenting_issues"`
	UsageCount       int      `yaml:"usage_count"`
	IsSystemCurated  bool     `yaml:"is_system_curated"`

	// Dimensions maps dimension name to emphasis level 0-100.
	Dimensions map[string]int `yaml:"dimensions"`

	// PreferredArcIDs are arcs this template nudges into selection.
	PreferredArcIDs []string `yaml:"preferred_arc_ids"`
}

// Bundle groups every catalog the core consumes, constructed once at
// process start and passed by reference into planning functions.
type Bundle struct {
	Arcs       *ArcCatalog
	Metaphors  *MetaphorCatalog
	Issues     *IssueCatalog
	Principles *PrincipleCatalog
	Language   *LanguageRules
	Templates  []Template
}
