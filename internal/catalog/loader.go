package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tranceforge/internal/logging"
)

// yamlArcCatalog matches the arc catalog document structure.
type yamlArcCatalog struct {
	Arcs             []NarrativeArc      `yaml:"arcs"`
	MandatoryArcIDs  []string            `yaml:"mandatory_arc_ids"`
	IssueArcs        map[string][]string `yaml:"issue_arcs"`
	MaxArcsPerScript int                 `yaml:"max_arcs_per_script"`
}

// yamlMetaphorCatalog matches the metaphor catalog document structure.
type yamlMetaphorCatalog struct {
	Families      []MetaphorFamily    `yaml:"families"`
	IssueFamilies map[string][]string `yaml:"issue_families"`
	DefaultFamily string              `yaml:"default_family"`
}

// yamlIssueCatalog matches the issue catalog document structure.
type yamlIssueCatalog struct {
	Categories []IssueCategory `yaml:"categories"`
}

// yamlPrincipleCatalog matches the principle catalog document structure.
type yamlPrincipleCatalog struct {
	MethodologyContext string      `yaml:"methodology_context"`
	Principles         []Principle `yaml:"principles"`
}

// yamlTemplateCatalog matches the template catalog document structure.
type yamlTemplateCatalog struct {
	Templates []Template `yaml:"templates"`
}

// ParseArcCatalog parses and validates an arc catalog document.
func ParseArcCatalog(data []byte) (*ArcCatalog, error) {
	var raw yamlArcCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse arc catalog: %w", err)
	}

	if len(raw.Arcs) == 0 {
		return nil, fmt.Errorf("arc catalog has no arcs")
	}
	if raw.MaxArcsPerScript <= 0 {
		return nil, fmt.Errorf("arc catalog requires max_arcs_per_script > 0, got %d", raw.MaxArcsPerScript)
	}

	c := &ArcCatalog{
		arcs:             make(map[string]*NarrativeArc, len(raw.Arcs)),
		MandatoryArcIDs:  raw.MandatoryArcIDs,
		IssueArcs:        raw.IssueArcs,
		MaxArcsPerScript: raw.MaxArcsPerScript,
	}
	if c.IssueArcs == nil {
		c.IssueArcs = map[string][]string{}
	}

	for i := range raw.Arcs {
		arc := raw.Arcs[i]
		if arc.ID == "" {
			return nil, fmt.Errorf("arc at index %d missing id", i)
		}
		if arc.Name == "" {
			return nil, fmt.Errorf("arc %q missing name", arc.ID)
		}
		if _, exists := c.arcs[arc.ID]; exists {
			return nil, fmt.Errorf("duplicate arc id %q", arc.ID)
		}
		c.arcs[arc.ID] = &arc
		c.order = append(c.order, arc.ID)
	}

	// Every referenced arc ID must resolve.
	for _, id := range c.MandatoryArcIDs {
		if _, ok := c.arcs[id]; !ok {
			return nil, fmt.Errorf("mandatory arc id %q not in catalog", id)
		}
	}
	for issue, ids := range c.IssueArcs {
		for _, id := range ids {
			if _, ok := c.arcs[id]; !ok {
				return nil, fmt.Errorf("issue %q maps to unknown arc id %q", issue, id)
			}
		}
	}

	return c, nil
}

// ParseMetaphorCatalog parses and validates a metaphor catalog document.
func ParseMetaphorCatalog(data []byte) (*MetaphorCatalog, error) {
	var raw yamlMetaphorCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse metaphor catalog: %w", err)
	}

	if len(raw.Families) == 0 {
		return nil, fmt.Errorf("metaphor catalog has no families")
	}

	c := &MetaphorCatalog{
		families:      make(map[string]*MetaphorFamily, len(raw.Families)),
		IssueFamilies: raw.IssueFamilies,
		DefaultFamily: raw.DefaultFamily,
	}
	if c.IssueFamilies == nil {
		c.IssueFamilies = map[string][]string{}
	}

	for i := range raw.Families {
		family := raw.Families[i]
		if family.Name == "" {
			return nil, fmt.Errorf("metaphor family at index %d missing name", i)
		}
		if _, exists := c.families[family.Name]; exists {
			return nil, fmt.Errorf("duplicate metaphor family %q", family.Name)
		}
		c.families[family.Name] = &family
		c.order = append(c.order, family.Name)
	}

	if c.DefaultFamily == "" {
		return nil, fmt.Errorf("metaphor catalog missing default_family")
	}
	if _, ok := c.families[c.DefaultFamily]; !ok {
		return nil, fmt.Errorf("default family %q not in catalog", c.DefaultFamily)
	}
	for issue, names := range c.IssueFamilies {
		for _, name := range names {
			if _, ok := c.families[name]; !ok {
				return nil, fmt.Errorf("issue %q recommends unknown family %q", issue, name)
			}
		}
	}

	return c, nil
}

// ParseIssueCatalog parses and validates an issue catalog document.
func ParseIssueCatalog(data []byte) (*IssueCatalog, error) {
	var raw yamlIssueCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse issue catalog: %w", err)
	}
	if len(raw.Categories) == 0 {
		return nil, fmt.Errorf("issue catalog has no categories")
	}

	seen := make(map[string]bool, len(raw.Categories))
	for i, cat := range raw.Categories {
		if cat.Tag == "" {
			return nil, fmt.Errorf("issue category at index %d missing tag", i)
		}
		if seen[cat.Tag] {
			return nil, fmt.Errorf("duplicate issue tag %q", cat.Tag)
		}
		if len(cat.Triggers) == 0 {
			return nil, fmt.Errorf("issue category %q has no triggers", cat.Tag)
		}
		seen[cat.Tag] = true
	}

	return &IssueCatalog{Categories: raw.Categories}, nil
}

// ParsePrincipleCatalog parses and validates a principle catalog document.
func ParsePrincipleCatalog(data []byte) (*PrincipleCatalog, error) {
	var raw yamlPrincipleCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse principle catalog: %w", err)
	}
	if len(raw.Principles) == 0 {
		return nil, fmt.Errorf("principle catalog has no principles")
	}

	c := &PrincipleCatalog{
		principles:         make(map[string]*Principle, len(raw.Principles)),
		MethodologyContext: raw.MethodologyContext,
	}

	for i := range raw.Principles {
		p := raw.Principles[i]
		if p.ID == "" {
			return nil, fmt.Errorf("principle at index %d missing id", i)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("principle %q missing name", p.ID)
		}
		if _, exists := c.principles[p.ID]; exists {
			return nil, fmt.Errorf("duplicate principle id %q", p.ID)
		}
		for level, mix := range p.LanguageHierarchy {
			if mix.Permissive+mix.Directive != 100 {
				return nil, fmt.Errorf("principle %q: tone mix for %q must sum to 100, got %d",
					p.ID, level, mix.Permissive+mix.Directive)
			}
		}
		c.principles[p.ID] = &p
		c.order = append(c.order, p.ID)
	}

	return c, nil
}

// ParseLanguageRules parses and validates a language-rule document.
func ParseLanguageRules(data []byte) (*LanguageRules, error) {
	var rules LanguageRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse language rules: %w", err)
	}
	if rules.DirectiveRatio < 0 || rules.DirectiveRatio > 100 {
		return nil, fmt.Errorf("directive_ratio must be 0-100, got %d", rules.DirectiveRatio)
	}
	if len(rules.ReflectivePhrases) == 0 {
		return nil, fmt.Errorf("language rules have no reflective phrases")
	}
	return &rules, nil
}

// ParseTemplateCatalog parses and validates a template catalog document.
// Duplicate IDs keep the first occurrence, matching scorer semantics.
func ParseTemplateCatalog(data []byte) ([]Template, error) {
	var raw yamlTemplateCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse template catalog: %w", err)
	}

	seen := make(map[string]bool, len(raw.Templates))
	templates := make([]Template, 0, len(raw.Templates))
	for i, t := range raw.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template at index %d missing id", i)
		}
		if seen[t.ID] {
			logging.Get(logging.CategoryCatalog).Warn("duplicate template id %q, keeping first occurrence", t.ID)
			continue
		}
		for dim, level := range t.Dimensions {
			if level < 0 || level > 100 {
				return nil, fmt.Errorf("template %q: dimension %q level %d out of range", t.ID, dim, level)
			}
		}
		seen[t.ID] = true
		templates = append(templates, t)
	}

	return templates, nil
}

// LoadBundleFromFiles loads every catalog from external YAML files.
// Empty paths fall back to the embedded defaults for that catalog.
func LoadBundleFromFiles(paths Paths) (*Bundle, error) {
	timer := logging.StartTimer(logging.CategoryCatalog, "LoadBundleFromFiles")
	defer timer.Stop()

	read := func(path string, embedded []byte) ([]byte, error) {
		if path == "" {
			return embedded, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
		}
		return data, nil
	}

	arcData, err := read(paths.Arcs, defaultArcsYAML)
	if err != nil {
		return nil, err
	}
	metaphorData, err := read(paths.Metaphors, defaultMetaphorsYAML)
	if err != nil {
		return nil, err
	}
	issueData, err := read(paths.Issues, defaultIssuesYAML)
	if err != nil {
		return nil, err
	}
	principleData, err := read(paths.Principles, defaultPrinciplesYAML)
	if err != nil {
		return nil, err
	}
	languageData, err := read(paths.Language, defaultLanguageYAML)
	if err != nil {
		return nil, err
	}
	templateData, err := read(paths.Templates, defaultTemplatesYAML)
	if err != nil {
		return nil, err
	}

	return parseBundle(arcData, metaphorData, issueData, principleData, languageData, templateData)
}

// Paths lists optional external catalog file locations.
type Paths struct {
	Arcs       string
	Metaphors  string
	Issues     string
	Principles string
	Language   string
	Templates  string
}

func parseBundle(arcData, metaphorData, issueData, principleData, languageData, templateData []byte) (*Bundle, error) {
	arcs, err := ParseArcCatalog(arcData)
	if err != nil {
		return nil, err
	}
	metaphors, err := ParseMetaphorCatalog(metaphorData)
	if err != nil {
		return nil, err
	}
	issues, err := ParseIssueCatalog(issueData)
	if err != nil {
		return nil, err
	}
	principles, err := ParsePrincipleCatalog(principleData)
	if err != nil {
		return nil, err
	}
	language, err := ParseLanguageRules(languageData)
	if err != nil {
		return nil, err
	}
	templates, err := ParseTemplateCatalog(templateData)
	if err != nil {
		return nil, err
	}

	logging.Get(logging.CategoryCatalog).Info(
		"Loaded catalogs: %d arcs, %d metaphor families, %d issue categories, %d principles, %d templates",
		arcs.Count(), len(metaphors.All()), len(issues.Categories), len(principles.All()), len(templates))

	return &Bundle{
		Arcs:       arcs,
		Metaphors:  metaphors,
		Issues:     issues,
		Principles: principles,
		Language:   language,
		Templates:  templates,
	}, nil
}
