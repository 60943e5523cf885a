package catalog

import (
	_ "embed"
)

// Embedded default catalogs. These are the baked-in rule data used when
// no external catalog files are configured; external files override
// them wholesale, never partially.

//go:embed data/arcs.yaml
var defaultArcsYAML []byte

//go:embed data/metaphors.yaml
var defaultMetaphorsYAML []byte

//go:embed data/issues.yaml
var defaultIssuesYAML []byte

//go:embed data/principles.yaml
var defaultPrinciplesYAML []byte

//go:embed data/language_rules.yaml
var defaultLanguageYAML []byte

//go:embed data/templates.yaml
var defaultTemplatesYAML []byte

// LoadDefaultBundle parses the embedded default catalogs.
func LoadDefaultBundle() (*Bundle, error) {
	return parseBundle(
		defaultArcsYAML,
		defaultMetaphorsYAML,
		defaultIssuesYAML,
		defaultPrinciplesYAML,
		defaultLanguageYAML,
		defaultTemplatesYAML,
	)
}
