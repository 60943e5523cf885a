package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultBundle(t *testing.T) {
	bundle, err := LoadDefaultBundle()
	require.NoError(t, err)

	assert.Greater(t, bundle.Arcs.Count(), 0)
	assert.NotEmpty(t, bundle.Arcs.MandatoryArcIDs)
	assert.Greater(t, bundle.Arcs.MaxArcsPerScript, 0)
	assert.NotEmpty(t, bundle.Metaphors.All())
	assert.NotEmpty(t, bundle.Issues.Categories)
	assert.NotEmpty(t, bundle.Principles.All())
	assert.NotEmpty(t, bundle.Language.ReflectivePhrases)
	assert.NotEmpty(t, bundle.Templates)
}

func TestParseArcCatalog(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "valid",
			yaml: `
max_arcs_per_script: 3
mandatory_arc_ids: [a]
arcs:
  - {id: a, name: A}
  - {id: b, name: B}
`,
		},
		{
			name: "duplicate id",
			yaml: `
max_arcs_per_script: 3
arcs:
  - {id: a, name: A}
  - {id: a, name: A again}
`,
			wantErr: "duplicate arc id",
		},
		{
			name: "unknown mandatory id",
			yaml: `
max_arcs_per_script: 3
mandatory_arc_ids: [missing]
arcs:
  - {id: a, name: A}
`,
			wantErr: "not in catalog",
		},
		{
			name: "issue maps to unknown arc",
			yaml: `
max_arcs_per_script: 3
issue_arcs: {anxiety: [missing]}
arcs:
  - {id: a, name: A}
`,
			wantErr: "unknown arc id",
		},
		{
			name: "missing cap",
			yaml: `
arcs:
  - {id: a, name: A}
`,
			wantErr: "max_arcs_per_script",
		},
		{
			name:    "empty catalog",
			yaml:    `arcs: []`,
			wantErr: "no arcs",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseArcCatalog([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, c.Count())

			arc, ok := c.Get("a")
			require.True(t, ok)
			assert.Equal(t, "A", arc.Name)
			_, ok = c.Get("missing")
			assert.False(t, ok)
		})
	}
}

func TestParseMetaphorCatalog(t *testing.T) {
	t.Run("default family must resolve", func(t *testing.T) {
		_, err := ParseMetaphorCatalog([]byte(`
default_family: nowhere
families:
  - {name: water, primary_images: [river]}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default family")
	})

	t.Run("issue mapping must resolve", func(t *testing.T) {
		_, err := ParseMetaphorCatalog([]byte(`
default_family: water
issue_families: {anxiety: [nowhere]}
families:
  - {name: water, primary_images: [river]}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown family")
	})
}

func TestParsePrincipleCatalogToneMixSum(t *testing.T) {
	_, err := ParsePrincipleCatalog([]byte(`
principles:
  - id: safety
    name: Safety
    language_hierarchy:
      beginner: {permissive: 70, directive: 40}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must sum to 100")
}

func TestParseTemplateCatalog(t *testing.T) {
	t.Run("duplicate keeps first", func(t *testing.T) {
		templates, err := ParseTemplateCatalog([]byte(`
templates:
  - {id: a, name: First}
  - {id: a, name: Second}
`))
		require.NoError(t, err)
		require.Len(t, templates, 1)
		assert.Equal(t, "First", templates[0].Name)
	})

	t.Run("dimension level out of range", func(t *testing.T) {
		_, err := ParseTemplateCatalog([]byte(`
templates:
  - id: a
    name: A
    dimensions: {somatic: 140}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})
}

func TestLoadBundleFromFilesFallsBackToEmbedded(t *testing.T) {
	bundle, err := LoadBundleFromFiles(Paths{})
	require.NoError(t, err)
	assert.Greater(t, bundle.Arcs.Count(), 0)
}

func TestLoadBundleFromFilesOverride(t *testing.T) {
	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadBundleFromFiles(Paths{Arcs: "does/not/exist.yaml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read catalog file")
	})
}
