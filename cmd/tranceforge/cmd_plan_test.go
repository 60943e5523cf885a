package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tranceforge/internal/catalog"
	"tranceforge/internal/usage"
)

func defaultBundle(t *testing.T) *catalog.Bundle {
	t.Helper()
	bundle, err := catalog.LoadDefaultBundle()
	require.NoError(t, err)
	return bundle
}

func TestApplyTemplate(t *testing.T) {
	bundle := defaultBundle(t)

	t.Run("seeds preferred arcs", func(t *testing.T) {
		req := requestFile{TemplateID: "quiet-confidence"}
		id, ok := applyTemplate(&req, bundle.Templates)
		require.True(t, ok)
		assert.Equal(t, "quiet-confidence", id)
		assert.Equal(t, []string{"mountain-ascent", "steady-flame"}, req.TemplateArcs)
	})

	t.Run("explicit arcs win over the template", func(t *testing.T) {
		req := requestFile{TemplateID: "quiet-confidence", TemplateArcs: []string{"night-harbor"}}
		id, ok := applyTemplate(&req, bundle.Templates)
		require.True(t, ok)
		assert.Equal(t, "quiet-confidence", id)
		assert.Equal(t, []string{"night-harbor"}, req.TemplateArcs)
	})

	t.Run("unknown template reported", func(t *testing.T) {
		req := requestFile{TemplateID: "no-such-template"}
		id, ok := applyTemplate(&req, bundle.Templates)
		assert.False(t, ok)
		assert.Empty(t, id)
	})

	t.Run("no template is not an error", func(t *testing.T) {
		req := requestFile{}
		id, ok := applyTemplate(&req, bundle.Templates)
		assert.True(t, ok)
		assert.Empty(t, id)
	})
}

func TestRecordTemplateUseAccumulates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")

	require.NoError(t, recordTemplateUse(path, "steady-ground"))
	require.NoError(t, recordTemplateUse(path, "steady-ground"))

	store, err := usage.Open(path)
	require.NoError(t, err)
	defer store.Close()

	counts, err := store.Counts()
	require.NoError(t, err)
	assert.Equal(t, 2, counts["steady-ground"])
}
