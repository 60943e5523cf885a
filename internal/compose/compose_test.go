package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tranceforge/internal/catalog"
	"tranceforge/internal/dimension"
	"tranceforge/internal/plan"
	"tranceforge/internal/principle"
)

func testComposer(t *testing.T) *Composer {
	t.Helper()
	bundle, err := catalog.LoadDefaultBundle()
	require.NoError(t, err)
	return NewComposer(bundle)
}

func baseRequest() Request {
	return Request{
		Context: plan.PresentingContext{
			Issue:   "anxiety before presentations",
			Outcome: "walk in feeling steady",
		},
		Levels: dimension.Levels{
			Somatic:  dimension.Level{Value: 70},
			Symbolic: dimension.Level{Value: 60},
			Language: dimension.Level{Value: 50},
		},
		ClientLevel: principle.LevelBeginner,
		Emergence:   principle.EmergenceRegular,
	}
}

func TestPlanScriptAssemblyOrder(t *testing.T) {
	c := testComposer(t)
	result := c.PlanScript(baseRequest())

	prompt := result.SystemPrompt
	preamble := strings.Index(prompt, "You are writing a therapeutic narration script.")
	arcs := strings.Index(prompt, "## Narrative Arcs")
	metaphor := strings.Index(prompt, "## Primary Metaphor")
	dims := strings.Index(prompt, "## Dimension Emphasis")

	require.NotEqual(t, -1, preamble)
	require.NotEqual(t, -1, arcs)
	require.NotEqual(t, -1, metaphor)
	require.NotEqual(t, -1, dims)
	assert.Less(t, preamble, arcs)
	assert.Less(t, arcs, metaphor)
	assert.Less(t, metaphor, dims)
}

func TestPlanScriptContract(t *testing.T) {
	c := testComposer(t)
	result := c.PlanScript(baseRequest())

	require.NotNil(t, result.Contract)
	assert.NotEmpty(t, result.Contract.SelectedArcs)
	assert.NotEmpty(t, result.ReasoningLog)
	assert.NotEmpty(t, result.Instructions)
	assert.NotEmpty(t, result.RequestID)
}

func TestPlanScriptMetaphorGatedBySymbolicLevel(t *testing.T) {
	c := testComposer(t)

	req := baseRequest()
	req.Levels.Symbolic = dimension.Level{Value: 20}
	result := c.PlanScript(req)

	assert.Nil(t, result.Contract.PrimaryMetaphor)
	assert.NotContains(t, result.SystemPrompt, "## Primary Metaphor")
}

func TestPlanScriptSpiritualSuppressedWithoutFlag(t *testing.T) {
	c := testComposer(t)

	req := baseRequest()
	req.Levels.Spiritual = dimension.Level{Value: 90}
	result := c.PlanScript(req)
	assert.NotContains(t, result.SystemPrompt, "### spiritual")

	req.Levels.SpiritualEnabled = true
	result = c.PlanScript(req)
	assert.Contains(t, result.SystemPrompt, "### spiritual")
}

func TestPlanScriptDistinctRequestIDs(t *testing.T) {
	c := testComposer(t)
	a := c.PlanScript(baseRequest())
	b := c.PlanScript(baseRequest())
	assert.NotEqual(t, a.RequestID, b.RequestID)
}
