package principle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tranceforge/internal/catalog"
)

func testEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	bundle, err := catalog.LoadDefaultBundle()
	require.NoError(t, err)
	return NewEnforcer(bundle.Principles, bundle.Language)
}

func TestEnforcePreamble(t *testing.T) {
	e := testEnforcer(t)
	out := e.Enforce(Input{ClientLevel: LevelBeginner, SymbolicLevel: 60})

	assert.True(t, strings.HasPrefix(out.SystemPrompt, "You are writing a therapeutic narration script.\n"))
	assert.Contains(t, out.SystemPrompt, "Methodology:")
	assert.NotEmpty(t, out.Instructions)
	assert.NotEmpty(t, out.QualityReminders)
	assert.NotEmpty(t, out.Summaries)
}

func TestEnforceMetaphorCoherenceGating(t *testing.T) {
	e := testEnforcer(t)

	t.Run("included above threshold", func(t *testing.T) {
		out := e.Enforce(Input{ClientLevel: LevelBeginner, SymbolicLevel: MetaphorConsistencyThreshold + 1})
		assert.Contains(t, out.SystemPrompt, "Metaphor Coherence")
		assert.NotContains(t, out.SystemPrompt, "Use minimal metaphor")
	})

	t.Run("substituted at threshold", func(t *testing.T) {
		out := e.Enforce(Input{ClientLevel: LevelBeginner, SymbolicLevel: MetaphorConsistencyThreshold})
		assert.NotContains(t, out.SystemPrompt, "Metaphor Coherence")
		assert.Contains(t, out.SystemPrompt, "Use minimal metaphor")
	})
}

func TestEnforceSafetyToneMix(t *testing.T) {
	e := testEnforcer(t)

	tests := []struct {
		name       string
		level      ClientLevel
		anxious    bool
		permissive string
	}{
		{"beginner", LevelBeginner, false, "70% permissive"},
		{"beginner anxious", LevelBeginner, true, "85% permissive"},
		{"intermediate anxious", LevelIntermediate, true, "70% permissive"},
		{"advanced", LevelAdvanced, false, "40% permissive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Enforce(Input{ClientLevel: tt.level, Anxious: tt.anxious, SymbolicLevel: 60})
			assert.Contains(t, out.SystemPrompt, tt.permissive)
		})
	}
}

func TestEnforceSafetyPhrasesCapped(t *testing.T) {
	e := testEnforcer(t)
	out := e.Enforce(Input{ClientLevel: LevelBeginner, SymbolicLevel: 60})

	// The library holds five phrases; at most three are included.
	assert.Contains(t, out.SystemPrompt, "you can adjust anything that needs adjusting")
	assert.NotContains(t, out.SystemPrompt, "if anything feels like too much")
}

func TestEnforceEmergence(t *testing.T) {
	e := testEnforcer(t)

	t.Run("regular counts up", func(t *testing.T) {
		out := e.Enforce(Input{ClientLevel: LevelBeginner, SymbolicLevel: 60, Emergence: EmergenceRegular})
		assert.Contains(t, out.SystemPrompt, "count from one to five")
		assert.NotContains(t, out.SystemPrompt, "fade into sleep")
	})

	t.Run("sleep fades without counting", func(t *testing.T) {
		out := e.Enforce(Input{ClientLevel: LevelBeginner, SymbolicLevel: 60, Emergence: EmergenceSleep})
		assert.Contains(t, out.SystemPrompt, "fade into sleep")
		assert.NotContains(t, out.SystemPrompt, "count from one to five")
	})
}

func TestEnforceLanguageCraft(t *testing.T) {
	e := testEnforcer(t)
	out := e.Enforce(Input{ClientLevel: LevelIntermediate, SymbolicLevel: 60})

	assert.Contains(t, out.SystemPrompt, `never "recall a time when"`)
	assert.Contains(t, out.SystemPrompt, "Never begin three or more consecutive sentences")
	assert.Contains(t, out.SystemPrompt, "notice, sense, feel")
	assert.Contains(t, out.SystemPrompt, "Banned cliches:")
}
