// Package dimension converts the eight 0-100 emphasis sliders into
// tiered natural-language directives for the text generator.
//
// Tier selection is a sorted threshold table consulted by
// greatest-threshold-at-or-below-value lookup, so a boundary edit is a
// one-line data change rather than a rewrite of an if/else chain.
package dimension

import (
	"fmt"
	"strings"
)

// Name identifies one of the eight emphasis dimensions.
type Name string

const (
	Somatic       Name = "somatic"
	Temporal      Name = "temporal"
	Symbolic      Name = "symbolic"
	Psychological Name = "psychological"
	Perspective   Name = "perspective"
	Spiritual     Name = "spiritual"
	Relational    Name = "relational"
	Language      Name = "language"
)

// AllNames returns the dimensions in their fixed rendering order.
func AllNames() []Name {
	return []Name{Somatic, Temporal, Symbolic, Psychological, Perspective, Spiritual, Relational, Language}
}

// Tier labels an emphasis band.
type Tier string

const (
	TierHeavy    Tier = "heavy"
	TierModerate Tier = "moderate"
	TierLight    Tier = "light"
	TierMinimal  Tier = "minimal"
)

// tierThreshold pairs a minimum level with its tier label. The table is
// ordered highest threshold first; lookup takes the first row whose
// minimum is at or below the value.
type tierThreshold struct {
	min  int
	tier Tier
}

var tierTable = []tierThreshold{
	{75, TierHeavy},
	{50, TierModerate},
	{25, TierLight},
	{1, TierMinimal},
}

// TierFor returns the tier for a level in [1,100]. Level 0 has no tier;
// callers must skip zero-level dimensions before asking.
func TierFor(level int) (Tier, bool) {
	for _, row := range tierTable {
		if level >= row.min {
			return row.tier, true
		}
	}
	return "", false
}

// Attribute is a caller-supplied sub-attribute rendered as a labeled
// line ahead of the tier guidance (a technique list, an archetype, a
// personal metaphor, a communication style).
type Attribute struct {
	Label string
	Value string
}

// Level is one dimension's requested emphasis plus optional
// sub-attributes.
type Level struct {
	Value      int
	Attributes []Attribute
}

// Levels carries all eight dimensions for one request. Spiritual is
// additionally gated by an explicit enable flag: when false the
// dimension is suppressed even at a nonzero level.
type Levels struct {
	Somatic       Level
	Temporal      Level
	Symbolic      Level
	Psychological Level
	Perspective   Level
	Spiritual     Level
	Relational    Level
	Language      Level

	SpiritualEnabled bool
}

// Get returns the level for a named dimension.
func (l Levels) Get(name Name) Level {
	switch name {
	case Somatic:
		return l.Somatic
	case Temporal:
		return l.Temporal
	case Symbolic:
		return l.Symbolic
	case Psychological:
		return l.Psychological
	case Perspective:
		return l.Perspective
	case Spiritual:
		return l.Spiritual
	case Relational:
		return l.Relational
	case Language:
		return l.Language
	}
	return Level{}
}

// Directive is the rendered guidance for one dimension.
type Directive struct {
	Dimension Name
	Tier      Tier
	Text      string
}

// Build renders directives for every contributing dimension, in fixed
// order. A zero-level dimension contributes nothing at all; spiritual
// also requires the enable flag.
func Build(levels Levels) []Directive {
	var directives []Directive
	for _, name := range AllNames() {
		level := levels.Get(name)
		if level.Value <= 0 {
			continue
		}
		if name == Spiritual && !levels.SpiritualEnabled {
			continue
		}

		tier, ok := TierFor(level.Value)
		if !ok {
			continue
		}

		var sb strings.Builder
		for _, attr := range level.Attributes {
			if attr.Value == "" {
				continue
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", attr.Label, attr.Value))
		}
		sb.WriteString(guidanceText(name, tier))

		directives = append(directives, Directive{
			Dimension: name,
			Tier:      tier,
			Text:      sb.String(),
		})
	}
	return directives
}

// guidanceText returns the fixed guidance block for a dimension tier.
func guidanceText(name Name, tier Tier) string {
	if byTier, ok := guidance[name]; ok {
		if text, ok := byTier[tier]; ok {
			return text
		}
	}
	return ""
}

// guidance holds the fixed per-dimension, per-tier guidance blocks.
var guidance = map[Name]map[Tier]string{
	Somatic: {
		TierHeavy:    "Make the body the primary channel: track breath, weight, temperature, and muscle release continuously, returning to physical sensation in nearly every paragraph.",
		TierModerate: "Ground each section in physical sensation before moving on, with regular check-ins on breath and weight.",
		TierLight:    "Touch on bodily sensation at transitions to keep the listener anchored.",
		TierMinimal:  "Mention the body only briefly at the opening settle and the close.",
	},
	Temporal: {
		TierHeavy:    "Work extensively with time: rehearse the desired future in sensory detail and let past resources drift forward into the present.",
		TierModerate: "Include one clear future-pacing passage where the change is already lived in.",
		TierLight:    "Gesture once toward a future in which the change has quietly taken hold.",
		TierMinimal:  "Stay almost entirely in the present moment.",
	},
	Symbolic: {
		TierHeavy:    "Let the metaphor carry the script: the figurative world is the landscape the whole session moves through.",
		TierModerate: "Develop the chosen imagery steadily, returning to it at each transition.",
		TierLight:    "Use the imagery sparingly, as occasional color rather than structure.",
		TierMinimal:  "Keep language plain and literal with at most a passing image.",
	},
	Psychological: {
		TierHeavy:    "Engage inner parts and patterns directly: name the protective intention of old habits and negotiate a new arrangement.",
		TierModerate: "Acknowledge the inner pattern behind the issue and reframe it once, gently.",
		TierLight:    "Hint at the pattern beneath the issue without analyzing it.",
		TierMinimal:  "Avoid inner-work framing; stay experiential.",
	},
	Perspective: {
		TierHeavy:    "Shift vantage repeatedly: the listener experiences the situation from above, from later, and from the outside until it loosens.",
		TierModerate: "Offer one sustained shift of vantage that lets the situation be felt at a different size.",
		TierLight:    "Widen the frame briefly once, then return.",
		TierMinimal:  "Hold a single steady first-person vantage throughout.",
	},
	Spiritual: {
		TierHeavy:    "Open the script to meaning beyond the personal: connection, belonging, and what endures, in the listener's own framing.",
		TierModerate: "Include one passage of quiet meaning or connection larger than the presenting issue.",
		TierLight:    "Allow a brief note of gratitude or belonging near the close.",
		TierMinimal:  "Keep the script entirely secular and concrete.",
	},
	Relational: {
		TierHeavy:    "Bring significant others into the inner landscape: felt presence, repaired connection, words that needed saying.",
		TierModerate: "Include one relational moment where connection is felt in the body.",
		TierLight:    "Reference supportive others in passing.",
		TierMinimal:  "Keep the script a solitary experience.",
	},
	Language: {
		TierHeavy:    "Use full hypnotic phrasing: layered nested clauses, truisms, yes-sets, and embedded suggestions marked by rhythm.",
		TierModerate: "Use flowing suggestive phrasing with occasional embedded suggestions.",
		TierLight:    "Keep phrasing gently rhythmic but mostly plain.",
		TierMinimal:  "Use simple, direct sentences with minimal hypnotic patterning.",
	},
}
