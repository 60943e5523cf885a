package plan

import (
	"fmt"
)

// MetaphorThreshold is the symbolic level at or above which a primary
// metaphor family is selected. Below it the selection is always nil.
const MetaphorThreshold = 40

// SelectMetaphor picks the primary metaphor family for a request.
// Detected issues are walked in detection order; the first issue with a
// catalog mapping wins, and its first recommended family is used. When
// no issue maps (or none were detected) the catalog default family is
// selected. Below the symbolic threshold the result is nil, always.
func (p *Planner) SelectMetaphor(detected []string, symbolicLevel int) *MetaphorSelection {
	if symbolicLevel < MetaphorThreshold {
		return nil
	}

	for _, issue := range detected {
		names := p.metaphors.IssueFamilies[issue]
		if len(names) == 0 {
			continue
		}
		family, ok := p.metaphors.Get(names[0])
		if !ok {
			continue
		}
		return &MetaphorSelection{
			Family: family,
			Reason: fmt.Sprintf("recommended for presenting issue: %s", issue),
		}
	}

	family, ok := p.metaphors.Get(p.metaphors.DefaultFamily)
	if !ok {
		return nil
	}
	return &MetaphorSelection{Family: family, Reason: "default family"}
}
