// Package plan builds the per-request generation contract: which
// narrative arcs a script will follow, which metaphor family carries
// its imagery, and the reasoning trail behind both decisions.
package plan

import (
	"strings"

	"tranceforge/internal/catalog"
)

// PresentingContext is the free-text client input for one request.
// Immutable, created per request, discarded after use.
type PresentingContext struct {
	Issue   string
	Outcome string
	Notes   string
}

// combined returns the case-folded concatenation scanned for triggers.
func (pc PresentingContext) combined() string {
	return strings.ToLower(pc.Issue + " " + pc.Outcome + " " + pc.Notes)
}

// DetectIssues scans the client input for known issue triggers and
// returns the matched category tags in catalog order. A category
// matches when any of its trigger substrings occurs anywhere in the
// combined text; matching is plain containment, not word-boundary
// aware. No score, no ranking.
func DetectIssues(issues *catalog.IssueCatalog, pc PresentingContext) []string {
	text := pc.combined()

	var detected []string
	for _, category := range issues.Categories {
		for _, trigger := range category.Triggers {
			if strings.Contains(text, strings.ToLower(trigger)) {
				detected = append(detected, category.Tag)
				break
			}
		}
	}
	return detected
}
