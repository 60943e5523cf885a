// Package preset ranks reusable templates against free-text client
// input using weighted keyword and tag matching, with a
// beginner-friendly fallback pool when matches are weak.
package preset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tranceforge/internal/catalog"
	"tranceforge/internal/logging"
)

// Scoring weights.
const (
	weightPresentingIssue = 20
	weightUseCase         = 15
	weightTag             = 10
	weightSecondary       = 5
	weightBeginnerMatch   = 25
	weightCurated         = 3
	usageBonusCap         = 4

	beginnerFloorScore = 5
	strongScore        = 10
	minRecommendations = 3
	maxRecommendations = 20
)

// secondaryGateLevel: a secondary keyword category only counts when the
// template also emphasizes the corresponding dimension above this level.
const secondaryGateLevel = 70

// Recommendation is one ranked template with the reasons it scored.
type Recommendation struct {
	Template catalog.Template
	Score    int
	Reasons  []string
}

// Input is the free-text client material templates are scored against.
type Input struct {
	Issue   string
	Outcome string
	Notes   string
}

func (in Input) issueText() string {
	return strings.ToLower(in.Issue)
}

func (in Input) combined() string {
	return strings.ToLower(in.Issue + " " + in.Outcome + " " + in.Notes)
}

// secondaryCategory pairs trigger keywords with the dimension a
// template must emphasize for the hit to count.
type secondaryCategory struct {
	name      string
	dimension string
	keywords  []string
}

var secondaryCategories = []secondaryCategory{
	{"story", "symbolic", []string{"story", "narrative", "imagery", "metaphor", "symbol"}},
	{"body", "somatic", []string{"body", "physical", "tension", "breath", "sensation"}},
	{"inner-work", "psychological", []string{"pattern", "habit", "inner", "belief", "part of me"}},
	{"time", "temporal", []string{"future", "past", "goal", "ahead", "progress"}},
	{"meaning", "spiritual", []string{"meaning", "purpose", "spiritual", "connection", "gratitude"}},
}

var beginnerSignals = []string{"first time", "beginner", "new to", "never tried", "never done"}

// Recommend scores every template against the client input and returns
// up to the top twenty, strongest first. Templates are deduplicated by
// ID (first occurrence wins) before scoring. When fewer than three
// templates score strongly, beginner-prioritized fallbacks pad the
// result. Every recommendation carries a non-empty reasons list.
func Recommend(templates []catalog.Template, in Input) []Recommendation {
	timer := logging.StartTimer(logging.CategoryPlanning, "preset.Recommend")
	defer timer.Stop()

	deduped := dedupeByID(templates)

	recs := make([]Recommendation, 0, len(deduped))
	for _, t := range deduped {
		recs = append(recs, score(t, in))
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })

	strong := 0
	for _, r := range recs {
		if r.Score > strongScore {
			strong++
		}
	}
	if strong < minRecommendations {
		recs = padWithFallbacks(recs, deduped, strong)
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	}

	for i := range recs {
		if len(recs[i].Reasons) == 0 {
			recs[i].Reasons = []string{"general-purpose preset"}
		}
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	logging.Get(logging.CategoryPlanning).Debug(
		"recommended %d templates (%d strong matches)", len(recs), strong)
	return recs
}

func dedupeByID(templates []catalog.Template) []catalog.Template {
	seen := make(map[string]bool, len(templates))
	result := make([]catalog.Template, 0, len(templates))
	for _, t := range templates {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		result = append(result, t)
	}
	return result
}

// score computes the additive match score for one template.
func score(t catalog.Template, in Input) Recommendation {
	rec := Recommendation{Template: t}
	issueText := in.issueText()
	combined := in.combined()

	for _, issue := range t.PresentingIssues {
		folded := strings.ToLower(issue)
		// An empty side would substring-match everything.
		if folded == "" || issueText == "" {
			continue
		}
		if strings.Contains(issueText, folded) || strings.Contains(folded, issueText) {
			rec.Score += weightPresentingIssue
			rec.Reasons = append(rec.Reasons, fmt.Sprintf("matches presenting issue: %s", issue))
		}
	}

	for _, useCase := range t.UseCases {
		if containsAnyWord(combined, useCase) {
			rec.Score += weightUseCase
			rec.Reasons = append(rec.Reasons, fmt.Sprintf("fits use case: %s", useCase))
		}
	}

	for _, tag := range t.Tags {
		if strings.Contains(combined, strings.ToLower(tag)) {
			rec.Score += weightTag
			rec.Reasons = append(rec.Reasons, fmt.Sprintf("tagged: %s", tag))
		}
	}

	for _, cat := range secondaryCategories {
		if t.Dimensions[cat.dimension] <= secondaryGateLevel {
			continue
		}
		for _, keyword := range cat.keywords {
			if strings.Contains(combined, keyword) {
				rec.Score += weightSecondary
				rec.Reasons = append(rec.Reasons, fmt.Sprintf("emphasizes %s work", cat.name))
				break
			}
		}
	}

	if isBeginnerTemplate(t) && containsAny(combined, beginnerSignals) {
		rec.Score += weightBeginnerMatch
		rec.Reasons = append(rec.Reasons, "well suited to first sessions")
	}

	if bonus := usageBonus(t.UsageCount); bonus > 0 {
		rec.Score += bonus
		rec.Reasons = append(rec.Reasons, "frequently used")
	}
	if t.IsSystemCurated {
		rec.Score += weightCurated
		rec.Reasons = append(rec.Reasons, "curated preset")
	}

	if rec.Score == 0 && isBeginnerTemplate(t) {
		rec.Score = beginnerFloorScore
	}

	return rec
}

// usageBonus is log-scaled and capped so popularity nudges but never
// dominates keyword relevance.
func usageBonus(usageCount int) int {
	if usageCount <= 0 {
		return 0
	}
	bonus := int(math.Log1p(float64(usageCount)))
	if bonus > usageBonusCap {
		bonus = usageBonusCap
	}
	return bonus
}

// padWithFallbacks promotes beginner-prioritized, usage-sorted
// templates into fallback recommendations until at least three
// strong-or-fallback results exist, without duplicating IDs. A weak
// scored entry becomes the fallback for its own ID.
func padWithFallbacks(recs []Recommendation, all []catalog.Template, strong int) []Recommendation {
	present := make(map[string]int, len(recs))
	for i, r := range recs {
		present[r.Template.ID] = i
	}

	candidates := make([]catalog.Template, len(all))
	copy(candidates, all)
	sort.SliceStable(candidates, func(i, j int) bool {
		bi, bj := isBeginnerTemplate(candidates[i]), isBeginnerTemplate(candidates[j])
		if bi != bj {
			return bi
		}
		return candidates[i].UsageCount > candidates[j].UsageCount
	})

	needed := minRecommendations - strong
	for _, t := range candidates {
		if needed <= 0 {
			break
		}
		fallback := Recommendation{
			Template: t,
			Score:    beginnerFloorScore,
			Reasons:  []string{"popular beginner-friendly template"},
		}
		if idx, exists := present[t.ID]; exists {
			if recs[idx].Score > strongScore {
				continue
			}
			recs[idx] = fallback
		} else {
			recs = append(recs, fallback)
		}
		needed--
	}

	return recs
}

func isBeginnerTemplate(t catalog.Template) bool {
	if strings.EqualFold(t.Category, "beginner") {
		return true
	}
	for _, tag := range t.Tags {
		if strings.EqualFold(tag, "beginner") || strings.EqualFold(tag, "first-session") {
			return true
		}
	}
	return false
}

func containsAny(text string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}

// containsAnyWord reports whether any word of the candidate phrase
// (longer than three characters) appears in the text, or the whole
// phrase does.
func containsAnyWord(text, phrase string) bool {
	folded := strings.ToLower(phrase)
	if strings.Contains(text, folded) {
		return true
	}
	for _, word := range strings.Fields(folded) {
		if len(word) > 3 && strings.Contains(text, word) {
			return true
		}
	}
	return false
}
