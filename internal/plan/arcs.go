package plan

import (
	"fmt"

	"tranceforge/internal/catalog"
	"tranceforge/internal/logging"
)

// Arc selection reasons.
const (
	ReasonFoundation = "foundation arc"
	ReasonManual     = "manually selected arc"
	ReasonDefault    = "complementary arc"
)

// SelectedArc is one arc chosen into the contract, with the reason it
// was chosen.
type SelectedArc struct {
	Arc    *catalog.NarrativeArc
	Reason string
}

// MetaphorSelection is the chosen symbolic-imagery family.
type MetaphorSelection struct {
	Family *catalog.MetaphorFamily
	Reason string
}

// GenerationContract is the fully resolved, per-request bundle handed
// to the prompt assembler. Built fresh per request; never persisted.
type GenerationContract struct {
	SelectedArcs    []SelectedArc
	PrimaryMetaphor *MetaphorSelection
	ArcPriorityIDs  []string
	ReasoningLog    []string
}

func (c *GenerationContract) log(format string, args ...interface{}) {
	c.ReasoningLog = append(c.ReasoningLog, fmt.Sprintf(format, args...))
}

// Request carries everything arc and metaphor selection need.
type Request struct {
	Context PresentingContext

	// ManualArcID forces a single arc alongside the mandatory set.
	ManualArcID string

	// TemplatePreferredArcIDs are arcs nudged in by a chosen template.
	TemplatePreferredArcIDs []string

	// SymbolicLevel gates metaphor selection.
	SymbolicLevel int
}

// Planner selects arcs and metaphors against immutable catalogs.
type Planner struct {
	arcs      *catalog.ArcCatalog
	metaphors *catalog.MetaphorCatalog
	issues    *catalog.IssueCatalog
}

// NewPlanner creates a planner over the given catalogs.
func NewPlanner(arcs *catalog.ArcCatalog, metaphors *catalog.MetaphorCatalog, issues *catalog.IssueCatalog) *Planner {
	return &Planner{arcs: arcs, metaphors: metaphors, issues: issues}
}

// Plan builds the generation contract for one request. Issue detection
// always runs (its results feed metaphor choice and the reasoning log)
// even when a manual arc override suppresses issue-matched arcs.
func (p *Planner) Plan(req Request) *GenerationContract {
	timer := logging.StartTimer(logging.CategoryPlanning, "Planner.Plan")
	defer timer.Stop()

	contract := &GenerationContract{}

	detected := DetectIssues(p.issues, req.Context)
	if len(detected) > 0 {
		contract.log("detected presenting issues: %v", detected)
	} else {
		contract.log("no presenting issues detected in client input")
	}

	if req.ManualArcID != "" {
		if arc, ok := p.arcs.Get(req.ManualArcID); ok {
			p.selectManual(contract, arc)
		} else {
			logging.Get(logging.CategoryPlanning).Warn(
				"manual arc id %q not in catalog, falling back to auto selection", req.ManualArcID)
			contract.log("manual arc %q not found, using automatic selection", req.ManualArcID)
			p.selectAuto(contract, detected, req.TemplatePreferredArcIDs)
		}
	} else {
		p.selectAuto(contract, detected, req.TemplatePreferredArcIDs)
	}

	for _, sel := range contract.SelectedArcs {
		contract.ArcPriorityIDs = append(contract.ArcPriorityIDs, sel.Arc.ID)
	}

	contract.PrimaryMetaphor = p.SelectMetaphor(detected, req.SymbolicLevel)
	if contract.PrimaryMetaphor != nil {
		contract.log("selected metaphor family %q (%s)",
			contract.PrimaryMetaphor.Family.Name, contract.PrimaryMetaphor.Reason)
	} else {
		contract.log("symbolic level %d below metaphor threshold, no primary metaphor", req.SymbolicLevel)
	}

	return contract
}

// selectManual builds the mandatory set plus the single overridden arc.
// Issue-matched arcs are never added in manual mode.
func (p *Planner) selectManual(contract *GenerationContract, manual *catalog.NarrativeArc) {
	seen := make(map[string]bool)
	p.appendMandatory(contract, seen)

	if !seen[manual.ID] {
		contract.SelectedArcs = append(contract.SelectedArcs, SelectedArc{Arc: manual, Reason: ReasonManual})
		seen[manual.ID] = true
	}
	contract.log("manual override: arc %q selected, automatic issue matching skipped", manual.ID)

	p.truncate(contract)
}

// selectAuto merges the three candidate pools in priority order with
// first-seen-wins deduplication: mandatory arcs, issue-matched arcs,
// then template-preferred arcs, truncated at the configured cap.
func (p *Planner) selectAuto(contract *GenerationContract, detected []string, templateArcIDs []string) {
	seen := make(map[string]bool)
	p.appendMandatory(contract, seen)

	for _, issue := range detected {
		for _, arcID := range p.arcs.IssueArcs[issue] {
			if seen[arcID] {
				continue
			}
			arc, ok := p.arcs.Get(arcID)
			if !ok {
				continue
			}
			seen[arcID] = true
			contract.SelectedArcs = append(contract.SelectedArcs, SelectedArc{
				Arc:    arc,
				Reason: fmt.Sprintf("matches presenting issue: %s", issue),
			})
		}
	}

	for _, arcID := range templateArcIDs {
		if seen[arcID] {
			continue
		}
		arc, ok := p.arcs.Get(arcID)
		if !ok {
			logging.Get(logging.CategoryPlanning).Warn("template prefers unknown arc id %q, skipping", arcID)
			continue
		}
		seen[arcID] = true
		contract.SelectedArcs = append(contract.SelectedArcs, SelectedArc{Arc: arc, Reason: ReasonDefault})
	}

	p.truncate(contract)
	contract.log("automatic selection produced %d arcs (cap %d)",
		len(contract.SelectedArcs), p.arcs.MaxArcsPerScript)
}

func (p *Planner) appendMandatory(contract *GenerationContract, seen map[string]bool) {
	for _, arcID := range p.arcs.MandatoryArcIDs {
		if seen[arcID] {
			continue
		}
		arc, ok := p.arcs.Get(arcID)
		if !ok {
			continue
		}
		seen[arcID] = true
		contract.SelectedArcs = append(contract.SelectedArcs, SelectedArc{Arc: arc, Reason: ReasonFoundation})
	}
}

func (p *Planner) truncate(contract *GenerationContract) {
	if max := p.arcs.MaxArcsPerScript; max > 0 && len(contract.SelectedArcs) > max {
		contract.SelectedArcs = contract.SelectedArcs[:max]
	}
}
