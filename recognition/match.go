package recognition

import "sort"

type Decision int

const (
	// DecisionInapplicable means no comparable templates existed for this
	// backend - distinct from a below-threshold rejection
	DecisionInapplicable Decision = iota
	DecisionRejected
	DecisionAccepted
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionRejected:
		return "rejected"
	default:
		return "inapplicable"
	}
}

// Candidate is one scored enrolled template
type Candidate struct {
	UserID   uint64
	Distance float64
}

// MatchResult is the output of one backend attempt
type MatchResult struct {
	BackendTag string
	Decision   Decision
	BestUserID uint64
	Distance   float64
	Confidence float64
	Compared   int
}

// MatchEngine scores a probe against enrolled templates of one backend.
// It is stateless; all semantics come from the backend descriptor.
type MatchEngine struct{}

// Score computes the descriptor's distance between the probe and every
// compatible template, sorted best first. Templates carrying another
// backend tag - or the right tag with the wrong dimensionality - are
// filtered out before scoring: vectors produced by different backends are
// never compared.
func (e MatchEngine) Score(probe []float32, templates []Template, desc Descriptor) []Candidate {
	candidates := make([]Candidate, 0, len(templates))
	for _, t := range templates {
		if t.BackendTag != desc.Tag || len(t.Vector) != desc.Dims || len(probe) != desc.Dims {
			continue
		}
		candidates = append(candidates, Candidate{
			UserID:   t.UserID,
			Distance: desc.Metric.Distance(probe, t.Vector),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		// Deterministic tie break
		return candidates[i].UserID < candidates[j].UserID
	})
	return candidates
}

// Decide renders the accept/reject decision for one backend attempt.
// The threshold is inclusive at the boundary.
func (e MatchEngine) Decide(probe []float32, templates []Template, desc Descriptor) MatchResult {
	candidates := e.Score(probe, templates, desc)
	if len(candidates) == 0 {
		return MatchResult{BackendTag: desc.Tag, Decision: DecisionInapplicable}
	}
	best := candidates[0]
	result := MatchResult{
		BackendTag: desc.Tag,
		BestUserID: best.UserID,
		Distance:   best.Distance,
		Confidence: desc.Confidence(best.Distance),
		Compared:   len(candidates),
	}
	if best.Distance <= desc.Threshold {
		result.Decision = DecisionAccepted
	} else {
		result.Decision = DecisionRejected
	}
	return result
}
