package recognition

import (
	"context"
	"errors"
	"image"
	"log"
	"sort"

	"github.com/google/uuid"
)

type State int

const (
	// StateAccepted - a backend matched an enrolled user
	StateAccepted State = iota
	// StateExhausted - every tier ran or was skipped, none accepted.
	// A non-match, not an error.
	StateExhausted
	// StateFailed - the attempt could not be evaluated at all
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAccepted:
		return "accepted"
	case StateExhausted:
		return "exhausted"
	default:
		return "failed"
	}
}

// Outcome is the final result of one recognition attempt
type Outcome struct {
	AttemptID  string
	State      State
	UserID     uint64
	Confidence float64
	BackendTag string
	Err        error
	FaceCount  int
	// Results holds one entry per tier actually scored, for diagnostics
	Results []MatchResult
	// BestRejection is the lowest-distance rejection seen across tiers,
	// reported on Exhausted
	BestRejection *MatchResult
}

// Orchestrator drives the tiered fallback loop. Backends are independent
// sources of evidence, not votes: only the backend that produced a user's
// stored template can accept for that user, so every enrolled format gets a
// chance, while the first accept short-circuits the remaining tiers.
type Orchestrator struct {
	loader   *ImageLoader
	locator  FaceLocator
	backends []EmbeddingBackend // priority order, fixed at construction
	repo     TemplateRepository
	engine   MatchEngine
	// StrictSingleFace rejects probes with more than one detected face
	// instead of picking the largest
	StrictSingleFace bool
}

func NewOrchestrator(loader *ImageLoader, locator FaceLocator, repo TemplateRepository, backends ...EmbeddingBackend) *Orchestrator {
	ordered := make([]EmbeddingBackend, len(backends))
	copy(ordered, backends)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Descriptor().Rank < ordered[j].Descriptor().Rank
	})
	return &Orchestrator{
		loader:   loader,
		locator:  locator,
		backends: ordered,
		repo:     repo,
	}
}

// Backends returns the priority-ordered tier list
func (o *Orchestrator) Backends() []EmbeddingBackend {
	return o.backends
}

// DetectFaces decodes a capture and returns the detected face regions
// without touching any template. Used for live preview feedback.
func (o *Orchestrator) DetectFaces(raw []byte) ([]image.Rectangle, error) {
	buf, err := o.loader.Load(raw)
	if err != nil {
		return nil, err
	}
	return o.locator.Locate(buf)
}

// Recognize runs one full attempt: decode, detect, then score tier by tier
// until a backend accepts, the tiers are exhausted, or the attempt fails.
func (o *Orchestrator) Recognize(ctx context.Context, raw []byte) Outcome {
	outcome := Outcome{AttemptID: uuid.NewString()}

	buf, err := o.loader.Load(raw)
	if err != nil {
		// Decode failures are unrecoverable for this attempt: retrying
		// needs a new capture, not an internal retry
		return o.failed(outcome, err)
	}

	regions, err := o.locator.Locate(buf)
	if err != nil {
		return o.failed(outcome, err)
	}
	outcome.FaceCount = len(regions)
	if len(regions) == 0 {
		return o.failed(outcome, ErrNoFaceDetected)
	}
	if len(regions) > 1 {
		if o.StrictSingleFace {
			return o.failed(outcome, ErrAmbiguousFaceCount)
		}
		log.Printf("Recognize %s: %d faces found, using largest", outcome.AttemptID, len(regions))
	}
	region := LargestRegion(regions)

	unavailable := 0
	for tier, backend := range o.backends {
		if err := ctx.Err(); err != nil {
			return o.failed(outcome, err)
		}
		desc := backend.Descriptor()
		if err := backend.Available(); err != nil {
			log.Printf("Recognize %s: tier %d (%s) unavailable: %v", outcome.AttemptID, tier, desc.Tag, err)
			unavailable++
			continue
		}
		templates, err := o.repo.FetchTemplates(ctx, desc.Tag)
		if err != nil {
			log.Printf("Recognize %s: tier %d (%s) template fetch: %v", outcome.AttemptID, tier, desc.Tag, err)
			unavailable++
			continue
		}
		if len(templates) == 0 {
			log.Printf("Recognize %s: tier %d (%s) inapplicable, no templates", outcome.AttemptID, tier, desc.Tag)
			outcome.Results = append(outcome.Results, MatchResult{BackendTag: desc.Tag, Decision: DecisionInapplicable})
			continue
		}
		probe, err := backend.Embed(buf, region)
		if err != nil {
			// A tier that cannot embed (weights gone, model rejects the
			// crop) never aborts the whole attempt
			log.Printf("Recognize %s: tier %d (%s) embed: %v", outcome.AttemptID, tier, desc.Tag, err)
			if errors.Is(err, ErrModelLoad) || errors.Is(err, ErrBackendUnavailable) {
				unavailable++
			}
			continue
		}

		result := o.engine.Decide(probe, templates, desc)
		outcome.Results = append(outcome.Results, result)
		log.Printf("Recognize %s: tier %d (%s) %s, user %d, distance %.4f, confidence %.2f",
			outcome.AttemptID, tier, desc.Tag, result.Decision, result.BestUserID, result.Distance, result.Confidence)

		switch result.Decision {
		case DecisionAccepted:
			outcome.State = StateAccepted
			outcome.UserID = result.BestUserID
			outcome.Confidence = result.Confidence
			outcome.BackendTag = desc.Tag
			return outcome
		case DecisionRejected:
			// A higher tier's rejection doesn't forbid a lower tier's
			// acceptance; keep going
			if outcome.BestRejection == nil || result.Distance < outcome.BestRejection.Distance {
				r := result
				outcome.BestRejection = &r
			}
		}
	}

	if unavailable == len(o.backends) {
		return o.failed(outcome, ErrAllBackendsUnavailable)
	}
	outcome.State = StateExhausted
	return outcome
}

func (o *Orchestrator) failed(outcome Outcome, err error) Outcome {
	outcome.State = StateFailed
	outcome.Err = err
	log.Printf("Recognize %s: failed: %v", outcome.AttemptID, err)
	return outcome
}
