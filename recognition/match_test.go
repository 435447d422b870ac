package recognition

import (
	"math"
	"testing"
)

var testDesc = Descriptor{
	Tag:       "test-v1",
	Rank:      0,
	Dims:      2,
	Metric:    MetricEuclidean,
	Threshold: 0.5,
}

func TestScoreFiltersIncompatibleTemplates(t *testing.T) {
	engine := MatchEngine{}
	probe := []float32{0, 0}
	templates := []Template{
		{UserID: 1, BackendTag: "test-v1", Vector: []float32{0.1, 0}},
		{UserID: 2, BackendTag: "other-v1", Vector: []float32{0, 0}},        // wrong tag
		{UserID: 3, BackendTag: "test-v1", Vector: []float32{0, 0, 0}},      // wrong dims
		{UserID: 4, BackendTag: "test-v1", Vector: []float32{0.2, 0}},
	}
	got := engine.Score(probe, templates, testDesc)
	if len(got) != 2 {
		t.Fatalf("scored %d candidates, want 2", len(got))
	}
	for _, c := range got {
		if c.UserID == 2 || c.UserID == 3 {
			t.Errorf("incompatible template of user %d was scored", c.UserID)
		}
	}
}

func TestScoreOrderingAndTieBreak(t *testing.T) {
	engine := MatchEngine{}
	probe := []float32{0, 0}
	templates := []Template{
		{UserID: 9, BackendTag: "test-v1", Vector: []float32{0.3, 0}},
		{UserID: 5, BackendTag: "test-v1", Vector: []float32{0.3, 0}}, // same distance, lower id
		{UserID: 2, BackendTag: "test-v1", Vector: []float32{0.1, 0}},
	}
	got := engine.Score(probe, templates, testDesc)
	wantOrder := []uint64{2, 5, 9}
	for i, want := range wantOrder {
		if got[i].UserID != want {
			t.Errorf("position %d = user %d, want %d", i, got[i].UserID, want)
		}
	}
}

func TestDecideThresholdBoundaryInclusive(t *testing.T) {
	engine := MatchEngine{}
	tests := []struct {
		name     string
		distance float32
		want     Decision
	}{
		{"below threshold", 0.4, DecisionAccepted},
		{"exactly at threshold", 0.5, DecisionAccepted},
		{"above threshold", 0.50001, DecisionRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templates := []Template{
				{UserID: 1, BackendTag: "test-v1", Vector: []float32{tt.distance, 0}},
			}
			got := engine.Decide([]float32{0, 0}, templates, testDesc)
			if got.Decision != tt.want {
				t.Errorf("decision = %v, want %v (distance %.5f)", got.Decision, tt.want, got.Distance)
			}
		})
	}
}

func TestDecideInapplicableWhenNoCompatible(t *testing.T) {
	engine := MatchEngine{}
	templates := []Template{
		{UserID: 1, BackendTag: "other-v1", Vector: []float32{0, 0}},
	}
	got := engine.Decide([]float32{0, 0}, templates, testDesc)
	if got.Decision != DecisionInapplicable {
		t.Errorf("decision = %v, want inapplicable", got.Decision)
	}
	if got.BestUserID != 0 {
		t.Errorf("best user = %d, want 0", got.BestUserID)
	}
}

func TestConfidenceMapping(t *testing.T) {
	desc := testDesc
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 1},
		{0.25, 0.5},
		{0.5, 0},
		{10, 0},
	}
	for _, tt := range tests {
		if got := desc.Confidence(tt.distance); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Confidence(%v) = %v, want %v", tt.distance, got, tt.want)
		}
	}
	// Monotonic over the accepting range
	prev := 2.0
	for d := 0.0; d <= 0.6; d += 0.05 {
		c := desc.Confidence(d)
		if c > prev {
			t.Fatalf("confidence not monotonic at distance %v", d)
		}
		prev = c
	}
}

func TestMetricDistance(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		a, b   []float32
		want   float64
	}{
		{"euclidean identical", MetricEuclidean, []float32{1, 2}, []float32{1, 2}, 0},
		{"euclidean unit apart", MetricEuclidean, []float32{0, 0}, []float32{0, 1}, 1},
		{"cosine identical", MetricCosine, []float32{0.6, 0.8}, []float32{0.6, 0.8}, 0},
		{"cosine orthogonal", MetricCosine, []float32{1, 0}, []float32{0, 1}, 1},
		{"cosine opposite", MetricCosine, []float32{1, 0}, []float32{-1, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.metric.Distance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("distance = %v, want %v", got, tt.want)
			}
		})
	}
}
