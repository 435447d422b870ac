package recognition

import (
	"context"
	"image"
	"testing"
)

func loadTestBuffer(t *testing.T, w, h int) *PixelBuffer {
	t.Helper()
	buf, err := NewImageLoader().Load(testImagePNG(w, h))
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestClassicalBackendEmbed(t *testing.T) {
	backend := NewClassicalBackend(0.6)
	buf := loadTestBuffer(t, 96, 96)
	region := image.Rect(10, 10, 80, 80)

	vec, err := backend.Embed(buf, region)
	if err != nil {
		t.Fatal(err)
	}
	desc := backend.Descriptor()
	if len(vec) != desc.Dims {
		t.Fatalf("dims = %d, want %d", len(vec), desc.Dims)
	}
	// Deterministic: the same buffer and region produce the same vector
	again, err := backend.Embed(buf, region)
	if err != nil {
		t.Fatal(err)
	}
	for i := range vec {
		if vec[i] != again[i] {
			t.Fatalf("embed not deterministic at %d", i)
		}
	}
	if d := desc.Metric.Distance(vec, again); d != 0 {
		t.Errorf("self distance = %v, want 0", d)
	}
	// Unit length after normalization
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm < 0.999 || norm > 1.001 {
		t.Errorf("squared norm = %v, want 1", norm)
	}
}

func TestClassicalBackendDistinguishesCrops(t *testing.T) {
	backend := NewClassicalBackend(0.6)
	buf := loadTestBuffer(t, 128, 128)
	a, err := backend.Embed(buf, image.Rect(0, 0, 60, 60))
	if err != nil {
		t.Fatal(err)
	}
	b, err := backend.Embed(buf, image.Rect(60, 60, 128, 128))
	if err != nil {
		t.Fatal(err)
	}
	if backend.Descriptor().Metric.Distance(a, b) == 0 {
		t.Error("different crops produced identical descriptors")
	}
}

func TestGeometricBackendEmbed(t *testing.T) {
	backend := NewGeometricBackend(0.85)
	buf := loadTestBuffer(t, 96, 72)
	vec, err := backend.Embed(buf, image.Rect(5, 5, 90, 65))
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != backend.Descriptor().Dims {
		t.Fatalf("dims = %d, want %d", len(vec), backend.Descriptor().Dims)
	}
	if d := backend.Descriptor().Metric.Distance(vec, vec); d != 0 {
		t.Errorf("self distance = %v, want 0", d)
	}
}

func TestBackendsRejectEmptyRegion(t *testing.T) {
	buf := loadTestBuffer(t, 32, 32)
	outside := image.Rect(100, 100, 120, 120)
	backends := []EmbeddingBackend{
		NewClassicalBackend(0.6),
		NewGeometricBackend(0.85),
	}
	for _, b := range backends {
		if _, err := b.Embed(buf, outside); err == nil {
			t.Errorf("%s accepted a region outside the image", b.Descriptor().Tag)
		}
	}
}

func TestDeepBackendUnavailableWithoutWeights(t *testing.T) {
	backend := NewDeepBackend(t.TempDir(), 0.6)
	if err := backend.Available(); err == nil {
		t.Fatal("deep backend reported available with no weight files")
	}
	// And the orchestrator must fall through to the always-available tiers
	repo := newMemRepo()
	_ = repo.UpsertTemplate(context.Background(), Template{UserID: 1, BackendTag: TagClassic, Vector: make([]float32, classicGrid*classicGrid*classicBins)})
	o := NewOrchestrator(NewImageLoader(), faceLocator(), repo, backend, NewClassicalBackend(0.6))
	outcome := o.Recognize(context.Background(), probeImage())
	if outcome.State == StateFailed {
		t.Fatalf("attempt failed instead of skipping the deep tier: %v", outcome.Err)
	}
}
