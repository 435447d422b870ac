package recognition

import (
	"context"
	"errors"
	"image"
	"testing"
)

func newEnrollFixture() (*EnrollmentManager, *Orchestrator, *memRepo) {
	repo := newMemRepo()
	loader := NewImageLoader()
	locator := faceLocator()
	classic := NewClassicalBackend(0.6)
	moments := NewGeometricBackend(0.85)
	enroller := NewEnrollmentManager(loader, locator, repo, classic, moments)
	orchestrator := NewOrchestrator(loader, locator, repo, classic, moments)
	return enroller, orchestrator, repo
}

func TestEnrollRecognizeRoundTrip(t *testing.T) {
	enroller, orchestrator, _ := newEnrollFixture()
	img := probeImage()

	template, err := enroller.Enroll(context.Background(), 42, img, TagClassic)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if template.UserID != 42 || template.BackendTag != TagClassic {
		t.Fatalf("template = %+v", template)
	}

	// Recognizing the identical capture must come back as the same user
	// with maximal confidence
	outcome := orchestrator.Recognize(context.Background(), img)
	if outcome.State != StateAccepted {
		t.Fatalf("state = %v (err %v), want accepted", outcome.State, outcome.Err)
	}
	if outcome.UserID != 42 || outcome.BackendTag != TagClassic {
		t.Errorf("user %d via %s, want 42 via %s", outcome.UserID, outcome.BackendTag, TagClassic)
	}
	if outcome.Confidence != 1 {
		t.Errorf("confidence = %v, want 1 (distance zero)", outcome.Confidence)
	}
}

func TestReEnrollmentOverwrites(t *testing.T) {
	enroller, _, repo := newEnrollFixture()
	ctx := context.Background()

	if _, err := enroller.Enroll(ctx, 8, probeImage(), TagClassic); err != nil {
		t.Fatal(err)
	}
	first, _ := repo.FetchTemplates(ctx, TagClassic)

	// Re-enroll with a different capture
	if _, err := enroller.Enroll(ctx, 8, testImagePNG(120, 96), TagClassic); err != nil {
		t.Fatal(err)
	}
	second, _ := repo.FetchTemplates(ctx, TagClassic)
	if len(second) != 1 {
		t.Fatalf("active templates for (8, %s) = %d, want 1", TagClassic, len(second))
	}
	same := len(first[0].Vector) == len(second[0].Vector)
	if same {
		for i := range first[0].Vector {
			if first[0].Vector[i] != second[0].Vector[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("re-enrollment did not replace the stored vector")
	}
}

func TestEnrollDoesNotTouchOtherTags(t *testing.T) {
	enroller, _, repo := newEnrollFixture()
	ctx := context.Background()
	if _, err := enroller.Enroll(ctx, 8, probeImage(), TagClassic); err != nil {
		t.Fatal(err)
	}
	if _, err := enroller.Enroll(ctx, 8, probeImage(), TagMoments); err != nil {
		t.Fatal(err)
	}
	all, _ := repo.FetchTemplates(ctx, "")
	if len(all) != 2 {
		t.Fatalf("templates across tags = %d, want 2", len(all))
	}
}

func TestEnrollErrors(t *testing.T) {
	enroller, _, _ := newEnrollFixture()
	ctx := context.Background()
	tests := []struct {
		name    string
		raw     []byte
		tag     string
		locator FaceLocator
		wantErr error
	}{
		{"unknown backend", probeImage(), "nope-v9", faceLocator(), ErrBackendUnavailable},
		{"empty image", []byte{}, TagClassic, faceLocator(), ErrEmptyImage},
		{"garbage image", []byte("not an image"), TagClassic, faceLocator(), ErrImageDecode},
		{"no face", probeImage(), TagClassic, &fixedLocator{}, ErrNoFaceDetected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enroller.locator = tt.locator
			_, err := enroller.Enroll(ctx, 1, tt.raw, tt.tag)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnrollStrictSingleFace(t *testing.T) {
	enroller, _, _ := newEnrollFixture()
	enroller.locator = &fixedLocator{regions: []image.Rectangle{
		image.Rect(0, 0, 30, 30),
		image.Rect(40, 40, 90, 90),
	}}
	enroller.StrictSingleFace = true
	if _, err := enroller.Enroll(context.Background(), 1, probeImage(), TagClassic); !errors.Is(err, ErrAmbiguousFaceCount) {
		t.Fatalf("err = %v, want ErrAmbiguousFaceCount", err)
	}
}
