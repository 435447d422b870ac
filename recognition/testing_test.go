package recognition

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Shared fakes and fixtures for the recognition tests

type memRepo struct {
	templates map[string]Template
	fetchErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{templates: map[string]Template{}}
}

func (r *memRepo) FetchTemplates(ctx context.Context, backendTag string) ([]Template, error) {
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	var result []Template
	for _, t := range r.templates {
		if backendTag == "" || t.BackendTag == backendTag {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *memRepo) UpsertTemplate(ctx context.Context, t Template) error {
	r.templates[fmt.Sprintf("%d|%s", t.UserID, t.BackendTag)] = t
	return nil
}

type fakeBackend struct {
	desc       Descriptor
	vec        []float32
	embedErr   error
	availErr   error
	embedCalls int
}

func (b *fakeBackend) Descriptor() Descriptor { return b.desc }
func (b *fakeBackend) Available() error       { return b.availErr }
func (b *fakeBackend) Embed(buf *PixelBuffer, region image.Rectangle) ([]float32, error) {
	b.embedCalls++
	if b.embedErr != nil {
		return nil, b.embedErr
	}
	return b.vec, nil
}

type fixedLocator struct {
	regions []image.Rectangle
}

func (l *fixedLocator) Locate(buf *PixelBuffer) ([]image.Rectangle, error) {
	return l.regions, nil
}

// testImagePNG renders a deterministic gradient with a dark blob, encoded
// as PNG bytes
func testImagePNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x*7 + y*13) % 256)
			img.Set(x, y, color.RGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	for y := h / 4; y < h/2; y++ {
		for x := w / 4; x < w/2; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 20, B: 20, A: 255})
		}
	}
	buf := bytes.Buffer{}
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
