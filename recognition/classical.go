package recognition

import (
	"fmt"
	"image"
	"math"

	"github.com/nfnt/resize"
)

const TagClassic = "hist-grid-v1"

const (
	classicFaceSize = 128 // normalized crop edge
	classicGrid     = 8   // cells per edge
	classicBins     = 16  // histogram bins per cell
)

// ClassicalBackend builds a statistical descriptor from the grayscale face
// crop: a grid of local intensity histograms, L2-normalized. No weight
// files, no native code - this is the guaranteed-available tier.
type ClassicalBackend struct {
	threshold float64
}

func NewClassicalBackend(threshold float64) *ClassicalBackend {
	return &ClassicalBackend{threshold: threshold}
}

func (b *ClassicalBackend) Descriptor() Descriptor {
	return Descriptor{
		Tag:       TagClassic,
		Rank:      1,
		Dims:      classicGrid * classicGrid * classicBins,
		Metric:    MetricCosine,
		Threshold: b.threshold,
	}
}

func (b *ClassicalBackend) Available() error {
	return nil
}

func (b *ClassicalBackend) Embed(buf *PixelBuffer, region image.Rectangle) ([]float32, error) {
	crop := region.Intersect(buf.Gray.Bounds())
	if crop.Empty() {
		return nil, fmt.Errorf("%w: empty face region", ErrNoFaceDetected)
	}
	normalized := resizeGray(buf.Gray.SubImage(crop), classicFaceSize)

	cell := classicFaceSize / classicGrid
	vec := make([]float32, classicGrid*classicGrid*classicBins)
	for gy := 0; gy < classicGrid; gy++ {
		for gx := 0; gx < classicGrid; gx++ {
			base := (gy*classicGrid + gx) * classicBins
			for y := gy * cell; y < (gy+1)*cell; y++ {
				for x := gx * cell; x < (gx+1)*cell; x++ {
					bin := int(normalized.GrayAt(x, y).Y) * classicBins / 256
					vec[base+bin]++
				}
			}
		}
	}
	normalizeL2(vec)
	return vec, nil
}

// resizeGray scales an image to a square grayscale plane of the given edge
func resizeGray(img image.Image, edge int) *image.Gray {
	scaled := resize.Resize(uint(edge), uint(edge), img, resize.Bilinear)
	out := image.NewGray(image.Rect(0, 0, edge, edge))
	bounds := scaled.Bounds()
	for y := 0; y < edge; y++ {
		for x := 0; x < edge; x++ {
			r, g, bl, _ := scaled.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Pix[y*out.Stride+x] = uint8((r*299 + g*587 + bl*114) / 1000 >> 8)
		}
	}
	return out
}

func normalizeL2(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
