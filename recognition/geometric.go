package recognition

import (
	"fmt"
	"image"
	"math"
)

const TagMoments = "moments-v1"

// GeometricBackend reduces the face crop to distances between simple image
// moments. Coarse and cheap; present only as the final fallback tier with
// the least trusted threshold.
type GeometricBackend struct {
	threshold float64
}

func NewGeometricBackend(threshold float64) *GeometricBackend {
	return &GeometricBackend{threshold: threshold}
}

func (b *GeometricBackend) Descriptor() Descriptor {
	return Descriptor{
		Tag:       TagMoments,
		Rank:      2,
		Dims:      10,
		Metric:    MetricEuclidean,
		Threshold: b.threshold,
	}
}

func (b *GeometricBackend) Available() error {
	return nil
}

func (b *GeometricBackend) Embed(buf *PixelBuffer, region image.Rectangle) ([]float32, error) {
	crop := region.Intersect(buf.Gray.Bounds())
	if crop.Empty() {
		return nil, fmt.Errorf("%w: empty face region", ErrNoFaceDetected)
	}
	normalized := resizeGray(buf.Gray.SubImage(crop), classicFaceSize)

	// Raw moments over the normalized crop
	var m00, m10, m01 float64
	for y := 0; y < classicFaceSize; y++ {
		for x := 0; x < classicFaceSize; x++ {
			v := float64(normalized.Pix[y*normalized.Stride+x])
			m00 += v
			m10 += float64(x) * v
			m01 += float64(y) * v
		}
	}
	if m00 == 0 {
		return nil, fmt.Errorf("%w: blank face region", ErrNoFaceDetected)
	}
	cx, cy := m10/m00, m01/m00

	// Central moments up to order 3, normalized for scale invariance
	mu := map[[2]int]float64{}
	for _, pq := range [][2]int{{2, 0}, {1, 1}, {0, 2}, {3, 0}, {2, 1}, {1, 2}, {0, 3}} {
		var sum float64
		for y := 0; y < classicFaceSize; y++ {
			for x := 0; x < classicFaceSize; x++ {
				v := float64(normalized.Pix[y*normalized.Stride+x])
				sum += math.Pow(float64(x)-cx, float64(pq[0])) * math.Pow(float64(y)-cy, float64(pq[1])) * v
			}
		}
		order := float64(pq[0]+pq[1])/2 + 1
		mu[pq] = sum / math.Pow(m00, order)
	}

	var mean, variance float64
	total := float64(classicFaceSize * classicFaceSize)
	mean = m00 / total
	for y := 0; y < classicFaceSize; y++ {
		for x := 0; x < classicFaceSize; x++ {
			d := float64(normalized.Pix[y*normalized.Stride+x]) - mean
			variance += d * d
		}
	}
	variance /= total

	aspect := float64(crop.Dx()) / float64(crop.Dy())
	if aspect > 4 {
		aspect = 4
	}

	return []float32{
		float32(mu[[2]int{2, 0}]),
		float32(mu[[2]int{1, 1}]),
		float32(mu[[2]int{0, 2}]),
		float32(mu[[2]int{3, 0}]),
		float32(mu[[2]int{2, 1}]),
		float32(mu[[2]int{1, 2}]),
		float32(mu[[2]int{0, 3}]),
		float32(mean / 255),
		float32(math.Sqrt(variance) / 255),
		float32(aspect / 4),
	}, nil
}
