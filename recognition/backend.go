package recognition

import (
	"image"
	"math"
)

type Metric string

const (
	MetricEuclidean Metric = "euclidean"
	MetricCosine    Metric = "cosine"
)

// Distance computes the metric between two equal-length vectors.
// Cosine is expressed as a distance (0 = identical direction) so that
// "lower is better" holds for every metric.
func (m Metric) Distance(a, b []float32) float64 {
	switch m {
	case MetricCosine:
		var dot, normA, normB float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
			normA += float64(a[i]) * float64(a[i])
			normB += float64(b[i]) * float64(b[i])
		}
		if normA == 0 || normB == 0 {
			return 1
		}
		d := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
		if d < 0 {
			// float noise on identical vectors
			return 0
		}
		return d
	default:
		var sum float64
		for i := range a {
			diff := float64(a[i]) - float64(b[i])
			sum += diff * diff
		}
		return math.Sqrt(sum)
	}
}

// Descriptor is the static metadata of one backend. Immutable after startup;
// a template produced under one tag is never scored with another tag's
// metric or threshold.
type Descriptor struct {
	Tag       string
	Rank      int // lower = tried first
	Dims      int
	Metric    Metric
	Threshold float64 // inclusive accept boundary
}

// Confidence maps a distance to [0,1], monotonically decreasing and maximal
// at distance zero. Mirrors the 1-dist/threshold mapping the dlib tooling
// ships with.
func (d Descriptor) Confidence(distance float64) float64 {
	if d.Threshold <= 0 {
		return 0
	}
	c := 1 - distance/d.Threshold
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// EmbeddingBackend turns a located face region into a fixed-format vector.
// Implementations declare their own distance semantics via Descriptor and
// must be swappable behind this interface.
type EmbeddingBackend interface {
	Descriptor() Descriptor
	// Available reports whether the backend can run right now (weights
	// present, models loadable). A nil error means it can.
	Available() error
	Embed(buf *PixelBuffer, region image.Rectangle) ([]float32, error)
}

// expandRegion grows a face rectangle by the given fraction on every side,
// clipped to the image bounds. Embedding models want some context around
// the detector's tight crop.
func expandRegion(region image.Rectangle, bounds image.Rectangle, fraction float64) image.Rectangle {
	dx := int(float64(region.Dx()) * fraction)
	dy := int(float64(region.Dy()) * fraction)
	return image.Rect(region.Min.X-dx, region.Min.Y-dy, region.Max.X+dx, region.Max.Y+dy).Intersect(bounds)
}
