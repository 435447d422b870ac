package recognition

import (
	"fmt"
	"image"
	"os"
	"sort"

	pigo "github.com/esimov/pigo/core"
)

// FaceLocator finds face regions in a decoded image. Zero regions is not an
// error here; callers decide what an empty result means. Implementations are
// stateless between calls and deterministic for a given buffer.
type FaceLocator interface {
	Locate(buf *PixelBuffer) ([]image.Rectangle, error)
}

// PigoLocator detects faces with a pure-Go pixel intensity cascade. It has
// no native dependencies or weight downloads, so it is always available and
// serves every backend, including the non-neural ones.
type PigoLocator struct {
	classifier *pigo.Pigo
	minSize    int
	quality    float32
}

func NewPigoLocator(cascadeFile string, minSize int) (*PigoLocator, error) {
	cascade, err := os.ReadFile(cascadeFile)
	if err != nil {
		return nil, fmt.Errorf("read cascade %s: %w", cascadeFile, err)
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade %s: %w", cascadeFile, err)
	}
	if minSize <= 0 {
		minSize = 40
	}
	return &PigoLocator{
		classifier: classifier,
		minSize:    minSize,
		quality:    5.0,
	}, nil
}

func (l *PigoLocator) Locate(buf *PixelBuffer) ([]image.Rectangle, error) {
	rows, cols := buf.Height(), buf.Width()
	if rows == 0 || cols == 0 {
		return nil, nil
	}
	maxSize := cols
	if rows < cols {
		maxSize = rows
	}
	params := pigo.CascadeParams{
		MinSize:     l.minSize,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: buf.Gray.Pix,
			Rows:   rows,
			Cols:   cols,
			Dim:    buf.Gray.Stride,
		},
	}
	dets := l.classifier.RunCascade(params, 0.0)
	dets = l.classifier.ClusterDetections(dets, 0.2)

	regions := make([]image.Rectangle, 0, len(dets))
	for _, det := range dets {
		if det.Q < l.quality {
			continue
		}
		x := det.Col - det.Scale/2
		y := det.Row - det.Scale/2
		regions = append(regions, image.Rect(x, y, x+det.Scale, y+det.Scale).Intersect(buf.Img.Bounds()))
	}
	// Stable order: largest first, then top-left first
	sort.Slice(regions, func(i, j int) bool {
		ai := regions[i].Dx() * regions[i].Dy()
		aj := regions[j].Dx() * regions[j].Dy()
		if ai != aj {
			return ai > aj
		}
		if regions[i].Min.Y != regions[j].Min.Y {
			return regions[i].Min.Y < regions[j].Min.Y
		}
		return regions[i].Min.X < regions[j].Min.X
	})
	return regions, nil
}

// LargestRegion implements the probe face-selection policy: the biggest
// detected area wins
func LargestRegion(regions []image.Rectangle) image.Rectangle {
	best := image.Rectangle{}
	bestArea := -1
	for _, r := range regions {
		area := r.Dx() * r.Dy()
		if area > bestArea {
			best = r
			bestArea = area
		}
	}
	return best
}
