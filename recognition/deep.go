package recognition

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"path/filepath"
	"sync"

	"courseware/utils"

	"github.com/Kagami/go-face"
)

const TagDeep = "dlib-resnet-v1"

// Weight files go-face needs inside the models dir
var deepModelFiles = []string{
	"shape_predictor_5_face_landmarks.dat",
	"dlib_face_recognition_resnet_model_v1.dat",
	"mmod_human_face_detector.dat",
}

// DeepBackend produces 128-d descriptors with the dlib ResNet model.
// The recognizer is loaded lazily on first use and cached for the process
// lifetime; concurrent first use is serialized so the load happens once.
// Inference calls are serialized too - the dlib binding is not reentrant.
type DeepBackend struct {
	modelsDir string
	threshold float64

	loadOnce sync.Once
	loadErr  error
	rec      *face.Recognizer

	mu     sync.Mutex
	labels []uint64 // classifier category index -> user id
}

func NewDeepBackend(modelsDir string, threshold float64) *DeepBackend {
	return &DeepBackend{modelsDir: modelsDir, threshold: threshold}
}

func (b *DeepBackend) Descriptor() Descriptor {
	return Descriptor{
		Tag:       TagDeep,
		Rank:      0,
		Dims:      128,
		Metric:    MetricEuclidean,
		Threshold: b.threshold,
	}
}

// Available checks the weight files without paying the load cost
func (b *DeepBackend) Available() error {
	for _, name := range deepModelFiles {
		if _, err := os.Stat(filepath.Join(b.modelsDir, name)); err != nil {
			return fmt.Errorf("%w: %s missing in %s", ErrModelLoad, name, b.modelsDir)
		}
	}
	return nil
}

func (b *DeepBackend) load() error {
	b.loadOnce.Do(func() {
		rec, err := face.NewRecognizer(b.modelsDir)
		if err != nil {
			b.loadErr = fmt.Errorf("%w: %s", ErrModelLoad, err.Error())
			return
		}
		log.Printf("Deep backend: dlib models loaded from %s", b.modelsDir)
		b.rec = rec
	})
	return b.loadErr
}

func (b *DeepBackend) Embed(buf *PixelBuffer, region image.Rectangle) ([]float32, error) {
	if err := b.load(); err != nil {
		return nil, err
	}
	// dlib re-detects within the crop, so give it some margin around the
	// locator's tight rectangle
	crop := expandRegion(region, buf.Img.Bounds(), 0.25)
	if crop.Empty() {
		return nil, fmt.Errorf("%w: empty face region", ErrNoFaceDetected)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(rgba, rgba.Bounds(), buf.Img, crop.Min, draw.Src)
	jpegBytes, err := utils.EncodeJPEG(rgba)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	found, err := b.rec.RecognizeSingle(jpegBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, err.Error())
	}
	if found == nil {
		// More than one (or zero) faces inside the crop: take the largest
		all, err := b.rec.Recognize(jpegBytes)
		if err != nil || len(all) == 0 {
			return nil, fmt.Errorf("%w in deep crop", ErrNoFaceDetected)
		}
		best := 0
		for i, f := range all {
			if f.Rectangle.Dx()*f.Rectangle.Dy() > all[best].Rectangle.Dx()*all[best].Rectangle.Dy() {
				best = i
			}
		}
		found = &all[best]
	}

	// The classifier label is identity narrowing only: the distance over
	// stored templates stays authoritative, but both are logged because
	// they can diverge
	if len(b.labels) > 0 {
		cat := b.rec.ClassifyThreshold(found.Descriptor, float32(b.threshold))
		if cat >= 0 && cat < len(b.labels) {
			log.Printf("Deep backend: classifier narrows to user %d", b.labels[cat])
		} else {
			log.Printf("Deep backend: classifier found no identity within threshold")
		}
	}

	vec := make([]float32, len(found.Descriptor))
	copy(vec, found.Descriptor[:])
	return vec, nil
}

// SetSamples feeds the enrolled templates to the dlib classifier used for
// identity narrowing. Called by the background template sync whenever
// enrollments change.
func (b *DeepBackend) SetSamples(userIDs []uint64, vectors [][]float32) error {
	if err := b.load(); err != nil {
		return err
	}
	samples := make([]face.Descriptor, 0, len(vectors))
	cats := make([]int32, 0, len(vectors))
	labels := make([]uint64, 0, len(vectors))
	for i, vec := range vectors {
		if len(vec) != 128 {
			continue
		}
		var d face.Descriptor
		copy(d[:], vec)
		samples = append(samples, d)
		cats = append(cats, int32(len(labels)))
		labels = append(labels, userIDs[i])
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rec.SetSamples(samples, cats)
	b.labels = labels
	return nil
}

// Close releases the dlib resources. Part of the shutdown path only; a
// request timeout never tears down the cached model.
func (b *DeepBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rec != nil {
		b.rec.Close()
		b.rec = nil
	}
}
