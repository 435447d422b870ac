package recognition

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strings"
)

// PixelBuffer is a decoded image plus its grayscale plane. The grayscale
// plane is what the locator and the non-neural backends operate on.
type PixelBuffer struct {
	Img  image.Image
	Gray *image.Gray
}

func (p *PixelBuffer) Width() int {
	return p.Img.Bounds().Dx()
}

func (p *PixelBuffer) Height() int {
	return p.Img.Bounds().Dy()
}

func newPixelBuffer(img image.Image) *PixelBuffer {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Luminosity method, same weights the pigo examples use
			gray.SetGray(x, y, color.Gray{Y: uint8((r*299 + g*587 + b*114) / 1000 >> 8)})
		}
	}
	return &PixelBuffer{Img: img, Gray: gray}
}

type decodeStrategy struct {
	name   string
	decode func(raw []byte) (image.Image, error)
}

// ImageLoader turns raw bytes into a PixelBuffer. Different capture paths
// (uploaded file, camera frame, browser canvas export) produce payloads that
// a single decoder alone may reject, so strategies are tried in order and
// their errors aggregated.
type ImageLoader struct {
	strategies []decodeStrategy
}

func NewImageLoader() *ImageLoader {
	return &ImageLoader{
		strategies: []decodeStrategy{
			{"standard", decodeStandard},
			{"base64", decodeBase64},
			{"jpeg", decodeJPEG},
		},
	}
}

// Load decodes raw bytes into a PixelBuffer. It is a pure transformation:
// nothing is cached across calls.
func (l *ImageLoader) Load(raw []byte) (*PixelBuffer, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyImage
	}
	var failures []string
	for _, s := range l.strategies {
		img, err := s.decode(raw)
		if err == nil {
			return newPixelBuffer(img), nil
		}
		failures = append(failures, s.name+": "+err.Error())
	}
	return nil, fmt.Errorf("%w (%s)", ErrImageDecode, strings.Join(failures, "; "))
}

// LoadReader reads and decodes a stream, rewinding seekable sources first
// since upstream code may have partially consumed them.
func (l *ImageLoader) LoadReader(r io.Reader) (*PixelBuffer, error) {
	raw, err := ReadPayload(r)
	if err != nil {
		return nil, err
	}
	return l.Load(raw)
}

// ReadPayload drains a capture stream, rewinding seekable sources first
func ReadPayload(r io.Reader) ([]byte, error) {
	if seeker, ok := r.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w (rewind: %s)", ErrImageDecode, err.Error())
		}
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w (read: %s)", ErrImageDecode, err.Error())
	}
	return raw, nil
}

func decodeStandard(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

// decodeBase64 handles browser canvas exports: a "data:image/...;base64,"
// URI or a bare base64 text payload
func decodeBase64(raw []byte) (image.Image, error) {
	text := strings.TrimSpace(string(raw))
	if idx := strings.IndexByte(text, ','); strings.HasPrefix(text, "data:") && idx >= 0 {
		text = text[idx+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, err
	}
	if len(decoded) == 0 {
		return nil, ErrEmptyImage
	}
	img, _, err := image.Decode(bytes.NewReader(decoded))
	return img, err
}

func decodeJPEG(raw []byte) (image.Image, error) {
	return jpeg.Decode(bytes.NewReader(raw))
}
