package recognition

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"testing"
)

func TestImageLoaderLoad(t *testing.T) {
	pngBytes := testImagePNG(64, 48)
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	tests := []struct {
		name    string
		raw     []byte
		wantErr error
		wantW   int
	}{
		{"png upload", pngBytes, nil, 64},
		{"data uri canvas export", []byte(dataURI), nil, 64},
		{"bare base64", []byte(base64.StdEncoding.EncodeToString(pngBytes)), nil, 64},
		{"empty", []byte{}, ErrEmptyImage, 0},
		{"whitespace only", []byte("  \n\t "), ErrEmptyImage, 0},
		{"garbage", []byte("definitely-not-an-image!!"), ErrImageDecode, 0},
		{"truncated png", pngBytes[:20], ErrImageDecode, 0},
	}
	loader := NewImageLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := loader.Load(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.Width() != tt.wantW {
				t.Errorf("width = %d, want %d", buf.Width(), tt.wantW)
			}
			if buf.Gray == nil {
				t.Error("grayscale plane not built")
			}
		})
	}
}

func TestImageLoaderRewindsStream(t *testing.T) {
	pngBytes := testImagePNG(32, 32)
	reader := bytes.NewReader(pngBytes)
	// Simulate an upstream consumer leaving the cursor mid-stream
	if _, err := reader.Seek(10, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	buf, err := NewImageLoader().LoadReader(reader)
	if err != nil {
		t.Fatalf("LoadReader after partial consume: %v", err)
	}
	if buf.Width() != 32 {
		t.Errorf("width = %d, want 32", buf.Width())
	}
}

func TestImageLoaderNoCaching(t *testing.T) {
	loader := NewImageLoader()
	pngBytes := testImagePNG(16, 16)
	a, err := loader.Load(pngBytes)
	if err != nil {
		t.Fatal(err)
	}
	b, err := loader.Load(pngBytes)
	if err != nil {
		t.Fatal(err)
	}
	if a == b || a.Gray == b.Gray {
		t.Error("loader returned a cached buffer")
	}
}
