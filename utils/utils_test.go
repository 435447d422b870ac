package utils

import (
	"testing"
)

func TestFloat32ArrayRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		fa   []float32
	}{
		{"empty", []float32{}},
		{"single", []float32{0.5}},
		{"descriptor-like", []float32{0.1, -0.2, 0.3, 1e-7, -1e7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByteArrayToFloat32Array(Float32ArrayToByteArray(tt.fa))
			if len(got) != len(tt.fa) {
				t.Fatalf("length = %d, want %d", len(got), len(tt.fa))
			}
			for i := range tt.fa {
				if got[i] != tt.fa[i] {
					t.Errorf("value %d = %v, want %v", i, got[i], tt.fa[i])
				}
			}
		})
	}
}

func TestByteArrayToFloat32ArrayTruncated(t *testing.T) {
	// Trailing bytes that don't make a full float are ignored
	b := Float32ArrayToByteArray([]float32{1, 2})
	got := ByteArrayToFloat32Array(b[:len(b)-2])
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("got %v, want [1]", got)
	}
}
