package capture

import (
	"image/png"
	"os"
	"testing"
)

func TestSavePNGFlipsRows(t *testing.T) {
	dir := t.TempDir()

	// 1x2 image: bottom row red, top row blue (GL order).
	pixels := []byte{
		255, 0, 0, 255, // row 0 (bottom)
		0, 0, 255, 255, // row 1 (top)
	}

	path, err := SavePNG(dir, pixels, 1, 2)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	r, _, b, _ := img.At(0, 0).RGBA()
	if r != 0 || b == 0 {
		t.Error("top image row should be the blue GL top row")
	}
	r, _, b, _ = img.At(0, 1).RGBA()
	if r == 0 || b != 0 {
		t.Error("bottom image row should be the red GL bottom row")
	}
}

func TestSavePNGSizeMismatch(t *testing.T) {
	if _, err := SavePNG(t.TempDir(), []byte{1, 2, 3}, 2, 2); err == nil {
		t.Error("expected error for short pixel buffer")
	}
}
