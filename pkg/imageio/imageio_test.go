package imageio

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestToGrayscaleFromGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 10)
	}

	out := ToGrayscale(src)
	if out.Width != 4 || out.Height != 3 {
		t.Fatalf("Expected 4x3, got %dx%d", out.Width, out.Height)
	}
	for i, v := range src.Pix {
		if out.Pix[i] != v {
			t.Errorf("Expected pixel %d = %d, got %d", i, v, out.Pix[i])
		}
	}
}

func TestToGrayscaleSubImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 6, 6))
	src.SetGray(3, 2, color.Gray{Y: 77})
	sub := src.SubImage(image.Rect(2, 2, 5, 4))

	out := ToGrayscale(sub)
	if out.Width != 3 || out.Height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", out.Width, out.Height)
	}
	if out.At(1, 0) != 77 {
		t.Errorf("Expected 77 at (1,0), got %d", out.At(1, 0))
	}
}

func TestToGrayscaleFromColor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.Set(1, 0, color.RGBA{R: 255, A: 255})

	out := ToGrayscale(src)
	if out.Pix[0] != 255 {
		t.Errorf("Expected white to map to 255, got %d", out.Pix[0])
	}
	// pure red has luma ~0.299
	if out.Pix[1] < 70 || out.Pix[1] > 80 {
		t.Errorf("Expected red to map near 76, got %d", out.Pix[1])
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := image.NewGray(image.Rect(0, 0, 8, 5))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 3)
	}

	for _, name := range []string{"slice.png", "slice.tif", "slice.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "out", name)
			if err := Save(path, src); err != nil {
				t.Fatalf("Failed to save: %v", err)
			}

			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Failed to load: %v", err)
			}
			if loaded.Width != 8 || loaded.Height != 5 {
				t.Fatalf("Expected 8x5, got %dx%d", loaded.Width, loaded.Height)
			}
			for i, v := range src.Pix {
				if loaded.Pix[i] != v {
					t.Fatalf("Expected pixel %d = %d, got %d", i, v, loaded.Pix[i])
				}
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"scan10.png", "scan2.jpg", "scan1.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	paths, err := Collect(dir)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	expected := []string{"scan1.png", "scan2.jpg", "scan10.png"}
	if len(paths) != len(expected) {
		t.Fatalf("Expected %d paths, got %v", len(expected), paths)
	}
	for i, name := range expected {
		if filepath.Base(paths[i]) != name {
			t.Errorf("Expected %s at position %d, got %s", name, i, filepath.Base(paths[i]))
		}
	}

	single, err := Collect(filepath.Join(dir, "scan2.jpg"))
	if err != nil || len(single) != 1 {
		t.Errorf("Expected a single path, got %v (%v)", single, err)
	}

	if _, err := Collect(filepath.Join(dir, "notes.txt")); err == nil {
		t.Error("Expected error for unsupported file")
	}
}
