package histogram

import (
	"math"
	"testing"

	"tumorarea/internal/models"
)

func TestOfAndNonzero(t *testing.T) {
	img := models.NewGrayscaleImage(3, 2)
	copy(img.Pix, []uint8{0, 0, 10, 10, 10, 255})

	h := Of(img)
	if h[0] != 2 || h[10] != 3 || h[255] != 1 {
		t.Errorf("Unexpected histogram bins: h[0]=%d h[10]=%d h[255]=%d", h[0], h[10], h[255])
	}
	if h.Total() != 6 {
		t.Errorf("Expected total 6, got %d", h.Total())
	}

	nz := Nonzero(img)
	if nz[0] != 0 {
		t.Errorf("Expected zero bin to be dropped, got %d", nz[0])
	}
	if nz.Total() != 4 {
		t.Errorf("Expected 4 nonzero pixels, got %d", nz.Total())
	}
}

func TestUnder(t *testing.T) {
	img := models.NewGrayscaleImage(2, 2)
	copy(img.Pix, []uint8{5, 6, 7, 8})
	mask := models.NewBinaryImage(2, 2)
	mask.SetForeground(1, 0)
	mask.SetForeground(1, 1)

	h := Under(img, mask)
	if h.Total() != 2 || h[6] != 1 || h[8] != 1 {
		t.Errorf("Expected bins 6 and 8 only, got total %d", h.Total())
	}
}

func TestSummarize(t *testing.T) {
	var h Histogram
	h[100] = 2
	h[200] = 2

	s := h.Summarize()
	if s.Count != 4 {
		t.Errorf("Expected count 4, got %d", s.Count)
	}
	if s.Min != 100 || s.Max != 200 {
		t.Errorf("Expected range [100,200], got [%d,%d]", s.Min, s.Max)
	}
	if math.Abs(s.Mean-150) > 1e-9 {
		t.Errorf("Expected mean 150, got %f", s.Mean)
	}
	if s.StdDev <= 0 {
		t.Errorf("Expected positive standard deviation, got %f", s.StdDev)
	}
	if s.Median < 100 || s.Median > 200 {
		t.Errorf("Expected median inside the population range, got %f", s.Median)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	var h Histogram
	s := h.Summarize()
	if s != (Summary{}) {
		t.Errorf("Expected zero summary, got %+v", s)
	}
}
