// Package histogram builds 256-bin intensity histograms and summarises the
// intensity population they describe.
package histogram

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"tumorarea/internal/models"
)

// Levels is the number of intensity levels of an 8-bit image.
const Levels = 256

// Histogram counts pixels per intensity level.
type Histogram [Levels]int

// Of builds the histogram of every pixel in img.
func Of(img *models.GrayscaleImage) Histogram {
	var h Histogram
	for _, v := range img.Pix {
		h[v]++
	}
	return h
}

// Nonzero builds the histogram of the masked-in population: pixels with
// intensity 0 are skipped.
func Nonzero(img *models.GrayscaleImage) Histogram {
	h := Of(img)
	h[0] = 0
	return h
}

// Under builds the histogram of the pixels of img lying under mask's
// foreground.
func Under(img *models.GrayscaleImage, mask *models.BinaryImage) Histogram {
	var h Histogram
	for i, m := range mask.Pix {
		if m == models.Foreground {
			h[img.Pix[i]]++
		}
	}
	return h
}

// Total returns the number of pixels counted.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Summary describes an intensity population.
type Summary struct {
	Count  int     `yaml:"count"`
	Min    int     `yaml:"min"`
	Max    int     `yaml:"max"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stdDev"`
	Median float64 `yaml:"median"`
}

// Summarize computes weighted statistics of the population. An empty
// histogram yields a zero Summary.
func (h *Histogram) Summarize() Summary {
	total := h.Total()
	if total == 0 {
		return Summary{}
	}

	// levels are already sorted, as stat.Quantile requires
	levels := make([]float64, Levels)
	weights := make([]float64, Levels)
	s := Summary{Count: total, Min: -1}
	for i, c := range h {
		levels[i] = float64(i)
		weights[i] = float64(c)
		if c > 0 {
			if s.Min < 0 {
				s.Min = i
			}
			s.Max = i
		}
	}

	s.Mean, s.StdDev = stat.MeanStdDev(levels, weights)
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, levels, weights)
	return s
}
