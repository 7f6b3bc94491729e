// Package threshold turns a masked intensity image into a binary image,
// either with a user-supplied cut value or with one chosen automatically
// by maximising the between-class variance of the masked-in population.
package threshold

import (
	"fmt"
	"strings"

	"tumorarea/internal/models"
	"tumorarea/pkg/histogram"
)

// Method selects the thresholding strategy.
type Method int

const (
	Manual Method = iota
	Automatic
)

func (m Method) String() string {
	switch m {
	case Manual:
		return "manual"
	case Automatic:
		return "automatic"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts a configuration name into a Method. "otsu" is
// accepted as an alias of Automatic.
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "manual":
		return Manual, nil
	case "automatic", "auto", "otsu":
		return Automatic, nil
	}
	return Manual, fmt.Errorf("unknown threshold method %q: %w", name, models.ErrInvalidParameter)
}

// NoThreshold is reported when the automatic method had nothing to split.
const NoThreshold = -1

// ValidateValue rejects manual thresholds outside the 8-bit range.
func ValidateValue(t int) error {
	if t < 0 || t > 255 {
		return fmt.Errorf("threshold must be in [0, 255], got %d: %w", t, models.ErrInvalidParameter)
	}
	return nil
}

// Apply thresholds img with the selected method and returns the binary image
// together with the cut value actually used. For Automatic the value
// argument is ignored.
func Apply(img *models.GrayscaleImage, method Method, value int) (*models.BinaryImage, int) {
	if method != Automatic {
		return Binarize(img, value), value
	}

	hist := histogram.Nonzero(img)
	t, ok := Otsu(&hist)
	if !ok {
		return models.NewBinaryImage(img.Width, img.Height), NoThreshold
	}
	return Binarize(img, t), t
}

// Binarize marks pixels with intensity strictly greater than t as foreground.
func Binarize(img *models.GrayscaleImage, t int) *models.BinaryImage {
	out := models.NewBinaryImage(img.Width, img.Height)
	for i, v := range img.Pix {
		if int(v) > t {
			out.Pix[i] = models.Foreground
		}
	}
	return out
}

// Otsu returns the split value t in [0, 255] maximising the between-class
// variance of the histogram, where class 0 holds levels <= t. Ties resolve
// to the smallest t. ok is false when the histogram is empty.
func Otsu(h *histogram.Histogram) (t int, ok bool) {
	total := 0
	var totalSum float64
	for level, c := range h {
		total += c
		totalSum += float64(level) * float64(c)
	}
	if total == 0 {
		return 0, false
	}

	n := float64(total)
	best := 0
	bestVariance := -1.0

	var w0, sum0 float64
	for level, c := range h {
		w0 += float64(c)
		sum0 += float64(level) * float64(c)

		w1 := n - w0
		variance := 0.0
		if w0 > 0 && w1 > 0 {
			mean0 := sum0 / w0
			mean1 := (totalSum - sum0) / w1
			d := mean0 - mean1
			variance = (w0 / n) * (w1 / n) * d * d
		}

		if variance > bestVariance {
			bestVariance = variance
			best = level
		}
	}
	return best, true
}
