// Package morphology refines binary images with a square structuring
// element. Pixels outside the image are treated as background for every
// operator.
package morphology

import (
	"fmt"
	"strings"

	"tumorarea/internal/models"
)

// Operator is the morphological filter applied to the thresholded image.
type Operator int

const (
	None Operator = iota
	Opening
	Closing
	Erosion
	Dilation
)

// MaxKernelSize is the largest structuring element side accepted.
const MaxKernelSize = 15

var operatorNames = map[Operator]string{
	None:     "none",
	Opening:  "opening",
	Closing:  "closing",
	Erosion:  "erosion",
	Dilation: "dilation",
}

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// ParseOperator converts a configuration name into an Operator.
func ParseOperator(name string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "opening", "open":
		return Opening, nil
	case "closing", "close":
		return Closing, nil
	case "erosion", "erode":
		return Erosion, nil
	case "dilation", "dilate":
		return Dilation, nil
	}
	return None, fmt.Errorf("unknown morphological operator %q: %w", name, models.ErrInvalidParameter)
}

// ValidateKernelSize rejects even sizes and sizes outside [1, MaxKernelSize].
func ValidateKernelSize(k int) error {
	if k < 1 || k > MaxKernelSize || k%2 == 0 {
		return fmt.Errorf("kernel size must be odd and in [1, %d], got %d: %w",
			MaxKernelSize, k, models.ErrInvalidParameter)
	}
	return nil
}

// Apply runs op on src with a k x k structuring element and returns a new
// image. None returns a copy of src.
func Apply(src *models.BinaryImage, op Operator, k int) *models.BinaryImage {
	switch op {
	case Erosion:
		return Erode(src, k)
	case Dilation:
		return Dilate(src, k)
	case Opening:
		return Dilate(Erode(src, k), k)
	case Closing:
		return Erode(Dilate(src, k), k)
	default:
		return src.Clone()
	}
}

// Erode keeps a pixel only when the whole k x k window around it is foreground.
func Erode(src *models.BinaryImage, k int) *models.BinaryImage {
	return separable(src, k, k)
}

// Dilate sets a pixel when any pixel of the k x k window around it is foreground.
func Dilate(src *models.BinaryImage, k int) *models.BinaryImage {
	return separable(src, k, 1)
}

// separable filters rows then columns. A window passes when it holds at
// least need foreground samples; out-of-bounds samples never count, which
// makes the border behave as background.
func separable(src *models.BinaryImage, k, need int) *models.BinaryImage {
	w, h := src.Width, src.Height
	r := k / 2

	rows := models.NewBinaryImage(w, h)
	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x]
			if src.Pix[y*w+x] == models.Foreground {
				prefix[x+1]++
			}
		}
		for x := 0; x < w; x++ {
			lo, hi := max(x-r, 0), min(x+r, w-1)
			if prefix[hi+1]-prefix[lo] >= need {
				rows.Pix[y*w+x] = models.Foreground
			}
		}
	}

	out := models.NewBinaryImage(w, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y]
			if rows.Pix[y*w+x] == models.Foreground {
				prefix[y+1]++
			}
		}
		for y := 0; y < h; y++ {
			lo, hi := max(y-r, 0), min(y+r, h-1)
			if prefix[hi+1]-prefix[lo] >= need {
				out.Pix[y*w+x] = models.Foreground
			}
		}
	}
	return out
}
