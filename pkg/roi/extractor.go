// Package roi restricts analysis to plausibly relevant tissue before
// thresholding. Two masking policies are supported: a fixed intensity band
// and a local adaptive mean threshold.
package roi

import (
	"fmt"
	"strings"

	"tumorarea/internal/models"
)

// Policy selects how the ROI mask is built.
type Policy int

const (
	// Band keeps pixels whose intensity lies in [Low, High]
	Band Policy = iota

	// Adaptive keeps pixels brighter than their local mean minus Offset
	Adaptive
)

func (p Policy) String() string {
	switch p {
	case Band:
		return "band"
	case Adaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a configuration name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "band", "fixed":
		return Band, nil
	case "adaptive":
		return Adaptive, nil
	}
	return Band, fmt.Errorf("unknown roi policy %q: %w", name, models.ErrInvalidParameter)
}

// Params configures the ROI extractor.
type Params struct {
	Policy Policy

	// Low and High bound the intensity band (inclusive) for the Band policy
	Low  int
	High int

	// BlockSize is the odd side of the neighbourhood used by the Adaptive policy
	BlockSize int

	// Offset is subtracted from the local mean by the Adaptive policy
	Offset float64
}

// DefaultParams returns the band [100, 255] used to isolate hyperintense tissue.
func DefaultParams() Params {
	return Params{
		Policy:    Band,
		Low:       100,
		High:      255,
		BlockSize: 11,
		Offset:    2,
	}
}

// Validate rejects parameter combinations the extractor cannot honour.
func (p Params) Validate() error {
	switch p.Policy {
	case Band:
		if p.Low < 0 || p.High > 255 || p.Low > p.High {
			return fmt.Errorf("roi band [%d, %d] must satisfy 0 <= low <= high <= 255: %w",
				p.Low, p.High, models.ErrInvalidParameter)
		}
	case Adaptive:
		if p.BlockSize < 3 || p.BlockSize%2 == 0 {
			return fmt.Errorf("roi block size must be odd and >= 3, got %d: %w",
				p.BlockSize, models.ErrInvalidParameter)
		}
	default:
		return fmt.Errorf("unknown roi policy %d: %w", int(p.Policy), models.ErrInvalidParameter)
	}
	return nil
}

// Extract builds the ROI mask for img and returns it together with the
// masked intensity image.
func Extract(img *models.GrayscaleImage, p Params) (*models.BinaryImage, *models.GrayscaleImage) {
	var mask *models.BinaryImage
	if p.Policy == Adaptive {
		mask = AdaptiveMask(img, p.BlockSize, p.Offset)
	} else {
		mask = BandMask(img, p.Low, p.High)
	}
	return mask, Apply(img, mask)
}

// BandMask marks pixels with low <= intensity <= high as foreground.
func BandMask(img *models.GrayscaleImage, low, high int) *models.BinaryImage {
	mask := models.NewBinaryImage(img.Width, img.Height)
	for i, v := range img.Pix {
		if int(v) >= low && int(v) <= high {
			mask.Pix[i] = models.Foreground
		}
	}
	return mask
}

// AdaptiveMask marks a pixel as foreground when it is strictly brighter than
// the mean of its block x block neighbourhood minus offset. The border is
// replicated, so every window has exactly block*block samples.
func AdaptiveMask(img *models.GrayscaleImage, block int, offset float64) *models.BinaryImage {
	w, h := img.Width, img.Height
	mask := models.NewBinaryImage(w, h)
	if w == 0 || h == 0 {
		return mask
	}

	r := block / 2
	pw, ph := w+2*r, h+2*r
	stride := pw + 1

	// integral[(y+1)*stride+(x+1)] is the sum over the padded rectangle [0,x]x[0,y]
	integral := make([]int64, (ph+1)*stride)
	for py := 0; py < ph; py++ {
		sy := clamp(py-r, 0, h-1)
		var rowSum int64
		for px := 0; px < pw; px++ {
			sx := clamp(px-r, 0, w-1)
			rowSum += int64(img.Pix[sy*w+sx])
			integral[(py+1)*stride+px+1] = integral[py*stride+px+1] + rowSum
		}
	}

	area := float64(block * block)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// window covers padded [x, x+block-1] x [y, y+block-1]
			sum := integral[(y+block)*stride+x+block] -
				integral[y*stride+x+block] -
				integral[(y+block)*stride+x] +
				integral[y*stride+x]
			local := float64(sum)/area - offset
			if float64(img.Pix[y*w+x]) > local {
				mask.Pix[y*w+x] = models.Foreground
			}
		}
	}
	return mask
}

// Apply keeps the intensity of img wherever mask is foreground and zeroes
// everything else.
func Apply(img *models.GrayscaleImage, mask *models.BinaryImage) *models.GrayscaleImage {
	out := models.NewGrayscaleImage(img.Width, img.Height)
	for i, v := range mask.Pix {
		if v == models.Foreground {
			out.Pix[i] = img.Pix[i]
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
