package models

import (
	"errors"
	"fmt"
	"image"
)

// Pixel values used by every binary image in the pipeline.
const (
	Background uint8 = 0
	Foreground uint8 = 255
)

var (
	// ErrInvalidParameter is returned when a configuration value is rejected
	// before the pipeline runs.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDimensionMismatch is returned when a stage produces or receives an
	// image whose size differs from the source image.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// GrayscaleImage is an 8-bit single-channel image stored in row-major order.
// Stages never mutate an image they receive; they return a new one.
type GrayscaleImage struct {
	// Pix holds Width*Height intensity samples
	Pix []uint8

	Width  int
	Height int
}

// NewGrayscaleImage allocates an all-zero grayscale image.
func NewGrayscaleImage(width, height int) *GrayscaleImage {
	return &GrayscaleImage{
		Pix:    make([]uint8, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the intensity at (x, y).
func (g *GrayscaleImage) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set stores an intensity at (x, y).
func (g *GrayscaleImage) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Clone returns a deep copy of the image.
func (g *GrayscaleImage) Clone() *GrayscaleImage {
	out := NewGrayscaleImage(g.Width, g.Height)
	copy(out.Pix, g.Pix)
	return out
}

// ToImage converts the image to a standard library *image.Gray.
func (g *GrayscaleImage) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	copy(img.Pix, g.Pix)
	return img
}

// BinaryImage is a mask whose samples are either Background or Foreground.
type BinaryImage struct {
	Pix []uint8

	Width  int
	Height int
}

// NewBinaryImage allocates an all-background mask.
func NewBinaryImage(width, height int) *BinaryImage {
	return &BinaryImage{
		Pix:    make([]uint8, width*height),
		Width:  width,
		Height: height,
	}
}

// IsForeground reports whether (x, y) is a foreground pixel.
// Coordinates outside the image are background.
func (b *BinaryImage) IsForeground(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x] == Foreground
}

// SetForeground marks (x, y) as foreground.
func (b *BinaryImage) SetForeground(x, y int) {
	b.Pix[y*b.Width+x] = Foreground
}

// Count returns the number of foreground pixels.
func (b *BinaryImage) Count() int {
	n := 0
	for _, v := range b.Pix {
		if v == Foreground {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the mask.
func (b *BinaryImage) Clone() *BinaryImage {
	out := NewBinaryImage(b.Width, b.Height)
	copy(out.Pix, b.Pix)
	return out
}

// Equal reports whether two masks have the same size and content.
func (b *BinaryImage) Equal(other *BinaryImage) bool {
	if other == nil || b.Width != other.Width || b.Height != other.Height {
		return false
	}
	for i, v := range b.Pix {
		if other.Pix[i] != v {
			return false
		}
	}
	return true
}

// ToImage converts the mask to a standard library *image.Gray.
func (b *BinaryImage) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// CheckDimensions returns ErrDimensionMismatch when the two sizes differ.
func CheckDimensions(stage string, width, height, wantWidth, wantHeight int) error {
	if width != wantWidth || height != wantHeight {
		return fmt.Errorf("%s produced %dx%d, want %dx%d: %w",
			stage, width, height, wantWidth, wantHeight, ErrDimensionMismatch)
	}
	return nil
}

// Region is one connected foreground component found by the candidate selector.
type Region struct {
	// Label is the 1-based component number in raster scan order
	Label int

	// Boundary is the external contour, clockwise, starting at the
	// top-most, left-most pixel of the component
	Boundary []image.Point

	// Pixels is the number of foreground pixels in the component
	Pixels int

	// Area is the area enclosed by the external boundary: the component's
	// pixels plus any holes it surrounds
	Area int

	// Bounds is the bounding rectangle of the component
	Bounds image.Rectangle
}

// SegmentationResult is everything a single pipeline run hands to the
// display layer.
type SegmentationResult struct {
	// Masked is the source image with everything outside the ROI zeroed
	Masked *GrayscaleImage

	// Binary is the thresholded image before morphological refinement
	Binary *BinaryImage

	// Refined is the binary image after morphological refinement
	Refined *BinaryImage

	// Candidate is the final mask holding only the largest region
	Candidate *BinaryImage

	// Area is the number of foreground pixels in Candidate
	Area int

	// Threshold is the cut value applied by the thresholder, or -1 when the
	// automatic method had no masked-in pixels to work with
	Threshold int

	// Regions lists every component found before selection
	Regions []Region

	// Selected points into Regions, nil when there was no foreground
	Selected *Region

	// ImageHistogram and TargetHistogram are the 256-bin histograms of the
	// source image and of the nonzero masked pixels
	ImageHistogram  [256]int
	TargetHistogram [256]int
}
