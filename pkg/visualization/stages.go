// Package visualization turns a segmentation result into images a person
// can inspect: one file per pipeline stage plus an overlay of the candidate
// mass on the source image. It is a consumer of the pipeline's output and
// never feeds anything back into it.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"tumorarea/internal/models"
	"tumorarea/pkg/imageio"
)

var (
	fillColor     = color.RGBA{R: 255, G: 64, B: 32, A: 255}
	boundaryColor = color.RGBA{R: 255, A: 255}
)

// fillAlpha is the weight of fillColor when tinting candidate pixels.
const fillAlpha = 0.4

// Overlay renders src in gray with the candidate pixels tinted and the
// boundary drawn in solid red.
func Overlay(src *models.GrayscaleImage, mask *models.BinaryImage, boundary []image.Point) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, src.Width, src.Height))
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			v := src.At(x, y)
			c := color.RGBA{R: v, G: v, B: v, A: 255}
			if mask != nil && mask.IsForeground(x, y) {
				c = blend(c, fillColor, fillAlpha)
			}
			out.SetRGBA(x, y, c)
		}
	}
	for _, p := range boundary {
		if p.In(out.Rect) {
			out.SetRGBA(p.X, p.Y, boundaryColor)
		}
	}
	return out
}

func blend(base, tint color.RGBA, alpha float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-alpha) + float64(b)*alpha + 0.5)
	}
	return color.RGBA{R: mix(base.R, tint.R), G: mix(base.G, tint.G), B: mix(base.B, tint.B), A: 255}
}

// Stage file names written by SaveStages, in pipeline order.
const (
	OriginalFile  = "01_original.png"
	MaskedFile    = "02_masked.png"
	BinaryFile    = "03_binary.png"
	RefinedFile   = "04_refined.png"
	CandidateFile = "05_candidate.png"
	OverlayFile   = "06_overlay.png"
)

// SaveStages writes every intermediate image of res into dir.
func SaveStages(dir string, src *models.GrayscaleImage, res *models.SegmentationResult) error {
	var boundary []image.Point
	if res.Selected != nil {
		boundary = res.Selected.Boundary
	}

	stages := []struct {
		name string
		img  image.Image
	}{
		{OriginalFile, src.ToImage()},
		{MaskedFile, res.Masked.ToImage()},
		{BinaryFile, res.Binary.ToImage()},
		{RefinedFile, res.Refined.ToImage()},
		{CandidateFile, res.Candidate.ToImage()},
		{OverlayFile, Overlay(src, res.Candidate, boundary)},
	}

	for _, stage := range stages {
		if err := imageio.Save(filepath.Join(dir, stage.name), stage.img); err != nil {
			return fmt.Errorf("failed to save stage %s: %w", stage.name, err)
		}
	}
	return nil
}
