// Package segmentation runs the candidate-mass pipeline on a grayscale
// image: ROI masking, thresholding, morphological refinement, selection of
// the largest connected region and area quantification.
//
// Each call to Run is independent and synchronous. A Segmenter holds only
// its immutable Params, so one value can serve concurrent runs.
package segmentation

import (
	"errors"
	"fmt"

	"tumorarea/internal/logger"
	"tumorarea/internal/models"
	"tumorarea/pkg/candidate"
	"tumorarea/pkg/histogram"
	"tumorarea/pkg/morphology"
	"tumorarea/pkg/roi"
	"tumorarea/pkg/threshold"
)

const component = "segmenter"

// Segmenter executes the pipeline with a fixed set of parameters.
type Segmenter struct {
	params Params
	log    logger.Logger
}

// NewSegmenter validates params and returns a ready segmenter. A nil log
// discards all events.
func NewSegmenter(params Params, log logger.Logger) (*Segmenter, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid segmentation parameters: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Segmenter{params: params, log: log}, nil
}

// Params returns the parameters the segmenter was built with.
func (s *Segmenter) Params() Params {
	return s.params
}

// Run executes every stage on img and returns the result. An image with no
// pixel surviving the ROI or the threshold is not an error: the result has
// empty masks and Area 0.
func (s *Segmenter) Run(img *models.GrayscaleImage) (*models.SegmentationResult, error) {
	if img == nil {
		return nil, errors.New("nil input image")
	}
	if len(img.Pix) != img.Width*img.Height {
		return nil, fmt.Errorf("input holds %d samples for %dx%d: %w",
			len(img.Pix), img.Width, img.Height, models.ErrDimensionMismatch)
	}
	w, h := img.Width, img.Height

	// Stage 1: ROI masking
	roiMask, masked := roi.Extract(img, s.params.ROI)
	if err := models.CheckDimensions("roi extractor", masked.Width, masked.Height, w, h); err != nil {
		return nil, err
	}
	s.log.Debug(component, "roi extracted", map[string]interface{}{
		"policy": s.params.ROI.Policy.String(),
		"pixels": roiMask.Count(),
	})

	// Stage 2: thresholding
	binary, used := threshold.Apply(masked, s.params.Method, s.params.Threshold)
	if err := models.CheckDimensions("thresholder", binary.Width, binary.Height, w, h); err != nil {
		return nil, err
	}
	s.log.Debug(component, "threshold applied", map[string]interface{}{
		"method":     s.params.Method.String(),
		"threshold":  used,
		"foreground": binary.Count(),
	})

	// Stage 3: morphological refinement
	refined := morphology.Apply(binary, s.params.MorphOp, s.params.KernelSize)
	if err := models.CheckDimensions("morphological refiner", refined.Width, refined.Height, w, h); err != nil {
		return nil, err
	}
	s.log.Debug(component, "morphology applied", map[string]interface{}{
		"operator":   s.params.MorphOp.String(),
		"kernel":     s.params.KernelSize,
		"foreground": refined.Count(),
	})

	// Stage 4: candidate selection
	final, regions, selected := candidate.Select(refined)
	if err := models.CheckDimensions("candidate selector", final.Width, final.Height, w, h); err != nil {
		return nil, err
	}

	// Stage 5: quantification
	result := &models.SegmentationResult{
		Masked:          masked,
		Binary:          binary,
		Refined:         refined,
		Candidate:       final,
		Area:            Area(final),
		Threshold:       used,
		Regions:         regions,
		ImageHistogram:  histogram.Of(img),
		TargetHistogram: histogram.Nonzero(masked),
	}
	if selected >= 0 {
		result.Selected = &result.Regions[selected]
	}

	s.log.Info(component, "segmentation completed", map[string]interface{}{
		"width":   w,
		"height":  h,
		"regions": len(regions),
		"area":    result.Area,
	})
	return result, nil
}

// Area is the quantifier: the number of foreground pixels in mask.
func Area(mask *models.BinaryImage) int {
	return mask.Count()
}
