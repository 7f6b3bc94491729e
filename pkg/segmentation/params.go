package segmentation

import (
	"fmt"

	"tumorarea/internal/models"
	"tumorarea/pkg/morphology"
	"tumorarea/pkg/roi"
	"tumorarea/pkg/threshold"
)

// Params is the immutable configuration of one pipeline run. It is built
// once (usually from a config file plus command line flags) and passed to
// NewSegmenter; the pipeline never changes it.
type Params struct {
	// ROI selects the masking policy applied before thresholding
	ROI roi.Params

	// Method chooses between a manual cut value and the automatic,
	// variance-maximising threshold
	Method threshold.Method

	// Threshold is the manual cut value in [0, 255]; ignored by Automatic
	Threshold int

	// MorphOp is the refinement operator applied to the binary image
	MorphOp morphology.Operator

	// KernelSize is the odd side of the square structuring element
	KernelSize int
}

// DefaultParams mirrors the defaults of the interactive dashboard: manual
// threshold 160, no refinement, 3x3 kernel, ROI band [100, 255].
func DefaultParams() Params {
	return Params{
		ROI:        roi.DefaultParams(),
		Method:     threshold.Manual,
		Threshold:  160,
		MorphOp:    morphology.None,
		KernelSize: 3,
	}
}

// Validate checks every parameter. All failures wrap
// models.ErrInvalidParameter.
func (p Params) Validate() error {
	if err := p.ROI.Validate(); err != nil {
		return err
	}

	switch p.Method {
	case threshold.Manual:
		if err := threshold.ValidateValue(p.Threshold); err != nil {
			return err
		}
	case threshold.Automatic:
	default:
		return fmt.Errorf("unknown threshold method %d: %w", int(p.Method), models.ErrInvalidParameter)
	}

	switch p.MorphOp {
	case morphology.None, morphology.Opening, morphology.Closing, morphology.Erosion, morphology.Dilation:
	default:
		return fmt.Errorf("unknown morphological operator %d: %w", int(p.MorphOp), models.ErrInvalidParameter)
	}
	return morphology.ValidateKernelSize(p.KernelSize)
}
