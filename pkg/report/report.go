// Package report serialises segmentation results to YAML for downstream
// tooling: the estimated area, the parameters that produced it and
// intensity statistics of the image, the ROI population and the candidate.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tumorarea/internal/models"
	"tumorarea/pkg/histogram"
	"tumorarea/pkg/roi"
	"tumorarea/pkg/segmentation"
	"tumorarea/pkg/threshold"
)

// Parameters records the configuration of a run.
type Parameters struct {
	Method     string `yaml:"method"`
	Threshold  *int   `yaml:"threshold,omitempty"`
	MorphOp    string `yaml:"morphOp"`
	KernelSize int    `yaml:"kernelSize"`
	ROI        struct {
		Policy    string  `yaml:"policy"`
		Low       int     `yaml:"low,omitempty"`
		High      int     `yaml:"high,omitempty"`
		BlockSize int     `yaml:"blockSize,omitempty"`
		Offset    float64 `yaml:"offset,omitempty"`
	} `yaml:"roi"`
}

// Candidate describes the selected region.
type Candidate struct {
	Bounds         [4]int            `yaml:"bounds"` // minX, minY, maxX, maxY (exclusive)
	Pixels         int               `yaml:"pixels"`
	EnclosedArea   int               `yaml:"enclosedArea"`
	BoundaryLength int               `yaml:"boundaryLength"`
	Intensity      histogram.Summary `yaml:"intensity"`
}

// Histograms carries the raw 256-bin counts when requested.
type Histograms struct {
	Image  []int `yaml:"image,flow"`
	Target []int `yaml:"target,flow"`
}

// Report is the YAML document written per image.
type Report struct {
	Image         string            `yaml:"image"`
	Width         int               `yaml:"width"`
	Height        int               `yaml:"height"`
	Parameters    Parameters        `yaml:"parameters"`
	ThresholdUsed int               `yaml:"thresholdUsed"`
	Area          int               `yaml:"area"`
	AreaFraction  float64           `yaml:"areaFraction"`
	Regions       int               `yaml:"regions"`
	Candidate     *Candidate        `yaml:"candidate,omitempty"`
	ImageStats    histogram.Summary `yaml:"imageStats"`
	TargetStats   histogram.Summary `yaml:"targetStats"`
	Histograms    *Histograms       `yaml:"histograms,omitempty"`
	Error         string            `yaml:"error,omitempty"`
}

// New builds the report of one successful run on src.
func New(name string, src *models.GrayscaleImage, res *models.SegmentationResult, p segmentation.Params, withHistograms bool) Report {
	r := Report{
		Image:         name,
		Width:         src.Width,
		Height:        src.Height,
		Parameters:    parametersOf(p),
		ThresholdUsed: res.Threshold,
		Area:          res.Area,
		Regions:       len(res.Regions),
	}
	if total := src.Width * src.Height; total > 0 {
		r.AreaFraction = float64(res.Area) / float64(total)
	}

	imageHist := histogram.Histogram(res.ImageHistogram)
	targetHist := histogram.Histogram(res.TargetHistogram)
	r.ImageStats = imageHist.Summarize()
	r.TargetStats = targetHist.Summarize()

	if sel := res.Selected; sel != nil {
		under := histogram.Under(src, res.Candidate)
		r.Candidate = &Candidate{
			Bounds:         [4]int{sel.Bounds.Min.X, sel.Bounds.Min.Y, sel.Bounds.Max.X, sel.Bounds.Max.Y},
			Pixels:         sel.Pixels,
			EnclosedArea:   sel.Area,
			BoundaryLength: len(sel.Boundary),
			Intensity:      under.Summarize(),
		}
	}

	if withHistograms {
		r.Histograms = &Histograms{
			Image:  res.ImageHistogram[:],
			Target: res.TargetHistogram[:],
		}
	}
	return r
}

// Failed builds the report entry of an image that could not be processed.
func Failed(name string, err error) Report {
	return Report{Image: name, Error: err.Error()}
}

func parametersOf(p segmentation.Params) Parameters {
	var out Parameters
	out.Method = p.Method.String()
	if p.Method == threshold.Manual {
		t := p.Threshold
		out.Threshold = &t
	}
	out.MorphOp = p.MorphOp.String()
	out.KernelSize = p.KernelSize
	out.ROI.Policy = p.ROI.Policy.String()
	if p.ROI.Policy == roi.Adaptive {
		out.ROI.BlockSize = p.ROI.BlockSize
		out.ROI.Offset = p.ROI.Offset
	} else {
		out.ROI.Low = p.ROI.Low
		out.ROI.High = p.ROI.High
	}
	return out
}

// Write stores the reports as one YAML sequence at path.
func Write(path string, reports []Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating report directory: %w", err)
	}

	data, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}

// Read loads reports previously written by Write.
func Read(path string) ([]Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading report: %w", err)
	}
	var reports []Report
	if err := yaml.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("error parsing report: %w", err)
	}
	return reports, nil
}
