package segmentation

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tumorarea/internal/models"
	"tumorarea/pkg/imageio"
	"tumorarea/pkg/visualization"
)

// BatchOptions controls RunBatch.
type BatchOptions struct {
	// Workers is the number of images processed at the same time
	Workers int

	// SaveIntermediaryResults writes every stage image of each run below
	// IntermediaryDir/<image name>/
	SaveIntermediaryResults bool
	IntermediaryDir         string
}

// BatchItem is the outcome of one image in a batch.
type BatchItem struct {
	Path     string
	Source   *models.GrayscaleImage
	Result   *models.SegmentationResult
	Duration time.Duration
	Err      error
}

// RunBatch loads and segments every path. Each image is an independent run;
// up to opts.Workers runs execute concurrently. Items come back in the order
// of paths, and a failure on one image does not stop the others.
func (s *Segmenter) RunBatch(paths []string, opts BatchOptions) []BatchItem {
	items := make([]BatchItem, len(paths))
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = s.runFile(paths[i], opts)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return items
}

func (s *Segmenter) runFile(path string, opts BatchOptions) (item BatchItem) {
	item.Path = path
	start := time.Now()
	defer func() { item.Duration = time.Since(start) }()

	src, err := imageio.Load(path)
	if err != nil {
		item.Err = err
		s.log.Error(component, err, map[string]interface{}{"path": path})
		return item
	}
	item.Source = src

	res, err := s.Run(src)
	if err != nil {
		item.Err = fmt.Errorf("segmentation of %s failed: %w", path, err)
		s.log.Error(component, item.Err, map[string]interface{}{"path": path})
		return item
	}
	item.Result = res

	if opts.SaveIntermediaryResults {
		dir := filepath.Join(opts.IntermediaryDir, StageDirName(path))
		if err := visualization.SaveStages(dir, src, res); err != nil {
			s.log.Warning(component, "failed to save intermediary results", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
	return item
}

// StageDirName derives the per-image directory name for stage images.
func StageDirName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
