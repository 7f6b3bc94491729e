package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tumorarea/internal/logger"
	"tumorarea/pkg/config"
	"tumorarea/pkg/imageio"
	"tumorarea/pkg/report"
	"tumorarea/pkg/segmentation"
	"tumorarea/pkg/threshold"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Image file or directory of images to analyse")
	configPath := flag.String("config", "tumorarea.yaml", "YAML configuration file (defaults are used when absent)")
	initConfig := flag.String("init-config", "", "Write a default configuration file to this path and exit")
	method := flag.String("method", "", "Threshold method: manual or automatic")
	thresholdVal := flag.Int("threshold", -1, "Manual threshold value (0-255)")
	morphOp := flag.String("morph", "", "Morphological operation: none, opening, closing, erosion, dilation")
	kernelSize := flag.Int("kernel", 0, "Odd structuring element size (1-15)")
	roiPolicy := flag.String("roi", "", "ROI policy: band or adaptive")
	low := flag.Int("low", -1, "Lower bound of the ROI intensity band")
	high := flag.Int("high", -1, "Upper bound of the ROI intensity band")
	blockSize := flag.Int("block", 0, "Adaptive ROI block size (odd, >= 3)")
	offset := flag.Float64("offset", 0, "Adaptive ROI offset subtracted from the local mean")
	saveIntermediary := flag.Bool("save-intermediary", false, "Save stage images for every processed image")
	intermediaryDir := flag.String("intermediary-dir", "", "Directory to save stage images")
	reportFile := flag.String("report", "", "Write a YAML report to this file")
	histograms := flag.Bool("histograms", false, "Include raw histograms in the report")
	workers := flag.Int("workers", 0, "Number of images processed concurrently")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *initConfig != "" {
		if err := config.CreateDefaultConfigFile(*initConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration written to %s\n", *initConfig)
		return
	}

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags explicitly set on the command line override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "method":
			cfg.Segmentation.Method = *method
		case "threshold":
			cfg.Segmentation.Threshold = *thresholdVal
		case "morph":
			cfg.Segmentation.MorphOp = *morphOp
		case "kernel":
			cfg.Segmentation.KernelSize = *kernelSize
		case "roi":
			cfg.ROI.Policy = *roiPolicy
		case "low":
			cfg.ROI.Low = *low
		case "high":
			cfg.ROI.High = *high
		case "block":
			cfg.ROI.BlockSize = *blockSize
		case "offset":
			cfg.ROI.Offset = *offset
		case "save-intermediary":
			cfg.Output.SaveIntermediaryResults = *saveIntermediary
		case "intermediary-dir":
			cfg.Output.IntermediaryDir = *intermediaryDir
		case "report":
			cfg.Output.ReportFile = *reportFile
		case "histograms":
			cfg.Output.IncludeHistograms = *histograms
		case "workers":
			cfg.Output.Workers = *workers
		case "verbose":
			cfg.Output.Verbose = *verbose
		}
	})

	log := logger.NewConsoleLogger(logger.LevelFor(cfg.Output.Verbose))

	if err := cfg.Validate(); err != nil {
		log.Error("config", err, nil)
		os.Exit(2)
	}
	params, _ := cfg.Params()

	segmenter, err := segmentation.NewSegmenter(params, log)
	if err != nil {
		log.Error("config", err, nil)
		os.Exit(2)
	}

	paths, err := imageio.Collect(*inputPath)
	if err != nil {
		log.Error("input", err, map[string]interface{}{"path": *inputPath})
		os.Exit(1)
	}

	fmt.Println("================================")
	fmt.Println("CANDIDATE MASS SEGMENTATION AND AREA ESTIMATION")
	fmt.Println("================================")
	fmt.Printf("Method: %s", params.Method)
	if params.Method == threshold.Manual {
		fmt.Printf(" (T=%d)", params.Threshold)
	}
	fmt.Printf(" | Morphology: %s (k=%d) | ROI: %s\n", params.MorphOp, params.KernelSize, params.ROI.Policy)
	fmt.Printf("Images: %d | Workers: %d\n\n", len(paths), cfg.Output.Workers)

	startTime := time.Now()
	items := segmenter.RunBatch(paths, segmentation.BatchOptions{
		Workers:                 cfg.Output.Workers,
		SaveIntermediaryResults: cfg.Output.SaveIntermediaryResults,
		IntermediaryDir:         cfg.Output.IntermediaryDir,
	})

	failures := 0
	reports := make([]report.Report, 0, len(items))
	for _, item := range items {
		name := filepath.Base(item.Path)
		if item.Err != nil {
			failures++
			fmt.Printf("%-32s  FAILED: %v\n", name, item.Err)
			reports = append(reports, report.Failed(name, item.Err))
			continue
		}

		res := item.Result
		thresholdInfo := fmt.Sprintf("T=%d", res.Threshold)
		if res.Threshold < 0 {
			thresholdInfo = "T=n/a"
		}
		fmt.Printf("%-32s  area: %7d px  regions: %4d  %s  (%.1f ms)\n",
			name, res.Area, len(res.Regions), thresholdInfo, float64(item.Duration.Microseconds())/1000)
		reports = append(reports, report.New(name, item.Source, res, params, cfg.Output.IncludeHistograms))
	}

	fmt.Printf("\nProcessed %d image(s) in %.2f seconds, %d failed\n",
		len(items), time.Since(startTime).Seconds(), failures)

	if cfg.Output.ReportFile != "" {
		if err := report.Write(cfg.Output.ReportFile, reports); err != nil {
			log.Error("report", err, map[string]interface{}{"path": cfg.Output.ReportFile})
			os.Exit(1)
		}
		fmt.Printf("Report saved to: %s\n", cfg.Output.ReportFile)
	}

	if cfg.Output.SaveIntermediaryResults {
		fmt.Println("\nIntermediary results saved to:")
		fmt.Printf("%s\n", cfg.Output.IntermediaryDir)
		fmt.Println("The following stages were saved per image:")
		fmt.Println("- 01_original: Grayscale source image")
		fmt.Println("- 02_masked: Source restricted to the region of interest")
		fmt.Println("- 03_binary: Thresholded image before morphology")
		fmt.Println("- 04_refined: Binary image after morphology")
		fmt.Println("- 05_candidate: Largest connected region")
		fmt.Println("- 06_overlay: Candidate drawn over the source")
	}

	if failures > 0 {
		os.Exit(1)
	}
}
