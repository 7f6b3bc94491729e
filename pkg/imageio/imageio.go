// Package imageio decodes source images into the pipeline's grayscale
// representation and writes result images back to disk.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"tumorarea/internal/models"
)

// supported lists the file extensions accepted as inputs.
var supported = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsSupported reports whether path has an accepted image extension.
func IsSupported(path string) bool {
	return supported[strings.ToLower(filepath.Ext(path))]
}

// Load decodes the image at path, honouring EXIF orientation, and converts
// it to 8-bit grayscale.
func Load(path string) (*models.GrayscaleImage, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return ToGrayscale(img), nil
}

// ToGrayscale converts any image to a GrayscaleImage using the standard
// luma weights (0.299, 0.587, 0.114).
func ToGrayscale(img image.Image) *models.GrayscaleImage {
	b := img.Bounds()
	out := models.NewGrayscaleImage(b.Dx(), b.Dy())

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < out.Height; y++ {
			row := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(out.Pix[y*out.Width:(y+1)*out.Width], row[:out.Width])
		}
		return out
	}

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out.Pix[y*out.Width+x] = g.Y
		}
	}
	return out
}

// Save encodes img to path, choosing the format from the extension. TIFF
// output is Deflate-compressed; other formats go through imaging.
func Save(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer file.Close()
		if err := tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
			return fmt.Errorf("failed to encode %s: %w", path, err)
		}
		return file.Close()
	default:
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		return nil
	}
}

// Collect expands path into the list of images to process. A file is
// returned as is; a directory yields its supported images ordered by the
// number embedded in their names, then by name.
func Collect(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !IsSupported(path) {
			return nil, fmt.Errorf("unsupported image format: %s", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && IsSupported(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported images found in %s", path)
	}

	sort.Slice(files, func(i, j int) bool {
		ni, nj := extractNumber(files[i]), extractNumber(files[j])
		if ni != nj {
			return ni < nj
		}
		return files[i] < files[j]
	})

	paths := make([]string, len(files))
	for i, name := range files {
		paths[i] = filepath.Join(path, name)
	}
	return paths, nil
}

// extractNumber returns the digits of a file name read as one integer,
// or 0 when there are none.
func extractNumber(filename string) int {
	var digits strings.Builder
	for _, c := range filepath.Base(filename) {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	num, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return num
}
