package threshold

import (
	"errors"
	"math/rand"
	"testing"

	"tumorarea/internal/models"
	"tumorarea/pkg/histogram"
)

func randomImage(rng *rand.Rand, width, height int) *models.GrayscaleImage {
	img := models.NewGrayscaleImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func TestBinarizeStrictlyGreater(t *testing.T) {
	img := models.NewGrayscaleImage(4, 1)
	copy(img.Pix, []uint8{149, 150, 151, 255})

	out := Binarize(img, 150)
	expected := []uint8{0, 0, 255, 255}
	for i, v := range expected {
		if out.Pix[i] != v {
			t.Errorf("Expected pixel %d = %d, got %d", i, v, out.Pix[i])
		}
	}
}

func TestManualThresholdMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	img := randomImage(rng, 32, 24)

	prev := img.Width*img.Height + 1
	for th := 0; th <= 255; th++ {
		out, used := Apply(img, Manual, th)
		if used != th {
			t.Fatalf("Expected threshold %d to be reported, got %d", th, used)
		}
		count := out.Count()
		if count > prev {
			t.Fatalf("Foreground grew from %d to %d when raising threshold to %d", prev, count, th)
		}
		prev = count
	}
	if prev != 0 {
		t.Errorf("Expected empty result at threshold 255, got %d", prev)
	}
}

func TestBinaryValuesOnly(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	img := randomImage(rng, 17, 13)

	for _, method := range []Method{Manual, Automatic} {
		out, _ := Apply(img, method, 100)
		for i, v := range out.Pix {
			if v != models.Background && v != models.Foreground {
				t.Fatalf("%s: pixel %d has non-binary value %d", method, i, v)
			}
		}
		if out.Width != img.Width || out.Height != img.Height {
			t.Errorf("%s: expected %dx%d, got %dx%d", method, img.Width, img.Height, out.Width, out.Height)
		}
	}
}

func TestAutomaticEmptyPopulation(t *testing.T) {
	img := models.NewGrayscaleImage(10, 10)

	out, used := Apply(img, Automatic, 0)
	if used != NoThreshold {
		t.Errorf("Expected NoThreshold, got %d", used)
	}
	if out.Count() != 0 {
		t.Errorf("Expected all-background result, got %d foreground pixels", out.Count())
	}
}

func TestAutomaticIgnoresMaskedBackground(t *testing.T) {
	// large zero background, two tissue populations at 110 and 210
	img := models.NewGrayscaleImage(20, 20)
	for i := 0; i < 40; i++ {
		img.Pix[i] = 110
	}
	for i := 40; i < 50; i++ {
		img.Pix[i] = 210
	}

	out, used := Apply(img, Automatic, 0)
	if used < 110 || used >= 210 {
		t.Fatalf("Expected threshold separating 110 from 210, got %d", used)
	}
	if out.Count() != 10 {
		t.Errorf("Expected only the 210 population (10 px), got %d", out.Count())
	}
}

func TestOtsuBimodal(t *testing.T) {
	var h histogram.Histogram
	h[50] = 100
	h[200] = 100

	th, ok := Otsu(&h)
	if !ok {
		t.Fatal("Expected a threshold")
	}
	// every split in [50,199] gives the same variance; smallest wins
	if th != 50 {
		t.Errorf("Expected threshold 50, got %d", th)
	}
}

func TestOtsuSingleLevel(t *testing.T) {
	var h histogram.Histogram
	h[180] = 12

	th, ok := Otsu(&h)
	if !ok || th != 0 {
		t.Errorf("Expected threshold 0 for a single-valued population, got %d (ok=%v)", th, ok)
	}
}

func TestOtsuEmpty(t *testing.T) {
	var h histogram.Histogram
	if _, ok := Otsu(&h); ok {
		t.Error("Expected no threshold for empty histogram")
	}
}

func TestParseMethod(t *testing.T) {
	tests := map[string]Method{
		"Manual":    Manual,
		"automatic": Automatic,
		"Otsu":      Automatic,
		"":          Manual,
	}
	for name, want := range tests {
		got, err := ParseMethod(name)
		if err != nil || got != want {
			t.Errorf("ParseMethod(%q): expected %v, got %v (%v)", name, want, got, err)
		}
	}
	if _, err := ParseMethod("kmeans"); !errors.Is(err, models.ErrInvalidParameter) {
		t.Errorf("Expected ErrInvalidParameter, got %v", err)
	}
}

func TestValidateValue(t *testing.T) {
	for _, v := range []int{0, 160, 255} {
		if err := ValidateValue(v); err != nil {
			t.Errorf("Expected %d to be valid, got %v", v, err)
		}
	}
	for _, v := range []int{-1, 256} {
		if err := ValidateValue(v); !errors.Is(err, models.ErrInvalidParameter) {
			t.Errorf("Expected ErrInvalidParameter for %d, got %v", v, err)
		}
	}
}
