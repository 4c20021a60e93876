package executor

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"math"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/screenops/screenops/internal/models"
)

// matchTemplate decodes the capture and the condition's template image,
// optionally crops the capture to the condition region, and passes when
// the best normalized cross-correlation score reaches the confidence
// bound. A region that exceeds the capture bounds degrades to matching
// against the full image.
func matchTemplate(c *models.Condition, screen []byte, log *slog.Logger) bool {
	if len(c.TemplateImage) == 0 {
		log.Error("template condition has no template image", "kind", models.FailureConfig, "template", c.TemplateName)
		return false
	}

	img, err := decodeImage(screen)
	if err != nil {
		log.Error("decoding screen capture failed", "kind", models.FailurePerception, "error", err)
		return false
	}
	tpl, err := decodeImage(c.TemplateImage)
	if err != nil {
		log.Error("decoding template image failed", "kind", models.FailurePerception, "template", c.TemplateName, "error", err)
		return false
	}

	search := toGray(img)
	if c.Region.Positive() {
		if cropped, ok := crop(search, c.Region); ok {
			search = cropped
		} else {
			log.Warn("region exceeds capture bounds, matching against full image",
				"x", c.Region.X, "y", c.Region.Y, "width", c.Region.Width, "height", c.Region.Height)
		}
	}

	score, ok := bestMatchScore(search, toGray(tpl))
	if !ok {
		log.Error("template larger than search area", "kind", models.FailurePerception, "template", c.TemplateName)
		return false
	}

	passed := score >= c.Confidence
	log.Info("template match scored", "template", c.TemplateName, "score", score, "threshold", c.Confidence, "passed", passed)
	return passed
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// toGray flattens an image to a luminance matrix.
func toGray(img image.Image) [][]float64 {
	b := img.Bounds()
	out := make([][]float64, b.Dy())
	for y := range out {
		row := make([]float64, b.Dx())
		for x := range row {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
		}
		out[y] = row
	}
	return out
}

// crop returns the region of the matrix, or false when the region does
// not fit fully inside it.
func crop(m [][]float64, r models.Region) ([][]float64, bool) {
	h := len(m)
	if h == 0 {
		return nil, false
	}
	w := len(m[0])
	if r.X < 0 || r.Y < 0 || r.X+r.Width > w || r.Y+r.Height > h {
		return nil, false
	}
	out := make([][]float64, r.Height)
	for y := range out {
		out[y] = m[r.Y+y][r.X : r.X+r.Width]
	}
	return out, true
}

// bestMatchScore slides the template over the search matrix and returns
// the best zero-mean normalized cross-correlation score in [-1, 1]. It
// reports false when the template does not fit inside the search area.
func bestMatchScore(search, tpl [][]float64) (float64, bool) {
	sh, th := len(search), len(tpl)
	if sh == 0 || th == 0 || th > sh {
		return 0, false
	}
	sw, tw := len(search[0]), len(tpl[0])
	if tw > sw {
		return 0, false
	}

	tplMean := mean(tpl, 0, 0, tw, th)
	var tplVar float64
	for y := range th {
		for x := range tw {
			d := tpl[y][x] - tplMean
			tplVar += d * d
		}
	}

	best := -1.0
	for oy := 0; oy <= sh-th; oy++ {
		for ox := 0; ox <= sw-tw; ox++ {
			winMean := mean(search, ox, oy, tw, th)

			var cross, winVar float64
			for y := range th {
				for x := range tw {
					dw := search[oy+y][ox+x] - winMean
					dt := tpl[y][x] - tplMean
					cross += dw * dt
					winVar += dw * dw
				}
			}

			denom := math.Sqrt(winVar * tplVar)
			if denom == 0 {
				// Flat window or flat template carries no signal.
				continue
			}
			if score := cross / denom; score > best {
				best = score
			}
		}
	}
	return best, true
}

func mean(m [][]float64, ox, oy, w, h int) float64 {
	var sum float64
	for y := range h {
		for x := range w {
			sum += m[oy+y][ox+x]
		}
	}
	return sum / float64(w*h)
}
