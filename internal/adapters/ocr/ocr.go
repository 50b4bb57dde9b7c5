// Package ocr adapts the ports.OCREngine interface to otiai10/gosseract,
// a cgo binding over Tesseract.
package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/ports"
)

type Engine struct {
	lang string
}

func NewEngine(lang string) *Engine {
	if lang == "" {
		lang = "eng"
	}
	return &Engine{lang: lang}
}

// Recognize runs Tesseract over a cropped score-field image and derives a
// confidence in [0,1] from gosseract's mean word confidence (0-100).
func (e *Engine) Recognize(ctx context.Context, imageBytes []byte) (ports.OCRResult, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.lang); err != nil {
		return ports.OCRResult{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to set ocr language")
	}
	if err := client.SetWhitelist("0123456789"); err != nil {
		return ports.OCRResult{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to set ocr whitelist")
	}
	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return ports.OCRResult{}, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "failed to load score field image")
	}

	text, err := client.Text()
	if err != nil {
		return ports.OCRResult{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "tesseract recognition failed")
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	confidence := 0.0
	if err == nil && len(boxes) > 0 {
		total := 0.0
		for _, b := range boxes {
			total += b.Confidence
		}
		confidence = total / float64(len(boxes)) / 100.0
	}

	return ports.OCRResult{
		Text:       strings.TrimSpace(text),
		Confidence: confidence,
	}, nil
}
