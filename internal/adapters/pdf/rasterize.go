package pdf

import (
	"bytes"
	"image/png"

	fitz "github.com/gen2brain/go-fitz"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

type Rasterizer struct{}

func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// RasterizeFirstPage converts page 0 of pdfBytes to a PNG at the given DPI,
// used when a scan upload is a PDF rather than a photographed image.
func (r *Rasterizer) RasterizeFirstPage(pdfBytes []byte, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = 300
	}

	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "failed to open scanned pdf")
	}
	defer doc.Close()

	img, err := doc.ImageDPI(0, float64(dpi))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "failed to rasterize scanned pdf")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode rasterized page")
	}
	return buf.Bytes(), nil
}
