// Package pdf adapts the ports.SheetRenderer and ports.PDFRasterizer
// interfaces to jung-kurt/gofpdf for answer-sheet/badge layout and
// gen2brain/go-fitz for rasterising scanned PDF uploads.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/olympiadqr/olympiadqr/internal/adapters/qr"
	"github.com/olympiadqr/olympiadqr/internal/apperrors"
	"github.com/olympiadqr/olympiadqr/internal/config"
	"github.com/olympiadqr/olympiadqr/internal/ports"
)

type Renderer struct {
	qrEncoder *qr.Encoder
	qrConfig  config.QRConfig
}

// NewRenderer builds a Renderer that QR-encodes sheet/badge tokens with
// the configured error-correction level, box size, and border rather than
// a hardcoded recovery level.
func NewRenderer(qrConfig config.QRConfig) *Renderer {
	return &Renderer{qrEncoder: qr.NewEncoder(), qrConfig: qrConfig}
}

// RenderAnswerSheet lays out a single A4 answer sheet: title, variant
// number, a score field box at the coordinates the OCR worker will later
// crop, and the sheet token QR code in the top-right corner.
func (r *Renderer) RenderAnswerSheet(req ports.AnswerSheetRequest) ([]byte, error) {
	qrPNG, err := r.qrEncoder.Encode(req.RawSheetToken, r.qrConfig.ErrorCorrection, r.qrConfig.BoxSize, r.qrConfig.Border)
	if err != nil {
		return nil, err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, req.CompetitionName, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 8, fmt.Sprintf("Variant %d", req.VariantNumber), "", 1, "C", false, 0, "")

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	doc.RegisterImageOptionsReader("sheet-qr", imgOpts, bytes.NewReader(qrPNG))
	doc.ImageOptions("sheet-qr", 160, 10, 30, 30, false, imgOpts, 0, "")

	doc.SetDrawColor(0, 0, 0)
	doc.Rect(req.ScoreFieldXMM, req.ScoreFieldYMM, req.ScoreFieldWMM, req.ScoreFieldHMM, "D")
	doc.SetXY(req.ScoreFieldXMM, req.ScoreFieldYMM-6)
	doc.SetFont("Helvetica", "I", 9)
	doc.Cell(req.ScoreFieldWMM, 6, "Score")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to render answer sheet pdf")
	}
	return buf.Bytes(), nil
}

// RenderBadgeSheet lays out one institution's participant badges, three to
// a row and nine (a 3x3 grid) to a page, each carrying a QR code of the
// participant's raw entry token.
func (r *Renderer) RenderBadgeSheet(req ports.BadgeSheetRequest) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, req.InstitutionName, "", 1, "C", false, 0, "")

	const (
		badgeW    = 60.0
		badgeH    = 80.0
		marginX   = 10.0
		marginY   = 20.0
		perRow    = 3
		perPage   = 9
	)

	for i, badge := range req.Badges {
		if i > 0 && i%perPage == 0 {
			doc.AddPage()
		}
		slot := i % perPage
		col := slot % perRow
		row := slot / perRow
		x := marginX + float64(col)*(badgeW+5)
		y := marginY + float64(row)*(badgeH+5)

		doc.Rect(x, y, badgeW, badgeH, "D")
		doc.SetXY(x+2, y+2)
		doc.SetFont("Helvetica", "B", 10)
		doc.MultiCell(badgeW-4, 5, badge.FullName, "", "C", false)
		doc.SetXY(x+2, y+14)
		doc.SetFont("Helvetica", "", 9)
		doc.MultiCell(badgeW-4, 5, badge.School, "", "C", false)

		qrPNG, err := r.qrEncoder.Encode(badge.RawEntryToken, r.qrConfig.ErrorCorrection, r.qrConfig.BoxSize, r.qrConfig.Border)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("badge-qr-%d", i)
		imgOpts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		doc.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(qrPNG))
		doc.ImageOptions(name, x+10, y+30, 40, 40, false, imgOpts, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to render badge sheet pdf")
	}
	return buf.Bytes(), nil
}
