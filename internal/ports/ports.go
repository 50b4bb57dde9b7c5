// Package ports declares the external interfaces the workflow layer
// consumes (spec §6): object storage, QR encode/decode, PDF rasterisation,
// OCR, sheet rendering, and the async job queue. Concrete adapters live
// under internal/adapters.
package ports

import "context"

// ObjectStore is the bucket/key blob store backing answer sheets, scans,
// and participant documents.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
}

// QREncoder renders a payload string as a PNG QR code image.
type QREncoder interface {
	Encode(payload string, errorCorrection string, boxSize, border int) ([]byte, error)
}

// QRDecoder attempts to find and decode a single QR code in a raster image.
type QRDecoder interface {
	Decode(imageBytes []byte) (string, error)
}

// PDFRasterizer converts the first page of a PDF to a raster image at the
// given DPI, used when a scan upload is a PDF rather than an image.
type PDFRasterizer interface {
	RasterizeFirstPage(pdfBytes []byte, dpi int) ([]byte, error)
}

// OCRResult is one OCR pass's recognised text and confidence.
type OCRResult struct {
	Text       string
	Confidence float64
}

// OCREngine recognises text within a cropped, pre-processed image region.
type OCREngine interface {
	Recognize(ctx context.Context, imageBytes []byte) (OCRResult, error)
}

// SheetRenderer produces the answer-sheet and badge PDFs described in
// spec §6's "Answer sheet PDF" / "Badge PDF" sections.
type SheetRenderer interface {
	RenderAnswerSheet(req AnswerSheetRequest) ([]byte, error)
	RenderBadgeSheet(req BadgeSheetRequest) ([]byte, error)
}

// AnswerSheetRequest carries everything the renderer needs to lay out one
// A4 answer sheet: title, the raw sheet token (QR'd top-right), and the
// score field rectangle (mm) the OCR worker will later crop.
type AnswerSheetRequest struct {
	CompetitionName string
	VariantNumber   int
	RawSheetToken   string
	ScoreFieldXMM   float64
	ScoreFieldYMM   float64
	ScoreFieldWMM   float64
	ScoreFieldHMM   float64
}

// BadgeSheetRequest carries one institution's badges for a 3x3-grid page.
type BadgeSheetRequest struct {
	InstitutionName string
	Badges          []Badge
}

// Badge is one participant's badge: name, school, and raw entry token.
type Badge struct {
	FullName     string
	School       string
	RawEntryToken string
}

// JobQueue enqueues the asynchronous OCR job keyed by scan id (spec §6,
// "one named job process_scan_ocr(scan_id)").
type JobQueue interface {
	Enqueue(ctx context.Context, jobName string, payload map[string]interface{}) (taskID string, err error)
}
