package workflow

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"github.com/olympiadqr/olympiadqr/internal/ports"
)

// tinyPNG returns a minimal valid PNG image, for tests whose worker now
// decodes and crops the stored scan bytes rather than treating them as
// an opaque blob.
func tinyPNG() []byte {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

type fakeObjectStore struct {
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore { return &fakeObjectStore{objects: map[string][]byte{}} }

func (f *fakeObjectStore) key(bucket, key string) string { return bucket + "/" + key }

func (f *fakeObjectStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	f.objects[f.key(bucket, key)] = data
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	return f.objects[f.key(bucket, key)], nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, bucket, key string) error {
	delete(f.objects, f.key(bucket, key))
	return nil
}

type fakeSheetRenderer struct{}

func (fakeSheetRenderer) RenderAnswerSheet(req ports.AnswerSheetRequest) ([]byte, error) {
	return []byte("%PDF-fake-answer-sheet"), nil
}

func (fakeSheetRenderer) RenderBadgeSheet(req ports.BadgeSheetRequest) ([]byte, error) {
	return []byte("%PDF-fake-badge-sheet"), nil
}

// fakeQRDecoder returns a fixed payload regardless of image bytes, letting
// OCR-worker tests control which attempt the scan links to via the
// payload set on construction.
type fakeQRDecoder struct {
	payload string
	err     error
}

func (f fakeQRDecoder) Decode(imageBytes []byte) (string, error) {
	return f.payload, f.err
}

type fakeRasterizer struct{}

func (fakeRasterizer) RasterizeFirstPage(pdfBytes []byte, dpi int) ([]byte, error) {
	return pdfBytes, nil
}

// fakeOCREngine returns a fixed result, letting tests control recognised
// text and confidence without a real OCR binary.
type fakeOCREngine struct {
	result ports.OCRResult
	err    error
}

func (f fakeOCREngine) Recognize(ctx context.Context, imageBytes []byte) (ports.OCRResult, error) {
	return f.result, f.err
}
