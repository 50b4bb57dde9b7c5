// Package qr adapts the ports.QREncoder and ports.QRDecoder interfaces to
// skip2/go-qrcode for generation and makiuchi-d/gozxing for decoding
// scanned sheet images.
package qr

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	qrencode "github.com/skip2/go-qrcode"

	"github.com/makiuchi-d/gozxing"
	qrdecode "github.com/makiuchi-d/gozxing/qrcode"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

var levels = map[string]qrencode.RecoveryLevel{
	"L": qrencode.Low,
	"M": qrencode.Medium,
	"Q": qrencode.High,
	"H": qrencode.Highest,
}

// Encode renders payload as a PNG QR code. boxSize is the pixel size of one
// module; border is currently honoured by the underlying library's default
// quiet zone rather than a configurable margin.
func (e *Encoder) Encode(payload string, errorCorrection string, boxSize, border int) ([]byte, error) {
	level, ok := levels[errorCorrection]
	if !ok {
		level = qrencode.Medium
	}
	if boxSize <= 0 {
		boxSize = 8
	}

	// A negative size asks go-qrcode for -size pixels per module.
	png, err := qrencode.Encode(payload, level, -boxSize)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode qr code")
	}
	return png, nil
}

type Decoder struct {
	reader *qrdecode.QRCodeReader
}

func NewDecoder() *Decoder {
	return &Decoder{reader: qrdecode.NewQRCodeReader()}
}

// Decode locates and decodes a single QR code within an arbitrary raster
// image (a photographed or scanned answer sheet).
func (d *Decoder) Decode(imageData []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeValidation, "failed to decode scan image")
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeValidation, "failed to binarize scan image")
	}

	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrorTypeValidation, "no qr code found on scan")
	}

	return result.GetText(), nil
}
