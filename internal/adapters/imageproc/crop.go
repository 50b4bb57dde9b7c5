// Package imageproc crops and binarizes the score-field region of a scan
// before it reaches the OCR engine (spec §4.H step 3): mm rect -> pixel
// rect at the rasterization DPI, expanded +-10%, then
// grayscale -> CLAHE -> Otsu threshold. Pure standard-library image
// processing, modeled on the decode/encode shape of
// fazt-sh-fazt's internal/services/image package - no pack exemplar
// implements CLAHE or Otsu, so both are hand-rolled here.
package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register JPEG decoding for image.Decode
	"image/png"

	"github.com/olympiadqr/olympiadqr/internal/apperrors"
)

const mmPerInch = 25.4

// claheTileSize is the side length, in pixels, of each local-contrast tile.
const claheTileSize = 32

// claheClipLimit bounds how much any single histogram bin can be boosted,
// the "contrast limited" half of CLAHE.
const claheClipLimit = 4.0

// CropScoreField crops the configured mm rectangle (expanded 10% on every
// side and clamped to the image bounds) out of imageBytes, converts it to
// grayscale, runs CLAHE to even out illumination, binarizes it with an
// Otsu threshold, and re-encodes it as PNG for ports.OCREngine.Recognize.
func CropScoreField(imageBytes []byte, xMM, yMM, wMM, hMM float64, dpi int) ([]byte, error) {
	if dpi <= 0 {
		dpi = 300
	}

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "failed to decode scan image")
	}

	rect := scoreFieldRect(img.Bounds(), xMM, yMM, wMM, hMM, dpi)
	cropped := cropImage(img, rect)
	gray := toGray(cropped)
	clahe(gray, claheTileSize, claheClipLimit)
	binary := otsuThreshold(gray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, binary); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode score field crop")
	}
	return buf.Bytes(), nil
}

// scoreFieldRect converts the configured mm rectangle to a pixel rectangle
// at dpi, expands it 10% on every side, and clamps it to bounds.
func scoreFieldRect(bounds image.Rectangle, xMM, yMM, wMM, hMM float64, dpi int) image.Rectangle {
	mmToPx := func(mm float64) int { return int(mm / mmPerInch * float64(dpi)) }

	x0, y0 := mmToPx(xMM), mmToPx(yMM)
	w, h := mmToPx(wMM), mmToPx(hMM)

	marginX, marginY := int(float64(w)*0.10), int(float64(h)*0.10)
	rect := image.Rect(x0-marginX, y0-marginY, x0+w+marginX, y0+h+marginY)

	return rect.Intersect(bounds)
}

func cropImage(img image.Image, rect image.Rectangle) image.Image {
	if rect.Empty() {
		rect = img.Bounds()
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out
}

func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// clahe applies tile-based contrast-limited adaptive histogram
// equalization in place: the image is divided into tileSize x tileSize
// tiles, each tile's histogram is equalized with excess bin counts above
// clipLimit*meanBinCount redistributed evenly, and each pixel is remapped
// through its tile's cumulative distribution.
func clahe(gray *image.Gray, tileSize int, clipLimit float64) {
	bounds := gray.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}

	for tileY := bounds.Min.Y; tileY < bounds.Max.Y; tileY += tileSize {
		for tileX := bounds.Min.X; tileX < bounds.Max.X; tileX += tileSize {
			tile := image.Rect(tileX, tileY, minInt(tileX+tileSize, bounds.Max.X), minInt(tileY+tileSize, bounds.Max.Y))
			mapping := equalizeHistogram(gray, tile, clipLimit)
			for y := tile.Min.Y; y < tile.Max.Y; y++ {
				for x := tile.Min.X; x < tile.Max.X; x++ {
					old := gray.GrayAt(x, y).Y
					gray.SetGray(x, y, color.Gray{Y: mapping[old]})
				}
			}
		}
	}
}

// equalizeHistogram builds a clipped-and-redistributed cumulative
// distribution mapping for one tile's intensity histogram.
func equalizeHistogram(gray *image.Gray, tile image.Rectangle, clipLimit float64) [256]uint8 {
	var histogram [256]int
	pixelCount := 0
	for y := tile.Min.Y; y < tile.Max.Y; y++ {
		for x := tile.Min.X; x < tile.Max.X; x++ {
			histogram[gray.GrayAt(x, y).Y]++
			pixelCount++
		}
	}
	if pixelCount == 0 {
		var identity [256]uint8
		for i := range identity {
			identity[i] = uint8(i)
		}
		return identity
	}

	clip := int(clipLimit * float64(pixelCount) / 256.0)
	if clip < 1 {
		clip = 1
	}
	excess := 0
	for i, count := range histogram {
		if count > clip {
			excess += count - clip
			histogram[i] = clip
		}
	}
	redistribute := excess / 256
	for i := range histogram {
		histogram[i] += redistribute
	}

	var mapping [256]uint8
	cumulative := 0
	for i, count := range histogram {
		cumulative += count
		mapping[i] = uint8(cumulative * 255 / pixelCount)
	}
	return mapping
}

// otsuThreshold picks the intensity threshold that minimizes intra-class
// variance and returns a pure black/white image.
func otsuThreshold(gray *image.Gray) *image.Gray {
	var histogram [256]int
	bounds := gray.Bounds()
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			histogram[gray.GrayAt(x, y).Y]++
			total++
		}
	}

	sumAll := 0.0
	for i, count := range histogram {
		sumAll += float64(i * count)
	}

	var sumBackground, weightBackground float64
	bestVariance := -1.0
	threshold := 127

	for t := 0; t < 256; t++ {
		weightBackground += float64(histogram[t])
		if weightBackground == 0 {
			continue
		}
		weightForeground := float64(total) - weightBackground
		if weightForeground == 0 {
			break
		}
		sumBackground += float64(t * histogram[t])
		meanBackground := sumBackground / weightBackground
		meanForeground := (sumAll - sumBackground) / weightForeground

		betweenVariance := weightBackground * weightForeground * (meanBackground - meanForeground) * (meanBackground - meanForeground)
		if betweenVariance > bestVariance {
			bestVariance = betweenVariance
			threshold = t
		}
	}

	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if int(gray.GrayAt(x, y).Y) > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
