package export

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
)

// EncodePNG encodes the bitmap as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrEncodeFailed, err), "failed to encode PNG")
	}
	return buf.Bytes(), nil
}

// EncodePDF places the bitmap on a single portrait A4 page in millimetre
// units. The image spans the full page width and keeps its aspect ratio, so
// its height is bitmapHeight * pageWidth / bitmapWidth. A bitmap taller than
// the page is clipped by the page edge.
func EncodePDF(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, goerr.Wrap(model.ErrEncodeFailed, "empty bitmap")
	}

	raw, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreator("perfectday", true)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	height := DocumentImageHeight(bounds.Dx(), bounds.Dy(), pageWidth)

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("itinerary", opt, bytes.NewReader(raw))
	pdf.ImageOptions("itinerary", 0, 0, pageWidth, height, false, opt, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrEncodeFailed, err), "failed to encode PDF")
	}
	return buf.Bytes(), nil
}

// DocumentImageHeight is the placed image height for a bitmap of the given
// pixel size scaled to pageWidth.
func DocumentImageHeight(bitmapWidth, bitmapHeight int, pageWidth float64) float64 {
	return float64(bitmapHeight) * pageWidth / float64(bitmapWidth)
}
