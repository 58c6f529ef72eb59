package export

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/perfectday/pkg/domain/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Layout in CSS pixels at scale 1
const (
	itineraryWidth = 600
	paperPadding   = 30
	timeColumn     = 80
	rowPadding     = 12
	headingGap     = 18
	subHeadingGap  = 10

	headingSize    = 24
	subHeadingSize = 19
	bodySize       = 16
)

// MaxPixels caps the canvas area of one render. Plan text is free-form, so
// without a cap a single long activity decides how much memory a capture
// allocates.
const MaxPixels = 32 << 20

// ErrCanvasTooLarge is returned when the laid out itinerary exceeds MaxPixels
var ErrCanvasTooLarge = goerr.New("itinerary too large to render")

var (
	headingColor    = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	subHeadingColor = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	timeColor       = color.RGBA{R: 0x00, G: 0x7b, B: 0xff, A: 0xff}
	activityColor   = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	ruleColor       = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
)

type fontSet struct {
	regular *opentype.Font
	bold    *opentype.Font
}

var loadFonts = sync.OnceValues(func() (*fontSet, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse regular font")
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse bold font")
	}
	return &fontSet{regular: regular, bold: bold}, nil
})

// Itinerary is the rendered view of a confirmed plan: a "Final Itinerary"
// heading, the city sub-heading and one row per item with the time column
// followed by the word-wrapped activity.
type Itinerary struct {
	city  string
	items []model.ItineraryItem
}

// NewItinerary builds the render target for a confirmed snapshot. It returns
// nil when the snapshot is empty, since nothing is displayed then.
func NewItinerary(meta model.LocationMeta, confirmed []model.ItineraryItem) Target {
	if len(confirmed) == 0 {
		return nil
	}
	items := make([]model.ItineraryItem, len(confirmed))
	copy(items, confirmed)
	return &Itinerary{city: meta.City, items: items}
}

type faces struct {
	heading    font.Face
	subHeading font.Face
	time       font.Face
	activity   font.Face
}

func newFaces(fonts *fontSet, scale float64) (*faces, error) {
	build := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72 * scale,
			Hinting: font.HintingFull,
		})
	}

	var (
		fc  faces
		err error
	)
	if fc.heading, err = build(fonts.bold, headingSize); err != nil {
		return nil, goerr.Wrap(err, "failed to create heading face")
	}
	if fc.subHeading, err = build(fonts.regular, subHeadingSize); err != nil {
		return nil, goerr.Wrap(err, "failed to create sub-heading face")
	}
	if fc.time, err = build(fonts.bold, bodySize); err != nil {
		return nil, goerr.Wrap(err, "failed to create time face")
	}
	if fc.activity, err = build(fonts.regular, bodySize); err != nil {
		return nil, goerr.Wrap(err, "failed to create activity face")
	}
	return &fc, nil
}

func (fc *faces) Close() {
	for _, f := range []font.Face{fc.heading, fc.subHeading, fc.time, fc.activity} {
		if f != nil {
			_ = f.Close()
		}
	}
}

type textOp struct {
	face     font.Face
	text     string
	color    color.Color
	x, top   int
	ascent   int
	advanceY int
}

type ruleOp struct {
	y, height int
}

// Render lays the itinerary out at scale and draws it onto a transparent canvas.
func (v *Itinerary) Render(ctx context.Context, scale float64) (*image.RGBA, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, goerr.New("invalid render scale", goerr.V("scale", scale))
	}

	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	fc, err := newFaces(fonts, scale)
	if err != nil {
		return nil, err
	}
	defer fc.Close()

	px := func(n int) int { return int(math.Round(float64(n) * scale)) }
	width := px(itineraryWidth)
	pad := px(paperPadding)
	left := pad
	activityLeft := pad + px(timeColumn)
	activityWidth := width - pad - activityLeft

	var (
		texts []textOp
		rules []ruleOp
	)
	text := func(face font.Face, s string, c color.Color, x, top int) int {
		m := face.Metrics()
		op := textOp{face: face, text: s, color: c, x: x, top: top, ascent: m.Ascent.Ceil(), advanceY: m.Height.Ceil()}
		texts = append(texts, op)
		return op.advanceY
	}

	y := pad
	y += text(fc.heading, "Final Itinerary", headingColor, left, y)
	y += px(headingGap)
	y += text(fc.subHeading, "Your Perfect Day in "+v.city, subHeadingColor, left, y)
	y += px(subHeadingGap)

	ruleHeight := max(1, px(1))
	for _, item := range v.items {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "rendering interrupted")
		}

		y += px(rowPadding)
		timeHeight := text(fc.time, item.Time, timeColor, left, y)

		activityHeight := 0
		for _, line := range wrapText(fc.activity, item.Activity, activityWidth) {
			activityHeight += text(fc.activity, line, activityColor, activityLeft, y+activityHeight)
			if err := checkCanvas(width, y+activityHeight); err != nil {
				return nil, err
			}
		}

		y += max(timeHeight, activityHeight)
		y += px(rowPadding)
		rules = append(rules, ruleOp{y: y, height: ruleHeight})
		y += ruleHeight
	}
	y += pad
	if err := checkCanvas(width, y); err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, y))
	for _, r := range rules {
		draw.Draw(canvas, image.Rect(left, r.y, width-pad, r.y+r.height), image.NewUniform(ruleColor), image.Point{}, draw.Src)
	}
	for _, op := range texts {
		if op.text == "" {
			continue
		}
		d := font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(op.color),
			Face: op.face,
			Dot:  fixed.P(op.x, op.top+op.ascent),
		}
		d.DrawString(op.text)
	}

	return canvas, nil
}

func checkCanvas(width, height int) error {
	if int64(width)*int64(height) > MaxPixels {
		return goerr.Wrap(ErrCanvasTooLarge, "canvas exceeds pixel budget",
			goerr.V("width", width), goerr.V("height", height), goerr.V("max_pixels", MaxPixels))
	}
	return nil
}

// wrapText breaks s into lines no wider than maxWidth pixels. Explicit
// newlines are kept and words wider than a line are split by rune.
func wrapText(face font.Face, s string, maxWidth int) []string {
	fits := func(line string) bool {
		return font.MeasureString(face, line).Ceil() <= maxWidth
	}

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if fits(candidate) {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			if fits(word) {
				current = word
				continue
			}
			chunks := splitWord(word, fits)
			lines = append(lines, chunks[:len(chunks)-1]...)
			current = chunks[len(chunks)-1]
		}
		lines = append(lines, current)
	}
	return lines
}

func splitWord(word string, fits func(string) bool) []string {
	var chunks []string
	var current []rune
	for _, r := range word {
		next := append(current, r)
		if len(current) > 0 && !fits(string(next)) {
			chunks = append(chunks, string(current))
			next = []rune{r}
		}
		current = next
	}
	return append(chunks, string(current))
}
