package render

import (
	"bytes"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/matzehuels/uncalendar/pkg/errors"
	"github.com/matzehuels/uncalendar/pkg/fonts"
)

// Layout constants of the rendered image.
const (
	DefaultBaseFontSize = 20.0
	DefaultMarginRatio  = 0.1

	YearScale   = 3.0  // year header size relative to the body
	BlockGap    = 20.0 // pixels between the year and the body
	FontStep    = 2.0  // increment of the fit search
	LineSpacing = 1.1  // body line advance relative to the font height
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	background color.Color
	foreground color.Color
	baseSize   float64
	font       *truetype.Font
	margin     float64
	logger     *log.Logger
}

// WithColors sets the background and foreground colors (default white on black).
func WithColors(background, foreground color.Color) Option {
	return func(r *renderer) {
		r.background = background
		r.foreground = foreground
	}
}

// WithBaseFontSize sets the starting size of the fit search (default 20).
func WithBaseFontSize(size float64) Option {
	return func(r *renderer) { r.baseSize = size }
}

// WithFont sets the font used for both the year and the body.
func WithFont(f *truetype.Font) Option {
	return func(r *renderer) { r.font = f }
}

// WithMarginRatio sets the share of the canvas kept free on each side (default 0.1).
func WithMarginRatio(m float64) Option {
	return func(r *renderer) { r.margin = m }
}

// WithLogger enables debug logging of the fit search.
func WithLogger(l *log.Logger) Option {
	return func(r *renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Result is a rendered calendar image.
type Result struct {
	PNG      []byte
	Width    int
	Height   int
	FontSize float64 // body font size chosen by the fit search
}

// PNG renders text and returns only the encoded image.
func PNG(text string, width, height int, opts ...Option) ([]byte, error) {
	res, err := Render(text, width, height, opts...)
	if err != nil {
		return nil, err
	}
	return res.PNG, nil
}

// Render draws text on a width x height canvas and encodes it as PNG.
// The first line of text is the year header, the remaining lines the body.
func Render(text string, width, height int, opts ...Option) (*Result, error) {
	r := renderer{
		background: color.White,
		foreground: color.Black,
		baseSize:   DefaultBaseFontSize,
		margin:     DefaultMarginRatio,
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(&r)
	}

	if err := errors.ValidateCanvas(width, height, r.margin); err != nil {
		return nil, err
	}
	if r.baseSize <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "base font size must be positive, got %v", r.baseSize)
	}
	if r.font == nil {
		f, err := fonts.Default()
		if err != nil {
			return nil, err
		}
		r.font = f
	}

	year, body := SplitText(text)
	maxW := float64(width) * (1 - 2*r.margin)
	maxH := float64(height) * (1 - 2*r.margin)

	size := FitFontSize(r.font, year, body, r.baseSize, maxW, maxH)
	r.logger.Debug("fitted font size", "size", size, "base", r.baseSize, "area_w", maxW, "area_h", maxH)
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidCanvas,
			"no positive font size fits %dx%d (margin %v)", width, height, r.margin)
	}

	data, err := r.draw(year, body, size, width, height)
	if err != nil {
		return nil, err
	}
	return &Result{PNG: data, Width: width, Height: height, FontSize: size}, nil
}

// SplitText separates the year header (first line, trimmed) from the body.
func SplitText(text string) (year, body string) {
	first, rest, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(first), rest
}

// FitFontSize returns the last body size, starting at base and growing by
// FontStep, at which the year (at YearScale) and the body stacked with
// BlockGap fit strictly inside maxW x maxH. If base itself does not fit the
// result is base - FontStep.
func FitFontSize(f *truetype.Font, year, body string, base, maxW, maxH float64) float64 {
	size := base
	for {
		m := measure(f, year, body, size)
		if m.width() < maxW && m.height() < maxH {
			size += FontStep
			continue
		}
		return size - FontStep
	}
}

// stack holds the measured extents of the year and the body.
type stack struct {
	yearW, yearH float64
	bodyW, bodyH float64
}

func (s stack) width() float64  { return max(s.yearW, s.bodyW) }
func (s stack) height() float64 { return s.yearH + BlockGap + s.bodyH }

func measure(f *truetype.Font, year, body string, size float64) stack {
	dc := gg.NewContext(1, 1)
	var s stack

	dc.SetFontFace(newFace(f, size*YearScale))
	s.yearW, s.yearH = dc.MeasureString(year)

	dc.SetFontFace(newFace(f, size))
	s.bodyW, s.bodyH = dc.MeasureMultilineString(body, LineSpacing)
	return s
}

func (r *renderer) draw(year, body string, size float64, width, height int) ([]byte, error) {
	s := measure(r.font, year, body, size)
	w, h := float64(width), float64(height)

	dc := gg.NewContext(width, height)
	dc.SetColor(r.background)
	dc.Clear()
	dc.SetColor(r.foreground)

	yearX := w/2 - s.yearW/2
	yearY := (h - s.height()) / 2
	yearFace := newFace(r.font, size*YearScale)
	dc.SetFontFace(yearFace)
	dc.DrawString(year, yearX, yearY+ascent(yearFace))

	bodyX := w/2 - s.bodyW/2
	bodyY := yearY + s.yearH + BlockGap
	bodyFace := newFace(r.font, size)
	dc.SetFontFace(bodyFace)
	advance := dc.FontHeight() * LineSpacing
	for i, line := range strings.Split(body, "\n") {
		dc.DrawString(line, bodyX, bodyY+float64(i)*advance+ascent(bodyFace))
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

func ascent(face font.Face) float64 {
	return float64(face.Metrics().Ascent) / 64
}
