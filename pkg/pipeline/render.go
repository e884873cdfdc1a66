package pipeline

import (
	"fmt"

	"github.com/matzehuels/uncalendar/pkg/fonts"
	"github.com/matzehuels/uncalendar/pkg/render"
)

// Render runs the render stage on a calendar text without caching.
func Render(text string, opts Options) (*render.Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	ropts, err := renderOptions(opts)
	if err != nil {
		return nil, err
	}
	return render.Render(text, opts.Width, opts.Height, ropts...)
}

// renderOptions translates pipeline options into renderer options.
func renderOptions(opts Options) ([]render.Option, error) {
	bg, err := render.ParseColor(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	fg, err := render.ParseColor(opts.Foreground)
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}
	f, err := fonts.Load(opts.FontPath)
	if err != nil {
		return nil, err
	}
	return []render.Option{
		render.WithColors(bg, fg),
		render.WithBaseFontSize(opts.BaseFontSize),
		render.WithMarginRatio(opts.MarginRatio),
		render.WithFont(f),
		render.WithLogger(opts.Logger),
	}, nil
}
