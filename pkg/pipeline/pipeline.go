// Package pipeline provides the calendar pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Build: draw the hide probability, build the month grids and format
//     them as the fixed-width text block
//  2. Render: fit the text onto the canvas and encode it as PNG
//
// Each stage can be run on its own or as part of the complete pipeline.
// Seeded runs are deterministic and are cached per stage; unseeded runs
// never touch the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Year: 2026})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("uncalendar_2026.png", result.PNG, 0o644)
package pipeline

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uncalendar/pkg/cache"
	"github.com/matzehuels/uncalendar/pkg/calendar"
	"github.com/matzehuels/uncalendar/pkg/errors"
	"github.com/matzehuels/uncalendar/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels (4K UHD).
	DefaultWidth = 3840

	// DefaultHeight is the default canvas height in pixels (4K UHD).
	DefaultHeight = 2160

	// DefaultBackground is the default canvas color.
	DefaultBackground = "white"

	// DefaultForeground is the default text color.
	DefaultForeground = "black"

	// DefaultBaseFontSize is where the font fit search starts.
	DefaultBaseFontSize = render.DefaultBaseFontSize

	// DefaultMarginRatio is the default margin per side as a fraction of the
	// canvas dimension.
	DefaultMarginRatio = render.DefaultMarginRatio

	// FormatPNG is the only artifact format.
	FormatPNG = "png"
)

// DefaultYear returns the year rendered when none is given: next year.
func DefaultYear() int {
	return time.Now().Year() + 1
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Build options
	Year int `json:"year,omitempty"`
	// HideProbability is drawn uniformly from [0, 1) when nil.
	HideProbability *float64 `json:"hide_probability,omitempty"`
	// Seed makes the run reproducible. Zero means a fresh random source.
	Seed    uint64 `json:"seed,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Render options
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	Background   string  `json:"background,omitempty"`
	Foreground   string  `json:"foreground,omitempty"`
	BaseFontSize float64 `json:"base_font_size,omitempty"`
	MarginRatio  float64 `json:"margin_ratio,omitempty"`
	FontPath     string  `json:"font,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Hide returns a pointer to p, for setting Options.HideProbability inline.
func Hide(p float64) *float64 {
	return &p
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Calendar        calendar.Calendar
	Text            string
	PNG             []byte
	HideProbability float64
	FontSize        float64

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VisibleDays int
	ImageBytes  int
	BuildTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the calendar text came from cache
	RenderHit bool // Whether the image came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild validates and sets defaults for the build stage.
func (o *Options) ValidateForBuild() error {
	if o.Year == 0 {
		o.Year = DefaultYear()
	}
	if err := errors.ValidateYear(o.Year); err != nil {
		return err
	}
	if o.HideProbability != nil {
		if err := errors.ValidateProbability("hide probability", *o.HideProbability); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForRender validates and sets defaults for the render stage.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.BaseFontSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "base font size must be positive, got %v", o.BaseFontSize)
	}
	if err := errors.ValidateCanvas(o.Width, o.Height, o.MarginRatio); err != nil {
		return err
	}
	if _, err := render.ParseColor(o.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if _, err := render.ParseColor(o.Foreground); err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	return nil
}

// SetRenderDefaults fills unset render fields. Zero values select defaults.
func (o *Options) SetRenderDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Foreground == "" {
		o.Foreground = DefaultForeground
	}
	if o.BaseFontSize == 0 {
		o.BaseFontSize = DefaultBaseFontSize
	}
	if o.MarginRatio == 0 {
		o.MarginRatio = DefaultMarginRatio
	}
	o.setLoggerDefault()
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Cacheable reports whether the run is deterministic and may use the cache.
func (o *Options) Cacheable() bool {
	return o.Seed != 0
}

// Rand returns the random source for the run: seeded when Seed is set,
// otherwise freshly seeded from the global source.
func (o *Options) Rand() *rand.Rand {
	if o.Seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(o.Seed, o.Seed^0xdeadbeef))
}

// TextKeyOpts returns cache key options for the build stage.
func (o *Options) TextKeyOpts(hide float64) cache.TextKeyOpts {
	return cache.TextKeyOpts{Hide: hide, Seed: o.Seed}
}

// ArtifactKeyOpts returns cache key options for the render stage.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       FormatPNG,
		Width:        o.Width,
		Height:       o.Height,
		Background:   o.Background,
		Foreground:   o.Foreground,
		BaseFontSize: o.BaseFontSize,
		MarginRatio:  o.MarginRatio,
		Font:         o.FontPath,
	}
}
