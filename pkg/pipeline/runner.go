package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uncalendar/pkg/cache"
	"github.com/matzehuels/uncalendar/pkg/observability"
	"github.com/matzehuels/uncalendar/pkg/render"
)

// Cache key types reported to observability hooks.
const (
	keyTypeText     = "text"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	sheet, buildHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Calendar = sheet.Calendar
	result.Text = sheet.Text
	result.HideProbability = sheet.HideProbability
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.VisibleDays = sheet.Calendar.Days()
	result.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built calendar",
		"year", opts.Year,
		"hide", fmt.Sprintf("%.2f", sheet.HideProbability),
		"visible", result.Stats.VisibleDays,
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Render
	renderStart := time.Now()
	img, renderHit, err := r.RenderWithCacheInfo(ctx, sheet.Text, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.PNG = img.PNG
	result.FontSize = img.FontSize
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.ImageBytes = len(img.PNG)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered image",
		"size", fmt.Sprintf("%dx%d", img.Width, img.Height),
		"font", img.FontSize,
		"bytes", len(img.PNG),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo runs the build stage with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*Sheet, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}

	rng := opts.Rand()
	hide := resolveHide(opts, rng)
	observability.Pipeline().OnBuildStart(ctx, opts.Year, hide)
	start := time.Now()

	var cacheKey string
	if opts.Cacheable() {
		cacheKey = r.Keyer.TextKey(opts.Year, opts.TextKeyOpts(hide))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				var sheet Sheet
				if err := json.Unmarshal(data, &sheet); err == nil {
					observability.Cache().OnCacheHit(ctx, keyTypeText)
					observability.Pipeline().OnBuildComplete(ctx, opts.Year, sheet.Calendar.Days(), time.Since(start), nil)
					return &sheet, true, nil
				}
			} else if err != nil {
				r.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
			}
			observability.Cache().OnCacheMiss(ctx, keyTypeText)
		}
	}

	sheet, err := buildSheet(opts.Year, hide, rng)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, opts.Year, 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnBuildComplete(ctx, opts.Year, sheet.Calendar.Days(), time.Since(start), nil)

	if cacheKey != "" {
		r.store(ctx, cacheKey, keyTypeText, sheet, cache.TTLText)
	}
	return sheet, false, nil
}

// BuildSheet is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) BuildSheet(ctx context.Context, opts Options) (*Sheet, error) {
	sheet, _, err := r.BuildWithCacheInfo(ctx, opts)
	return sheet, err
}

// artifactEntry is the cached form of a rendered image.
type artifactEntry struct {
	PNG      []byte  `json:"png"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	FontSize float64 `json:"font_size"`
}

// RenderWithCacheInfo renders text with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, text string, opts Options) (*render.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	var cacheKey string
	if opts.Cacheable() {
		cacheKey = r.Keyer.ArtifactKey(cache.HashString(text), opts.ArtifactKeyOpts())
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				var e artifactEntry
				if err := json.Unmarshal(data, &e); err == nil && len(e.PNG) > 0 {
					observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
					return &render.Result{PNG: e.PNG, Width: e.Width, Height: e.Height, FontSize: e.FontSize}, true, nil
				}
			}
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		}
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Width, opts.Height)
	start := time.Now()
	res, err := Render(text, opts)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnRenderComplete(ctx, res.FontSize, len(res.PNG), time.Since(start), nil)

	if cacheKey != "" {
		r.store(ctx, cacheKey, keyTypeArtifact, artifactEntry{
			PNG:      res.PNG,
			Width:    res.Width,
			Height:   res.Height,
			FontSize: res.FontSize,
		}, cache.TTLArtifact)
	}
	return res, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, text string, opts Options) (*render.Result, error) {
	res, _, err := r.RenderWithCacheInfo(ctx, text, opts)
	return res, err
}

// store writes v to the cache. Failures are logged, never returned: a
// broken cache must not fail a render.
func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
