// Package pkg provides the core libraries for uncalendar, the useless calendar.
//
// # Overview
//
// uncalendar prints a year calendar in which a random share of the days has
// simply gone missing, and renders it as a large PNG suitable for a
// wallpaper. The pkg directory is organized into three areas:
//
//  1. Domain logic: [calendar] (grids and text layout), [render] (PNG)
//  2. Orchestration: [pipeline] (build → render with caching)
//  3. Infrastructure: [cache], [config], [fonts], [errors], [observability],
//     [buildinfo]
//
// # Architecture
//
// The data flow for one calendar:
//
//	year, hide probability, seed
//	         ↓
//	    [calendar] package (month grids, hidden days blanked)
//	         ↓
//	    [calendar] package (66-column text block)
//	         ↓
//	    [render] package (font fitted to the canvas)
//	         ↓
//	    PNG bytes
//
// # Quick Start
//
// Render a calendar with a fixed seed:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Year:            2026,
//	    HideProbability: pipeline.Hide(0.25),
//	    Seed:            42,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(res.Text)
//	os.WriteFile("calendar.png", res.PNG, 0644)
//
// Use the lower-level packages directly:
//
//	rng := rand.New(rand.NewPCG(42, 42))
//	c, _ := calendar.Build(2026, 0.25, rng)
//	text := calendar.Format(c, 0.25)
//	png, _ := render.PNG(text, 1920, 1080)
//
// # Main Packages
//
// [calendar] - Monday-first month grids and the fixed-width quarter layout.
// Formatting is pure; the same Calendar always yields the same text.
//
// [render] - Draws the text block centered on a canvas, growing the font
// until the block no longer fits inside the margins.
//
// [pipeline] - Options with defaults and validation, and a Runner that caches
// seeded builds and renders. Used by both the CLI and the HTTP server.
//
// [cache] - Cache interface with file, Redis and null backends, plus the
// Keyer that derives cache keys from pipeline inputs.
//
// [config] - TOML configuration for the server, canvas and cache backend.
//
// [fonts] - The bundled monospaced font and TTF loading.
//
// [errors] - Error codes with user-facing messages and input validation.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/calendar/...     # Specific package
//
// [calendar]: https://pkg.go.dev/github.com/matzehuels/uncalendar/pkg/calendar
// [render]: https://pkg.go.dev/github.com/matzehuels/uncalendar/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/uncalendar/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/uncalendar/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/uncalendar/pkg/config
// [fonts]: https://pkg.go.dev/github.com/matzehuels/uncalendar/pkg/fonts
// [errors]: https://pkg.go.dev/github.com/matzehuels/uncalendar/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/uncalendar/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/uncalendar/pkg/buildinfo
package pkg
