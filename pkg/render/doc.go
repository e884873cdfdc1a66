// Package render draws calendar text onto a raster canvas.
//
// # Overview
//
// [Render] takes the text block produced by calendar.Format and draws it on
// a canvas of the requested size: the first line (the year) at three times
// the body font size, and the rest of the block below it, separated by a
// fixed gap. Both parts are centered horizontally on their own and
// vertically as one stack.
//
//	img, err := render.Render(text, 3840, 2160,
//	    render.WithColors(color.White, color.Black),
//	    render.WithMarginRatio(0.1),
//	)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("calendar.png", img.PNG, 0644)
//
// # Font Fitting
//
// [FitFontSize] grows the font from the base size in fixed steps while the
// stack still fits in the drawable area (the canvas minus the margins), then
// steps back once. The search is linear and always ends on the last size
// that fit, or one step below the base size when even that does not.
//
// # Options
//
//   - [WithColors]: background and foreground colors
//   - [WithBaseFontSize]: starting size of the search
//   - [WithFont]: a parsed TrueType font (default: the bundled monospaced font)
//   - [WithMarginRatio]: share of each side kept free
//   - [WithLogger]: debug logging of the fit search
package render
