// Package fonts provides the font used to draw calendar images.
//
// The calendar text is laid out in fixed-width columns, so only monospaced
// fonts keep the weeks aligned. Go Mono ships inside golang.org/x/image and
// is compiled into the binary, making the default available without any
// file on disk.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/matzehuels/uncalendar/pkg/errors"
)

// DefaultName is the family name of the bundled font.
const DefaultName = "Go Mono"

// Parsed default font (computed once on first access).
var (
	defaultFont     *truetype.Font
	defaultFontErr  error
	defaultFontOnce sync.Once
)

// DefaultTTF returns the raw TTF data of the bundled font.
func DefaultTTF() []byte {
	return gomono.TTF
}

// Default returns the bundled font, parsed once and shared.
// A *truetype.Font is read-only after parsing, so sharing it is safe.
func Default() (*truetype.Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = Parse(gomono.TTF)
	})
	return defaultFont, defaultFontErr
}

// Parse parses TrueType data.
func Parse(data []byte) (*truetype.Font, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFont, "font data is empty")
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "parse font")
	}
	return f, nil
}

// Load reads and parses the font at path. An empty path selects the bundled
// default font.
func Load(path string) (*truetype.Font, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "font %s", path)
	}
	return f, nil
}
