// Package cache stores rendered calendars between requests.
//
// Rendering is random by default, so only seeded runs are cacheable: with a
// fixed seed, year and hide probability the grid, the text and the image are
// all deterministic. The pipeline caches two artifacts per run:
//
//   - calendar text, keyed by year, hide probability and seed
//   - PNG images, keyed by the text hash and the render options
//
// Backends:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLs per artifact kind.
const (
	TTLText     = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// TextKeyOpts identifies a deterministic calendar text.
type TextKeyOpts struct {
	Hide float64 `json:"hide"`
	Seed uint64  `json:"seed"`
}

// ArtifactKeyOpts identifies a rendering of a calendar text.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	Background   string  `json:"background"`
	Foreground   string  `json:"foreground"`
	BaseFontSize float64 `json:"base_font_size"`
	MarginRatio  float64 `json:"margin_ratio"`
	Font         string  `json:"font,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	TextKey(year int, opts TextKeyOpts) string
	ArtifactKey(textHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TextKey generates a key for calendar text caching.
func (DefaultKeyer) TextKey(year int, opts TextKeyOpts) string {
	return hashKey("text", year, opts)
}

// ArtifactKey generates a key for rendered image caching.
func (DefaultKeyer) ArtifactKey(textHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", textHash, opts)
}
