package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis database without reading each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "uncalendar:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TextKey generates a prefixed key for calendar text caching.
func (k *ScopedKeyer) TextKey(year int, opts TextKeyOpts) string {
	return k.prefix + k.inner.TextKey(year, opts)
}

// ArtifactKey generates a prefixed key for rendered image caching.
func (k *ScopedKeyer) ArtifactKey(textHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(textHash, opts)
}
