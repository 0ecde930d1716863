package cache

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can share
// one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "spiderglyph:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses the
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(datasetHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(datasetHash, opts)
}

// SessionKey generates a prefixed session key.
func (k *ScopedKeyer) SessionKey(id string) string {
	return k.prefix + k.inner.SessionKey(id)
}
