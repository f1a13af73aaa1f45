package cache

// ScopedKeyer wraps a Keyer with a prefix so several configurations can
// share one backend without colliding, e.g. one namespace per database
// file:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "sqlite:complexes.db:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(complexHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(complexHash, opts)
}

// SceneKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) SceneKey(complexHash, materialsHash string, layout LayoutKeyOpts, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(complexHash, materialsHash, layout, opts)
}
