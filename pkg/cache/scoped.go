package cache

// ScopedKeyer wraps a Keyer with a prefix, so several services can share
// one backend without colliding.
//
// Example usage:
//
//	// Server keys live under their own namespace
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "texgraph:serve:")
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

// RenderKey generates a prefixed key for rendered text.
func (k *ScopedKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(sceneHash, opts)
}

// PreviewKey generates a prefixed key for previews.
func (k *ScopedKeyer) PreviewKey(dotHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(dotHash, opts)
}
