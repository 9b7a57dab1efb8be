package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep artifacts of different deployments apart in a shared Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "canvasrender:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ImageKey(url string) string {
	return k.prefix + k.inner.ImageKey(url)
}

func (k *ScopedKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(sceneHash, opts)
}
