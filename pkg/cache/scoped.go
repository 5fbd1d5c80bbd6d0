package cache

// ScopedKeyer wraps a Keyer with a prefix so that several projects can share
// one backend without colliding:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "compcheck:"+Hash([]byte(root))[:12]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RegistryKey generates a prefixed registry key.
func (k *ScopedKeyer) RegistryKey(fingerprint string, opts RegistryKeyOpts) string {
	return k.prefix + k.inner.RegistryKey(fingerprint, opts)
}
