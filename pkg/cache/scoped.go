package cache

// ScopedKeyer prefixes every key of another Keyer, so that several
// deployments can share one Redis instance:
//
//	keyer := NewScopedKeyer(nil, "tagcloud:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

// Prefix returns the scope prepended to every key.
func (k ScopedKeyer) Prefix() string { return k.prefix }

func (k ScopedKeyer) StatsKey(sourceHash string, opts StatsKeyOpts) string {
	return k.prefix + k.inner.StatsKey(sourceHash, opts)
}

func (k ScopedKeyer) ArtifactKey(statsHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(statsHash, opts)
}

func (k ScopedKeyer) SourceKey(url string) string {
	return k.prefix + k.inner.SourceKey(url)
}
