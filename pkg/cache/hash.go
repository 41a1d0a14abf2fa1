package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Keyer derives cache keys for HTTP responses.
type Keyer interface {
	HTTPKey(namespace, url string) string
}

// DefaultKeyer produces keys of the form "http:<namespace>:<url>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the unprefixed keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, url string) string {
	return HTTPKey(namespace, url)
}

// HTTPKey returns the default key for a response fetched from url.
func HTTPKey(namespace, url string) string {
	return "http:" + namespace + ":" + url
}

// ScopedKeyer prefixes every key produced by an inner Keyer. Clients that
// share a Redis or Mongo backend use distinct prefixes to stay isolated.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to [DefaultKeyer] when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, url string) string {
	return k.prefix + k.inner.HTTPKey(namespace, url)
}
