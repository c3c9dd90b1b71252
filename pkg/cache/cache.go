// Package cache stores converted pages so that re-running barnhunt on an
// unchanged drawing skips the external converter.
//
// Entries are keyed by a hash of the materialized SVG and the conversion
// settings (see Keyer). FileCache keeps entries under a directory on disk;
// NullCache disables caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// PageKeyOpts are the conversion settings that affect a converted page.
type PageKeyOpts struct {
	Converter string
	Format    string
}

// Keyer builds cache keys.
type Keyer interface {
	// PageKey returns the key of the page converted from an SVG whose
	// content hash is svgHash.
	PageKey(svgHash string, opts PageKeyOpts) string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PageKey hashes svgHash together with opts.
func (DefaultKeyer) PageKey(svgHash string, opts PageKeyOpts) string {
	return pageKey(svgHash, opts)
}
