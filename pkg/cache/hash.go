package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex SHA-256 of data. Drawings and materialized pages are
// identified by their Hash.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// pageKey returns "page:" followed by the hash of svgHash and the settings.
// Parts are NUL-terminated so adjacent values cannot run together.
func pageKey(svgHash string, opts PageKeyOpts) string {
	h := sha256.New()
	for _, part := range []string{svgHash, opts.Converter, opts.Format} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "page:" + hex.EncodeToString(h.Sum(nil))
}
