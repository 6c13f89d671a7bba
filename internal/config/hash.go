package config

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Digest is a 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by deps, in order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint digests every setting that changes what a check produces.
// Trace and rendering settings are left out.
func (c Config) Fingerprint() Digest {
	var b strings.Builder
	fmt.Fprintf(&b, "check_types=%t\nint_width=%d\nptr_width=%d\n", c.Arena.CheckTypes, c.Arena.IntWidth, c.Arena.PtrWidth)
	fmt.Fprintf(&b, "passes=%s\nmax_diagnostics=%d\n", strings.Join(c.Driver.Passes, ","), c.Driver.MaxDiagnostics)
	return sha256.Sum256([]byte(b.String()))
}
