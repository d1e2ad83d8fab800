//go:build fips
// +build fips

// Package suites is the TLS cipher-suite registry.
//
// This file is compiled when the "fips" build tag is specified.
// In FIPS mode, only suites whose AEAD is FIPS 140-3 approved are enabled by
// default. ChaCha20-Poly1305 suites stay in the catalog for lookup.
package suites

func filterDefault(all []*SupportedCipherSuite) []*SupportedCipherSuite {
	out := make([]*SupportedCipherSuite, 0, len(all))
	for _, s := range all {
		if s.AEAD.IsFIPSApproved() {
			out = append(out, s)
		}
	}
	return out
}
