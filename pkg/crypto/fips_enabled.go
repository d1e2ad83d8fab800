//go:build fips
// +build fips

// Package crypto provides the cryptographic-primitive handles used by suitekit.
//
// This file is compiled when the "fips" build tag is specified.
// In FIPS mode, only FIPS 140-3 approved AEADs are enabled by default.
package crypto

// FIPSMode reports whether the binary was built in FIPS mode.
// When true, ChaCha20-Poly1305 suites are left out of the default list.
func FIPSMode() bool { return true }
