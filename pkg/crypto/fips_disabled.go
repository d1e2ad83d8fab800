//go:build !fips
// +build !fips

// Package crypto provides the cryptographic-primitive handles used by suitekit.
//
// This file is compiled when the "fips" build tag is NOT specified.
// In standard mode, every AEAD in the catalog is available.
package crypto

// FIPSMode reports whether the binary was built in FIPS mode.
// When false, AES-GCM and ChaCha20-Poly1305 suites are all enabled by default.
func FIPSMode() bool { return false }
