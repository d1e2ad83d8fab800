//go:build !fips
// +build !fips

// Package suites is the TLS cipher-suite registry.
//
// This file is compiled when the "fips" build tag is NOT specified.
// In standard mode, every catalog suite is enabled by default.
package suites

func filterDefault(all []*SupportedCipherSuite) []*SupportedCipherSuite {
	return all
}
