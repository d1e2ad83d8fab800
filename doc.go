// Package suitekit is a TLS cipher-suite registry and negotiation engine.
//
// suitekit holds the static catalog of cipher suites a TLS stack supports,
// the filters that narrow it by protocol version and certificate key type,
// and the two selection policies (server preference and client preference)
// that pick one suite from what a peer offered. It also decides whether a
// session may resume under a newly negotiated suite.
//
// # Quick Start
//
// Picking a suite directly from the catalog:
//
//	import "github.com/sara-star-quant/suitekit/pkg/suites"
//
//	local := suites.ReduceGivenVersion(suites.DefaultCipherSuites(), suites.TLS13)
//	chosen := suites.ChoosePreferringServer(offered, local)
//	if chosen == nil {
//		// no shared cipher suite
//	}
//
// Running the whole server-side flow with logging, metrics and tracing:
//
//	import "github.com/sara-star-quant/suitekit/pkg/negotiate"
//
//	engine, _ := negotiate.New(negotiate.DefaultConfig())
//	res, err := engine.Negotiate(ctx, negotiate.Request{...})
//
// # Package Structure
//
//   - pkg/suites: Algorithm enumerations, suite descriptors, the catalog, filters, policies, resumption
//   - pkg/crypto: Hash, HKDF and AEAD handles plus the TLS 1.2 record builders
//   - pkg/kx: Key-exchange named groups, including ML-KEM hybrids, and group selection
//   - pkg/negotiate: YAML configuration and the negotiation Engine with its HTTP API
//   - pkg/metrics: Structured logging, Prometheus metrics, tracing and health checks
//   - internal/constants: Protocol versions and key, IV and record sizes
//   - internal/errors: Sentinel errors and wrapper types
//
// The suitectl command (cmd/suitectl) lists the catalog, runs negotiations
// from the command line, probes remote servers and serves the HTTP API.
//
// # FIPS Mode
//
// Building with -tags fips restricts the default suite list and default
// groups to FIPS 140-3 approved algorithms and makes a failed power-on
// self-test fatal:
//
//	go build -tags fips ./...
//
// # Testing
//
//	go test ./...                                  # All tests
//	go test -fuzz=FuzzParseConfig ./test/fuzz/     # Fuzz tests
//	go test -bench=. ./test/benchmark              # Benchmarks
//	go test ./test/integration                     # End-to-end tests
//
// # References
//
//   - RFC 8446: The Transport Layer Security (TLS) Protocol Version 1.3
//   - RFC 5246: The Transport Layer Security (TLS) Protocol Version 1.2
//   - RFC 5288: AES Galois Counter Mode (GCM) Cipher Suites for TLS
//   - RFC 7905: ChaCha20-Poly1305 Cipher Suites for TLS
//   - RFC 5869: HMAC-based Extract-and-Expand Key Derivation Function (HKDF)
package suitekit
