// Package constants defines protocol versions and the fixed lengths used by the
// suitekit cipher-suite registry.
//
// Values follow RFC 5246 (TLS 1.2), RFC 5288 (AES-GCM for TLS), RFC 7905
// (ChaCha20-Poly1305 for TLS) and RFC 8446 (TLS 1.3).
package constants

import "fmt"

// ProtocolVersion is a TLS protocol version as it appears on the wire.
type ProtocolVersion uint16

// Protocol versions. Only TLS12 and TLS13 are negotiable; the others exist so
// that callers can name what a peer offered.
const (
	VersionSSL30 ProtocolVersion = 0x0300
	VersionTLS10 ProtocolVersion = 0x0301
	VersionTLS11 ProtocolVersion = 0x0302
	VersionTLS12 ProtocolVersion = 0x0303
	VersionTLS13 ProtocolVersion = 0x0304
)

const (
	// LatestVersion is the newest version this registry carries suites for.
	LatestVersion = VersionTLS13

	// PriorVersion is the version immediately before LatestVersion.
	PriorVersion = VersionTLS12
)

var versionNames = map[ProtocolVersion]string{
	VersionSSL30: "SSLv3",
	VersionTLS10: "TLSv1.0",
	VersionTLS11: "TLSv1.1",
	VersionTLS12: "TLSv1.2",
	VersionTLS13: "TLSv1.3",
}

// String returns the conventional name of the version.
func (v ProtocolVersion) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%04x)", uint16(v))
}

// ParseVersion maps a name such as "TLSv1.3", "tls13" or "1.2" to a version.
func ParseVersion(s string) (ProtocolVersion, bool) {
	switch s {
	case "TLSv1.3", "tls13", "TLS13", "1.3":
		return VersionTLS13, true
	case "TLSv1.2", "tls12", "TLS12", "1.2":
		return VersionTLS12, true
	case "TLSv1.1", "tls11", "TLS11", "1.1":
		return VersionTLS11, true
	case "TLSv1.0", "tls10", "TLS10", "1.0":
		return VersionTLS10, true
	}
	return 0, false
}

// AEAD key lengths
const (
	// AES128KeySize is the AES-128-GCM key length in bytes
	AES128KeySize = 16

	// AES256KeySize is the AES-256-GCM key length in bytes
	AES256KeySize = 32

	// ChaCha20KeySize is the ChaCha20-Poly1305 key length in bytes
	ChaCha20KeySize = 32

	// AEADNonceSize is the nonce length shared by every supported AEAD (96 bits)
	AEADNonceSize = 12

	// AEADTagSize is the authentication tag length of every supported AEAD
	AEADTagSize = 16
)

// Per-record nonce construction
const (
	// GCMFixedIVSize is the implicit salt of TLS 1.2 AES-GCM (RFC 5288 §3)
	GCMFixedIVSize = 4

	// GCMExplicitNonceSize is the explicit, per-record part of the TLS 1.2 GCM nonce
	GCMExplicitNonceSize = 8

	// FullIVSize is the IV length used when the whole nonce is derived (TLS 1.3, ChaCha20)
	FullIVSize = AEADNonceSize
)

// Record layer limits
const (
	// MaxPlaintextSize is the largest TLSPlaintext fragment (2^14)
	MaxPlaintextSize = 1 << 14

	// RecordHeaderSize is type(1) + version(2) + length(2)
	RecordHeaderSize = 5

	// LegacyAdditionalDataSize is seq_num(8) + type(1) + version(2) + length(2)
	LegacyAdditionalDataSize = 13
)

// HKDF label prefix from RFC 8446 §7.1
const HKDFLabelPrefix = "tls13 "

// MaxHashSize is the longest digest any catalog suite produces (SHA-384).
const MaxHashSize = 48
