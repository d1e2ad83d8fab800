package suites

import (
	"fmt"
	"strings"

	"github.com/sara-star-quant/suitekit/pkg/crypto"
)

// VersionBinding ties a descriptor to the one protocol version it serves.
//
// The set is closed: TLS13Binding or TLS12Binding. A TLS 1.2 binding always
// carries both record builders; a TLS 1.3 binding carries none.
type VersionBinding interface {
	Version() ProtocolVersion
	versionBinding()
}

// TLS13Binding marks a suite usable only with TLS 1.3.
type TLS13Binding struct{}

// Version returns TLS13.
func (TLS13Binding) Version() ProtocolVersion { return TLS13 }
func (TLS13Binding) versionBinding()          {}

// TLS12Binding marks a suite usable only with TLS 1.2 and holds its
// per-record builders.
type TLS12Binding struct {
	Encrypter crypto.BuildRecordEncrypter
	Decrypter crypto.BuildRecordDecrypter
}

// Version returns TLS12.
func (TLS12Binding) Version() ProtocolVersion { return TLS12 }
func (TLS12Binding) versionBinding()          {}

// SupportedCipherSuite describes one cipher suite the catalog supports.
//
// Descriptors are built once at package initialization and never mutated.
// Callers hold *SupportedCipherSuite references into the catalog.
type SupportedCipherSuite struct {
	// Suite is the TLS registry identifier and the descriptor's identity.
	Suite CipherSuiteID

	// KeyExchange is KeyExchangeBulkOnly for TLS 1.3 suites.
	KeyExchange KeyExchangeAlgorithm

	Bulk BulkAlgorithm

	// Hash is the hash underlying the suite's KDF.
	Hash HashAlgorithm

	// Sign lists acceptable signature schemes, most preferred first.
	//
	// nil means the suite expresses no signature constraint (TLS 1.3, where
	// authentication is negotiated independently). A non-nil empty slice
	// would mean no scheme is acceptable.
	Sign []SignatureScheme

	// EncKeyLen is the bulk encryption key length.
	EncKeyLen int

	// FixedIVLen is the length of the implicit part of the nonce.
	FixedIVLen int

	// ExplicitNonceLen is the length of the extra key-block bytes used as the
	// initial explicit nonce offset. GCM needs this; ChaCha20-Poly1305 does not.
	ExplicitNonceLen int

	KDF  *crypto.HKDF
	AEAD *crypto.AEADAlgorithm

	Binding VersionBinding
}

// UsableForVersion reports whether the suite may be used with version v.
// Versions other than TLS 1.2 and TLS 1.3 always report false.
func (s *SupportedCipherSuite) UsableForVersion(v ProtocolVersion) bool {
	switch s.Binding.(type) {
	case TLS13Binding:
		return v == TLS13
	case TLS12Binding:
		return v == TLS12
	default:
		return false
	}
}

// Legacy returns the TLS 1.2 record builders, if the suite has them.
func (s *SupportedCipherSuite) Legacy() (TLS12Binding, bool) {
	b, ok := s.Binding.(TLS12Binding)
	return b, ok
}

// UsableForSigAlg reports whether the suite is usable with a key that can
// only produce alg signatures. Always true for suites without a sign list.
func (s *SupportedCipherSuite) UsableForSigAlg(alg SignatureAlgorithm) bool {
	if s.Sign == nil {
		return true
	}
	for _, scheme := range s.Sign {
		if scheme.Sign() == alg {
			return true
		}
	}
	return false
}

// ResolveSigSchemes returns the suite's schemes that also appear in offered,
// in the suite's order. It returns an empty result for suites without a sign
// list; an empty result ends the handshake.
func (s *SupportedCipherSuite) ResolveSigSchemes(offered []SignatureScheme) []SignatureScheme {
	resolved := []SignatureScheme{}
	for _, pref := range s.Sign {
		for _, o := range offered {
			if o == pref {
				resolved = append(resolved, pref)
				break
			}
		}
	}
	return resolved
}

// KeyBlockLen returns how many bytes the key derivation must output for
// this suite.
func (s *SupportedCipherSuite) KeyBlockLen() int {
	return (s.EncKeyLen+s.FixedIVLen)*2 + s.ExplicitNonceLen
}

// GetHash returns the digest used by the suite's KDF.
func (s *SupportedCipherSuite) GetHash() *crypto.Hash {
	return s.KDF.Hash()
}

// Equal reports whether two descriptors name the same suite.
func (s *SupportedCipherSuite) Equal(other *SupportedCipherSuite) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Suite == other.Suite
}

func (s *SupportedCipherSuite) String() string {
	return s.Suite.String()
}

// GoString renders the descriptor's public parameters for %#v.
func (s *SupportedCipherSuite) GoString() string {
	var sign string
	if s.Sign == nil {
		sign = "None"
	} else {
		names := make([]string, len(s.Sign))
		for i, scheme := range s.Sign {
			names[i] = scheme.String()
		}
		sign = "[" + strings.Join(names, ", ") + "]"
	}
	return fmt.Sprintf(
		"SupportedCipherSuite{suite: %s, bulk: %s, hash: %s, sign: %s, enc_key_len: %d, fixed_iv_len: %d, explicit_nonce_len: %d}",
		s.Suite, s.Bulk, s.Hash, sign, s.EncKeyLen, s.FixedIVLen, s.ExplicitNonceLen)
}
