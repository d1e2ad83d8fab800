// Package suites is the TLS cipher-suite registry: the descriptors of every
// supported suite, the filters that narrow a list of them, and the algorithms
// that pick one suite for a connection.
//
// Everything here is immutable after package initialization, so every
// function is safe for concurrent use without locking.
//
// Example:
//
//	local := suites.ReduceGivenVersion(suites.DefaultCipherSuites(), suites.TLS13)
//	chosen := suites.ChoosePreferringServer(clientHello.CipherSuites, local)
//	if chosen == nil {
//	    // abort with handshake_failure
//	}
package suites

import (
	"github.com/sara-star-quant/suitekit/internal/constants"
	"github.com/sara-star-quant/suitekit/pkg/crypto"
)

func tls13Suite(id CipherSuiteID, bulk BulkAlgorithm, hash HashAlgorithm, kdf *crypto.HKDF, aead *crypto.AEADAlgorithm) *SupportedCipherSuite {
	return &SupportedCipherSuite{
		Suite:            id,
		KeyExchange:      KeyExchangeBulkOnly,
		Bulk:             bulk,
		Hash:             hash,
		EncKeyLen:        aead.KeySize(),
		FixedIVLen:       constants.FullIVSize,
		ExplicitNonceLen: 0,
		KDF:              kdf,
		AEAD:             aead,
		Binding:          TLS13Binding{},
	}
}

func tls12GCMSuite(id CipherSuiteID, bulk BulkAlgorithm, hash HashAlgorithm, sign []SignatureScheme,
	kdf *crypto.HKDF, aead *crypto.AEADAlgorithm, enc crypto.BuildRecordEncrypter, dec crypto.BuildRecordDecrypter,
) *SupportedCipherSuite {
	return &SupportedCipherSuite{
		Suite:            id,
		KeyExchange:      KeyExchangeECDHE,
		Bulk:             bulk,
		Hash:             hash,
		Sign:             sign,
		EncKeyLen:        aead.KeySize(),
		FixedIVLen:       constants.GCMFixedIVSize,
		ExplicitNonceLen: constants.GCMExplicitNonceSize,
		KDF:              kdf,
		AEAD:             aead,
		Binding:          TLS12Binding{Encrypter: enc, Decrypter: dec},
	}
}

func tls12ChaChaSuite(id CipherSuiteID, sign []SignatureScheme) *SupportedCipherSuite {
	return &SupportedCipherSuite{
		Suite:            id,
		KeyExchange:      KeyExchangeECDHE,
		Bulk:             BulkChaCha20Poly1305,
		Hash:             HashSHA256,
		Sign:             sign,
		EncKeyLen:        constants.ChaCha20KeySize,
		FixedIVLen:       constants.FullIVSize,
		ExplicitNonceLen: 0,
		KDF:              crypto.HKDFSHA256,
		AEAD:             crypto.ChaCha20Poly1305,
		Binding: TLS12Binding{
			Encrypter: crypto.BuildTLS12ChaChaEncrypter,
			Decrypter: crypto.BuildTLS12ChaChaDecrypter,
		},
	}
}

// TLS 1.2 signature schemes in preference order.
var (
	tls12ECDSASchemes = []SignatureScheme{
		ED25519,
		ECDSA_NISTP521_SHA512,
		ECDSA_NISTP384_SHA384,
		ECDSA_NISTP256_SHA256,
	}

	tls12RSASchemes = []SignatureScheme{
		RSA_PSS_SHA512,
		RSA_PSS_SHA384,
		RSA_PSS_SHA256,
		RSA_PKCS1_SHA512,
		RSA_PKCS1_SHA384,
		RSA_PKCS1_SHA256,
	}
)

// Catalog descriptors.
var (
	SuiteTLS13AES256GCMSHA384 = tls13Suite(TLS13_AES_256_GCM_SHA384,
		BulkAES256GCM, HashSHA384, crypto.HKDFSHA384, crypto.AES256GCM)
	SuiteTLS13AES128GCMSHA256 = tls13Suite(TLS13_AES_128_GCM_SHA256,
		BulkAES128GCM, HashSHA256, crypto.HKDFSHA256, crypto.AES128GCM)
	SuiteTLS13ChaCha20Poly1305SHA256 = tls13Suite(TLS13_CHACHA20_POLY1305_SHA256,
		BulkChaCha20Poly1305, HashSHA256, crypto.HKDFSHA256, crypto.ChaCha20Poly1305)

	SuiteECDHEECDSAWithAES256GCMSHA384 = tls12GCMSuite(TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		BulkAES256GCM, HashSHA384, tls12ECDSASchemes, crypto.HKDFSHA384, crypto.AES256GCM,
		crypto.BuildTLS12GCM256Encrypter, crypto.BuildTLS12GCM256Decrypter)
	SuiteECDHEECDSAWithAES128GCMSHA256 = tls12GCMSuite(TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		BulkAES128GCM, HashSHA256, tls12ECDSASchemes, crypto.HKDFSHA256, crypto.AES128GCM,
		crypto.BuildTLS12GCM128Encrypter, crypto.BuildTLS12GCM128Decrypter)
	SuiteECDHEECDSAWithChaCha20Poly1305SHA256 = tls12ChaChaSuite(TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
		tls12ECDSASchemes)

	SuiteECDHERSAWithAES256GCMSHA384 = tls12GCMSuite(TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		BulkAES256GCM, HashSHA384, tls12RSASchemes, crypto.HKDFSHA384, crypto.AES256GCM,
		crypto.BuildTLS12GCM256Encrypter, crypto.BuildTLS12GCM256Decrypter)
	SuiteECDHERSAWithAES128GCMSHA256 = tls12GCMSuite(TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		BulkAES128GCM, HashSHA256, tls12RSASchemes, crypto.HKDFSHA256, crypto.AES128GCM,
		crypto.BuildTLS12GCM128Encrypter, crypto.BuildTLS12GCM128Decrypter)
	SuiteECDHERSAWithChaCha20Poly1305SHA256 = tls12ChaChaSuite(TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		tls12RSASchemes)
)

// allCipherSuites is in preference order, most preferred first.
var allCipherSuites = []*SupportedCipherSuite{
	SuiteTLS13AES256GCMSHA384,
	SuiteTLS13AES128GCMSHA256,
	SuiteTLS13ChaCha20Poly1305SHA256,
	SuiteECDHEECDSAWithAES256GCMSHA384,
	SuiteECDHEECDSAWithAES128GCMSHA256,
	SuiteECDHEECDSAWithChaCha20Poly1305SHA256,
	SuiteECDHERSAWithAES256GCMSHA384,
	SuiteECDHERSAWithAES128GCMSHA256,
	SuiteECDHERSAWithChaCha20Poly1305SHA256,
}

var defaultCipherSuites = filterDefault(allCipherSuites)

// AllCipherSuites returns every supported suite in preference order.
// The returned slice is fresh; its elements are shared catalog entries.
func AllCipherSuites() []*SupportedCipherSuite {
	return append([]*SupportedCipherSuite(nil), allCipherSuites...)
}

// DefaultCipherSuites returns the suites enabled when nothing else is
// configured, in preference order.
func DefaultCipherSuites() []*SupportedCipherSuite {
	return append([]*SupportedCipherSuite(nil), defaultCipherSuites...)
}

// Lookup returns the catalog entry for id, or nil.
func Lookup(id CipherSuiteID) *SupportedCipherSuite {
	for _, s := range allCipherSuites {
		if s.Suite == id {
			return s
		}
	}
	return nil
}

// LookupName returns the catalog entry registered under a suite name, or nil.
func LookupName(name string) *SupportedCipherSuite {
	id, ok := ParseCipherSuiteID(name)
	if !ok {
		return nil
	}
	return Lookup(id)
}
