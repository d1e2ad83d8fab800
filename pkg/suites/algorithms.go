package suites

import (
	"fmt"

	"github.com/sara-star-quant/suitekit/internal/constants"
)

// ProtocolVersion is the TLS protocol version a suite is usable for.
type ProtocolVersion = constants.ProtocolVersion

// Protocol versions the catalog distinguishes.
const (
	TLS12 = constants.VersionTLS12
	TLS13 = constants.VersionTLS13
)

// ParseVersion maps a name such as "TLSv1.3", "tls12" or "1.2" to a version.
func ParseVersion(s string) (ProtocolVersion, bool) {
	return constants.ParseVersion(s)
}

// CipherSuiteID is the TLS registry identifier of a cipher suite.
type CipherSuiteID uint16

// Cipher suite identifiers (IANA TLS Cipher Suites registry).
const (
	TLS_NULL_WITH_NULL_NULL                       CipherSuiteID = 0x0000
	TLS13_AES_128_GCM_SHA256                      CipherSuiteID = 0x1301
	TLS13_AES_256_GCM_SHA384                      CipherSuiteID = 0x1302
	TLS13_CHACHA20_POLY1305_SHA256                CipherSuiteID = 0x1303
	TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256       CipherSuiteID = 0xc02b
	TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384       CipherSuiteID = 0xc02c
	TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256         CipherSuiteID = 0xc02f
	TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384         CipherSuiteID = 0xc030
	TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256   CipherSuiteID = 0xcca8
	TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256 CipherSuiteID = 0xcca9
)

var cipherSuiteNames = map[CipherSuiteID]string{
	TLS_NULL_WITH_NULL_NULL:                       "TLS_NULL_WITH_NULL_NULL",
	TLS13_AES_128_GCM_SHA256:                      "TLS13_AES_128_GCM_SHA256",
	TLS13_AES_256_GCM_SHA384:                      "TLS13_AES_256_GCM_SHA384",
	TLS13_CHACHA20_POLY1305_SHA256:                "TLS13_CHACHA20_POLY1305_SHA256",
	TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256:       "TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256",
	TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384:       "TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384",
	TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256:         "TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256",
	TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384:         "TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384",
	TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256:   "TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256",
	TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256: "TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256",
}

// String returns the registry name, or Unknown(0x....) for ids this package
// does not name.
func (id CipherSuiteID) String() string {
	if name, ok := cipherSuiteNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%04x)", uint16(id))
}

// ParseCipherSuiteID resolves a registry name to its identifier.
func ParseCipherSuiteID(name string) (CipherSuiteID, bool) {
	for id, n := range cipherSuiteNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// HashAlgorithm identifies a hash function (TLS HashAlgorithm registry).
type HashAlgorithm uint8

const (
	HashNone   HashAlgorithm = 0
	HashMD5    HashAlgorithm = 1
	HashSHA1   HashAlgorithm = 2
	HashSHA224 HashAlgorithm = 3
	HashSHA256 HashAlgorithm = 4
	HashSHA384 HashAlgorithm = 5
	HashSHA512 HashAlgorithm = 6
)

func (h HashAlgorithm) String() string {
	switch h {
	case HashNone:
		return "NONE"
	case HashMD5:
		return "MD5"
	case HashSHA1:
		return "SHA1"
	case HashSHA224:
		return "SHA224"
	case HashSHA256:
		return "SHA256"
	case HashSHA384:
		return "SHA384"
	case HashSHA512:
		return "SHA512"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(h))
	}
}

// SignatureAlgorithm identifies a signing algorithm independent of hash.
type SignatureAlgorithm uint8

const (
	SignatureAnonymous SignatureAlgorithm = 0
	SignatureRSA       SignatureAlgorithm = 1
	SignatureECDSA     SignatureAlgorithm = 3
	SignatureED25519   SignatureAlgorithm = 7
	SignatureED448     SignatureAlgorithm = 8
)

func (a SignatureAlgorithm) String() string {
	switch a {
	case SignatureAnonymous:
		return "Anonymous"
	case SignatureRSA:
		return "RSA"
	case SignatureECDSA:
		return "ECDSA"
	case SignatureED25519:
		return "ED25519"
	case SignatureED448:
		return "ED448"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(a))
	}
}

// ParseSignatureAlgorithm accepts the names String returns, case-sensitive.
func ParseSignatureAlgorithm(name string) (SignatureAlgorithm, bool) {
	for _, a := range []SignatureAlgorithm{SignatureRSA, SignatureECDSA, SignatureED25519, SignatureED448} {
		if a.String() == name {
			return a, true
		}
	}
	return 0, false
}

// SignatureScheme is a TLS SignatureScheme code point: a signing algorithm
// paired with a hash.
type SignatureScheme uint16

const (
	RSA_PKCS1_SHA1        SignatureScheme = 0x0201
	ECDSA_SHA1_Legacy     SignatureScheme = 0x0203
	RSA_PKCS1_SHA256      SignatureScheme = 0x0401
	ECDSA_NISTP256_SHA256 SignatureScheme = 0x0403
	RSA_PKCS1_SHA384      SignatureScheme = 0x0501
	ECDSA_NISTP384_SHA384 SignatureScheme = 0x0503
	RSA_PKCS1_SHA512      SignatureScheme = 0x0601
	ECDSA_NISTP521_SHA512 SignatureScheme = 0x0603
	RSA_PSS_SHA256        SignatureScheme = 0x0804
	RSA_PSS_SHA384        SignatureScheme = 0x0805
	RSA_PSS_SHA512        SignatureScheme = 0x0806
	ED25519               SignatureScheme = 0x0807
	ED448                 SignatureScheme = 0x0808
)

type schemeInfo struct {
	name string
	sign SignatureAlgorithm
	hash HashAlgorithm
}

var signatureSchemes = map[SignatureScheme]schemeInfo{
	RSA_PKCS1_SHA1:        {"RSA_PKCS1_SHA1", SignatureRSA, HashSHA1},
	ECDSA_SHA1_Legacy:     {"ECDSA_SHA1_Legacy", SignatureECDSA, HashSHA1},
	RSA_PKCS1_SHA256:      {"RSA_PKCS1_SHA256", SignatureRSA, HashSHA256},
	ECDSA_NISTP256_SHA256: {"ECDSA_NISTP256_SHA256", SignatureECDSA, HashSHA256},
	RSA_PKCS1_SHA384:      {"RSA_PKCS1_SHA384", SignatureRSA, HashSHA384},
	ECDSA_NISTP384_SHA384: {"ECDSA_NISTP384_SHA384", SignatureECDSA, HashSHA384},
	RSA_PKCS1_SHA512:      {"RSA_PKCS1_SHA512", SignatureRSA, HashSHA512},
	ECDSA_NISTP521_SHA512: {"ECDSA_NISTP521_SHA512", SignatureECDSA, HashSHA512},
	RSA_PSS_SHA256:        {"RSA_PSS_SHA256", SignatureRSA, HashSHA256},
	RSA_PSS_SHA384:        {"RSA_PSS_SHA384", SignatureRSA, HashSHA384},
	RSA_PSS_SHA512:        {"RSA_PSS_SHA512", SignatureRSA, HashSHA512},
	ED25519:               {"ED25519", SignatureED25519, HashNone},
	ED448:                 {"ED448", SignatureED448, HashNone},
}

// Sign returns the signing algorithm of the scheme. Unknown code points
// report SignatureAnonymous, which no catalog suite accepts.
func (s SignatureScheme) Sign() SignatureAlgorithm {
	return signatureSchemes[s].sign
}

// Hash returns the hash the scheme signs over. EdDSA schemes report HashNone.
func (s SignatureScheme) Hash() HashAlgorithm {
	return signatureSchemes[s].hash
}

func (s SignatureScheme) String() string {
	if info, ok := signatureSchemes[s]; ok {
		return info.name
	}
	return fmt.Sprintf("Unknown(0x%04x)", uint16(s))
}

// ParseSignatureScheme resolves a scheme name such as "RSA_PSS_SHA256".
func ParseSignatureScheme(name string) (SignatureScheme, bool) {
	for s, info := range signatureSchemes {
		if info.name == name {
			return s, true
		}
	}
	return 0, false
}

// KeyExchangeAlgorithm identifies how a suite agrees keys.
type KeyExchangeAlgorithm uint8

const (
	// KeyExchangeBulkOnly marks TLS 1.3 suites, where key exchange is
	// negotiated separately from the suite.
	KeyExchangeBulkOnly KeyExchangeAlgorithm = iota
	KeyExchangeECDHE
)

func (k KeyExchangeAlgorithm) String() string {
	switch k {
	case KeyExchangeBulkOnly:
		return "BulkOnly"
	case KeyExchangeECDHE:
		return "ECDHE"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// BulkAlgorithm identifies the symmetric AEAD construction of a suite.
type BulkAlgorithm uint8

const (
	BulkAES128GCM BulkAlgorithm = iota
	BulkAES256GCM
	BulkChaCha20Poly1305
)

func (b BulkAlgorithm) String() string {
	switch b {
	case BulkAES128GCM:
		return "AES_128_GCM"
	case BulkAES256GCM:
		return "AES_256_GCM"
	case BulkChaCha20Poly1305:
		return "CHACHA20_POLY1305"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(b))
	}
}
