// aead.go binds the AEAD constructions used by TLS cipher suites.
//
// Supported algorithms:
//   - AES-128-GCM and AES-256-GCM: FIPS-approved, hardware-accelerated on modern CPUs
//   - ChaCha20-Poly1305: fast without hardware support (RFC 8439)
//
// All three use a 96-bit nonce and a 128-bit tag. Nonce reuse under one key
// breaks both confidentiality and integrity; nonce construction is the job of
// the record layer (see record.go for the TLS 1.2 variants).
package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/sara-star-quant/suitekit/internal/constants"
	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
)

// AEADAlgorithm is a handle to an authenticated-encryption construction.
type AEADAlgorithm struct {
	name    string
	keySize int
	fips    bool
	newFunc func(key []byte) (cipher.AEAD, error)
}

// AEAD handles used by the catalog.
var (
	AES128GCM = &AEADAlgorithm{
		name:    "AES-128-GCM",
		keySize: constants.AES128KeySize,
		fips:    true,
		newFunc: newGCM,
	}
	AES256GCM = &AEADAlgorithm{
		name:    "AES-256-GCM",
		keySize: constants.AES256KeySize,
		fips:    true,
		newFunc: newGCM,
	}
	ChaCha20Poly1305 = &AEADAlgorithm{
		name:    "ChaCha20-Poly1305",
		keySize: constants.ChaCha20KeySize,
		newFunc: chacha20poly1305.New,
	}
)

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Name returns the algorithm name, e.g. "AES-256-GCM".
func (a *AEADAlgorithm) Name() string { return a.name }

// KeySize returns the key length in bytes.
func (a *AEADAlgorithm) KeySize() int { return a.keySize }

// NonceSize returns the nonce length in bytes.
func (a *AEADAlgorithm) NonceSize() int { return constants.AEADNonceSize }

// TagSize returns the authentication tag length in bytes.
func (a *AEADAlgorithm) TagSize() int { return constants.AEADTagSize }

// IsFIPSApproved returns true if the construction is FIPS 140-3 approved.
// AES-GCM is; ChaCha20-Poly1305 is not.
func (a *AEADAlgorithm) IsFIPSApproved() bool { return a.fips }

func (a *AEADAlgorithm) String() string { return a.name }

// New creates a cipher.AEAD keyed with key.
//
// Returns ErrInvalidKeySize if len(key) != KeySize().
func (a *AEADAlgorithm) New(key []byte) (cipher.AEAD, error) {
	if len(key) != a.keySize {
		return nil, qerrors.ErrInvalidKeySize
	}
	aead, err := a.newFunc(key)
	if err != nil {
		return nil, qerrors.NewCryptoError("AEAD.New", err)
	}
	return aead, nil
}
