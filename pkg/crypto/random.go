// Package crypto provides the cryptographic-primitive handles referenced by the
// suitekit cipher-suite catalog: hash functions, HKDF, AEAD constructors and the
// TLS 1.2 per-record encrypter/decrypter builders.
//
// The package does not implement primitives itself. It binds the standard
// library and golang.org/x/crypto implementations to the identifiers a cipher
// suite descriptor carries, with consistent error handling.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
)

// Reader is an io.Reader that returns cryptographically secure random bytes.
// It wraps crypto/rand.Reader for consistent error handling.
var Reader = rand.Reader

// SecureRandomBytes returns n cryptographically secure random bytes.
// Returns an error if the system's CSPRNG fails.
func SecureRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, qerrors.NewCryptoError("SecureRandomBytes", err)
	}
	return b, nil
}

// ConstantTimeCompare compares two byte slices in constant time.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites b with zeros.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
