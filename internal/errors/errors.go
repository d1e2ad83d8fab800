// Package errors defines the error values returned by the suitekit negotiation
// layer. The core registry never fails; these errors are produced where an
// empty outcome has to be turned into a handshake failure.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for cryptographic handles
var (
	// ErrInvalidKeySize indicates that a key has an incorrect size
	ErrInvalidKeySize = errors.New("crypto: invalid key size")

	// ErrInvalidIVSize indicates that a fixed IV or nonce salt has an incorrect size
	ErrInvalidIVSize = errors.New("crypto: invalid iv size")

	// ErrAuthenticationFailed indicates AEAD authentication/decryption failed
	ErrAuthenticationFailed = errors.New("crypto: authentication failed")

	// ErrCiphertextTooShort indicates ciphertext is too short to be valid
	ErrCiphertextTooShort = errors.New("crypto: ciphertext too short")

	// ErrRecordTooLarge indicates a record exceeds the TLS plaintext limit
	ErrRecordTooLarge = errors.New("crypto: record too large")

	// ErrSequenceExhausted indicates the record sequence number would wrap
	ErrSequenceExhausted = errors.New("crypto: sequence number exhausted")

	// ErrSelfTestFailed indicates a power-on self-test did not pass
	ErrSelfTestFailed = errors.New("crypto: self-test failed")
)

// Sentinel errors for negotiation outcomes
var (
	// ErrNoCandidateSuites indicates the local suite list was empty before
	// any peer input was consulted. This is a configuration mistake.
	ErrNoCandidateSuites = errors.New("negotiate: no candidate cipher suites for version")

	// ErrNoSharedCipherSuite indicates the peer offered no suite we enabled
	ErrNoSharedCipherSuite = errors.New("negotiate: no shared cipher suite")

	// ErrNoSignatureScheme indicates no offered signature scheme is usable
	ErrNoSignatureScheme = errors.New("negotiate: no usable signature scheme")

	// ErrUnsupportedVersion indicates the protocol version has no suites
	ErrUnsupportedVersion = errors.New("negotiate: unsupported protocol version")

	// ErrUnknownCipherSuite indicates a suite name or id is not in the catalog
	ErrUnknownCipherSuite = errors.New("negotiate: unknown cipher suite")

	// ErrUnknownGroup indicates a named group is not in the registry
	ErrUnknownGroup = errors.New("negotiate: unknown named group")

	// ErrNoSharedGroup indicates the peer offered no key-exchange group we enabled
	ErrNoSharedGroup = errors.New("negotiate: no shared key exchange group")

	// ErrResumptionIncompatible indicates a session cannot resume under the new suite
	ErrResumptionIncompatible = errors.New("negotiate: session not resumable with suite")

	// ErrInvalidConfig indicates a negotiation configuration failed validation
	ErrInvalidConfig = errors.New("negotiate: invalid configuration")
)

// CryptoError wraps a cryptographic error with additional context
type CryptoError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewCryptoError creates a new CryptoError
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// NegotiationError wraps a negotiation failure with the step that produced it
type NegotiationError struct {
	Phase string // Negotiation step (e.g., "cipher_suite", "signature", "group")
	Err   error  // Underlying error
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("negotiation %s: %v", e.Phase, e.Err)
}

func (e *NegotiationError) Unwrap() error {
	return e.Err
}

// NewNegotiationError creates a new NegotiationError
func NewNegotiationError(phase string, err error) *NegotiationError {
	return &NegotiationError{Phase: phase, Err: err}
}

// IsFatal reports whether err must terminate the handshake. Every negotiation
// outcome error is fatal; configuration errors are not handshake errors at all.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var nerr *NegotiationError
	if errors.As(err, &nerr) {
		return !errors.Is(nerr.Err, ErrInvalidConfig)
	}
	return errors.Is(err, ErrNoSharedCipherSuite) ||
		errors.Is(err, ErrNoCandidateSuites) ||
		errors.Is(err, ErrNoSignatureScheme) ||
		errors.Is(err, ErrNoSharedGroup) ||
		errors.Is(err, ErrUnsupportedVersion)
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
