package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestCryptoError tests CryptoError type.
func TestCryptoError(t *testing.T) {
	baseErr := errors.New("base error")
	cerr := NewCryptoError("build-tls12-gcm", baseErr)

	errStr := cerr.Error()
	if !strings.Contains(errStr, "build-tls12-gcm") {
		t.Errorf("Error string should contain operation: %q", errStr)
	}
	if !strings.Contains(errStr, "base error") {
		t.Errorf("Error string should contain base error: %q", errStr)
	}

	if cerr.Unwrap() != baseErr {
		t.Errorf("Unwrap() returned %v, want %v", cerr.Unwrap(), baseErr)
	}
}

// TestNegotiationError tests NegotiationError type.
func TestNegotiationError(t *testing.T) {
	nerr := NewNegotiationError("cipher_suite", ErrNoSharedCipherSuite)

	errStr := nerr.Error()
	if !strings.Contains(errStr, "cipher_suite") {
		t.Errorf("Error string should contain phase: %q", errStr)
	}
	if !strings.Contains(errStr, "no shared cipher suite") {
		t.Errorf("Error string should contain base error: %q", errStr)
	}
	if !Is(nerr, ErrNoSharedCipherSuite) {
		t.Error("Is(nerr, ErrNoSharedCipherSuite) = false")
	}

	wrapped := fmt.Errorf("handshake: %w", nerr)
	var target *NegotiationError
	if !As(wrapped, &target) {
		t.Fatal("As failed to find NegotiationError in chain")
	}
	if target.Phase != "cipher_suite" {
		t.Errorf("Phase = %q, want %q", target.Phase, "cipher_suite")
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no shared suite", ErrNoSharedCipherSuite, true},
		{"no candidates", ErrNoCandidateSuites, true},
		{"no scheme wrapped", NewNegotiationError("signature", ErrNoSignatureScheme), true},
		{"no group", fmt.Errorf("x: %w", ErrNoSharedGroup), true},
		{"config", NewNegotiationError("config", ErrInvalidConfig), false},
		{"crypto", ErrAuthenticationFailed, false},
	}

	for _, tt := range tests {
		if got := IsFatal(tt.err); got != tt.want {
			t.Errorf("%s: IsFatal() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestSentinelPrefixes keeps the "<area>: " message convention.
func TestSentinelPrefixes(t *testing.T) {
	cryptoErrs := []error{ErrInvalidKeySize, ErrInvalidIVSize, ErrAuthenticationFailed, ErrCiphertextTooShort, ErrRecordTooLarge, ErrSequenceExhausted, ErrSelfTestFailed}
	for _, err := range cryptoErrs {
		if !strings.HasPrefix(err.Error(), "crypto: ") {
			t.Errorf("%q missing crypto prefix", err)
		}
	}
	negErrs := []error{ErrNoCandidateSuites, ErrNoSharedCipherSuite, ErrNoSignatureScheme, ErrUnsupportedVersion, ErrUnknownCipherSuite, ErrUnknownGroup, ErrNoSharedGroup, ErrResumptionIncompatible, ErrInvalidConfig}
	for _, err := range negErrs {
		if !strings.HasPrefix(err.Error(), "negotiate: ") {
			t.Errorf("%q missing negotiate prefix", err)
		}
	}
}
