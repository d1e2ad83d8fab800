// Package crypto implements Power-On Self-Tests (POST) for the primitive handles.
//
// POST runs when the package is loaded and checks every handle the catalog
// references against known answers before any suite is handed out:
//   - HKDF-SHA256 (RFC 5869, test case 1)
//   - AES-256-GCM (fixed key, zero nonce)
//   - ChaCha20-Poly1305 and both TLS 1.2 record builders (seal/open consistency)
//
// In FIPS mode, POST failures cause a panic. In standard mode they are
// recorded and surfaced through health checks.
package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sync"
)

// POST KAT (Known Answer Test) values
var (
	// RFC 5869 A.1
	postKATHKDFIKM, _  = hex.DecodeString("0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
	postKATHKDFSalt, _ = hex.DecodeString("000102030405060708090a0b0c")
	postKATHKDFInfo, _ = hex.DecodeString("f0f1f2f3f4f5f6f7f8f9")
	postKATHKDFPRK, _  = hex.DecodeString("077709362c2e32df0ddc3f0dc47bba6390b6c73bb50f9c3122ec844ad7c2b3e5")
	postKATHKDFOKM, _  = hex.DecodeString(
		"3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf34007208d5b887185865")

	// AES-256-GCM
	// Key: 0x0123456789abcdef... (32 bytes), Nonce: zeros, Plaintext: "POST-KAT-TEST"
	postKATAESKey, _       = hex.DecodeString("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	postKATAESNonce, _     = hex.DecodeString("000000000000000000000000")
	postKATAESPlaintext, _ = hex.DecodeString("504f53542d4b41542d54455354")
	postKATAESExpected, _  = hex.DecodeString("5a48b3005aeb1b0a8cd6767b8cded311eb6185c16343d286e3541e9d98")
)

// POSTResult contains the results of Power-On Self-Tests
type POSTResult struct {
	Passed       bool
	HKDFPassed   bool
	AESPassed    bool
	RecordPassed bool
	Errors       []string
}

var (
	postResult     *POSTResult
	postResultOnce sync.Once
)

// RunPOST executes the Power-On Self-Tests and returns the results.
// This function is safe to call multiple times; tests only run once.
func RunPOST() *POSTResult {
	postResultOnce.Do(func() {
		result := &POSTResult{Passed: true}

		record := func(name string, err error) bool {
			if err != nil {
				result.Passed = false
				result.Errors = append(result.Errors, fmt.Sprintf("%s KAT failed: %v", name, err))
				return false
			}
			return true
		}

		result.HKDFPassed = record("HKDF", runHKDFKAT())
		result.AESPassed = record("AES-GCM", runAESGCMKAT())
		result.RecordPassed = record("TLS1.2 record", runRecordConsistency())

		postResult = result

		if FIPSMode() && !result.Passed {
			panic(fmt.Sprintf("FIPS POST failed: %v", result.Errors))
		}
	})

	return postResult
}

// POSTPassed returns true if POST has run and all tests passed
func POSTPassed() bool {
	return RunPOST().Passed
}

func runHKDFKAT() error {
	prk := HKDFSHA256.Extract(postKATHKDFIKM, postKATHKDFSalt)
	if !bytes.Equal(prk, postKATHKDFPRK) {
		return fmt.Errorf("PRK mismatch: got %x, want %x", prk, postKATHKDFPRK)
	}
	okm, err := HKDFSHA256.Expand(prk, postKATHKDFInfo, len(postKATHKDFOKM))
	if err != nil {
		return fmt.Errorf("Expand failed: %w", err)
	}
	if !bytes.Equal(okm, postKATHKDFOKM) {
		return fmt.Errorf("OKM mismatch: got %x, want %x", okm, postKATHKDFOKM)
	}
	return nil
}

func runAESGCMKAT() error {
	aesgcm, err := AES256GCM.New(postKATAESKey)
	if err != nil {
		return fmt.Errorf("New failed: %w", err)
	}

	// Hardcoded nonce is intentional for KAT.
	ciphertext := aesgcm.Seal(nil, postKATAESNonce, postKATAESPlaintext, nil) //nolint:gosec // G407
	if !bytes.Equal(ciphertext, postKATAESExpected) {
		return fmt.Errorf("encrypt mismatch: got %x, want %x", ciphertext, postKATAESExpected)
	}

	plaintext, err := aesgcm.Open(nil, postKATAESNonce, ciphertext, nil) //nolint:gosec // G407
	if err != nil {
		return fmt.Errorf("decrypt failed: %w", err)
	}
	if !bytes.Equal(plaintext, postKATAESPlaintext) {
		return fmt.Errorf("decrypt mismatch: got %x, want %x", plaintext, postKATAESPlaintext)
	}
	return nil
}

// runRecordConsistency seals and opens one record with each builder family.
func runRecordConsistency() error {
	key := postKATAESKey
	builders := []struct {
		name string
		enc  BuildRecordEncrypter
		dec  BuildRecordDecrypter
		iv   []byte
		xtra []byte
	}{
		{"gcm", BuildTLS12GCM256Encrypter, BuildTLS12GCM256Decrypter, postKATAESNonce[:4], postKATAESNonce[4:]},
		{"chacha", BuildTLS12ChaChaEncrypter, BuildTLS12ChaChaDecrypter, postKATAESNonce, nil},
	}
	for _, b := range builders {
		enc, err := b.enc(key, b.iv, b.xtra)
		if err != nil {
			return fmt.Errorf("%s encrypter: %w", b.name, err)
		}
		dec, err := b.dec(key, b.iv)
		if err != nil {
			return fmt.Errorf("%s decrypter: %w", b.name, err)
		}
		sealed, err := enc.Encrypt(7, 23, 0x0303, postKATAESPlaintext)
		if err != nil {
			return fmt.Errorf("%s encrypt: %w", b.name, err)
		}
		opened, err := dec.Decrypt(7, 23, 0x0303, sealed)
		if err != nil {
			return fmt.Errorf("%s decrypt: %w", b.name, err)
		}
		if !bytes.Equal(opened, postKATAESPlaintext) {
			return fmt.Errorf("%s round trip mismatch", b.name)
		}
	}
	return nil
}

func init() {
	RunPOST()
}
