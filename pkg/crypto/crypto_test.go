package crypto_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math"
	"testing"

	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
	"github.com/sara-star-quant/suitekit/pkg/crypto"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestHashSizes(t *testing.T) {
	tests := []struct {
		hash *crypto.Hash
		size int
		name string
	}{
		{crypto.SHA256, 32, "SHA-256"},
		{crypto.SHA384, 48, "SHA-384"},
		{crypto.SHA512, 64, "SHA-512"},
	}
	for _, tt := range tests {
		if tt.hash.Size() != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.name, tt.hash.Size(), tt.size)
		}
		if tt.hash.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", tt.hash.Name(), tt.name)
		}
		if len(tt.hash.EmptyHash()) != tt.size {
			t.Errorf("%s.EmptyHash() length = %d", tt.name, len(tt.hash.EmptyHash()))
		}
	}
}

func TestSHA256EmptyHash(t *testing.T) {
	want := mustHex(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
	if got := crypto.SHA256.EmptyHash(); !bytes.Equal(got, want) {
		t.Errorf("EmptyHash() = %x, want %x", got, want)
	}
}

// RFC 5869 A.1
func TestHKDFRFC5869(t *testing.T) {
	ikm := mustHex(t, "0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b")
	salt := mustHex(t, "000102030405060708090a0b0c")
	info := mustHex(t, "f0f1f2f3f4f5f6f7f8f9")
	wantOKM := mustHex(t, "3cb25f25faacd57a90434f64d0362f2a2d2d0a90cf1a5a4c5db02d56ecc4c5bf34007208d5b887185865")

	prk := crypto.HKDFSHA256.Extract(ikm, salt)
	okm, err := crypto.HKDFSHA256.Expand(prk, info, 42)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if !bytes.Equal(okm, wantOKM) {
		t.Errorf("OKM = %x, want %x", okm, wantOKM)
	}
}

func TestHKDFExpandBounds(t *testing.T) {
	prk := crypto.HKDFSHA256.Extract([]byte("secret"), nil)

	if _, err := crypto.HKDFSHA256.Expand(prk, nil, 0); err == nil {
		t.Error("Expand with length 0 should fail")
	}
	if _, err := crypto.HKDFSHA256.Expand(prk, nil, 255*32+1); err == nil {
		t.Error("Expand beyond 255*HashLen should fail")
	}
	if _, err := crypto.HKDFSHA256.Expand(prk, nil, 255*32); err != nil {
		t.Errorf("Expand at 255*HashLen should succeed: %v", err)
	}
}

func TestHKDFExpandLabel(t *testing.T) {
	secret := crypto.HKDFSHA384.Extract([]byte("input"), nil)

	key, err := crypto.HKDFSHA384.ExpandLabel(secret, "key", nil, 32)
	if err != nil {
		t.Fatalf("ExpandLabel failed: %v", err)
	}
	if len(key) != 32 {
		t.Errorf("len(key) = %d, want 32", len(key))
	}

	iv, err := crypto.HKDFSHA384.ExpandLabel(secret, "iv", nil, 32)
	if err != nil {
		t.Fatalf("ExpandLabel failed: %v", err)
	}
	if bytes.Equal(key, iv) {
		t.Error("different labels should derive different output")
	}

	long := string(make([]byte, 250))
	if _, err := crypto.HKDFSHA384.ExpandLabel(secret, long, nil, 32); err == nil {
		t.Error("label longer than 255 bytes with prefix should fail")
	}
}

func TestAEADKeySize(t *testing.T) {
	algs := []*crypto.AEADAlgorithm{crypto.AES128GCM, crypto.AES256GCM, crypto.ChaCha20Poly1305}
	for _, alg := range algs {
		t.Run(alg.Name(), func(t *testing.T) {
			if _, err := alg.New(make([]byte, alg.KeySize())); err != nil {
				t.Errorf("New with correct key size failed: %v", err)
			}
			_, err := alg.New(make([]byte, alg.KeySize()-1))
			if !errors.Is(err, qerrors.ErrInvalidKeySize) {
				t.Errorf("New with short key: got %v, want ErrInvalidKeySize", err)
			}
			if alg.NonceSize() != 12 || alg.TagSize() != 16 {
				t.Errorf("NonceSize/TagSize = %d/%d, want 12/16", alg.NonceSize(), alg.TagSize())
			}
		})
	}
}

func TestAEADFIPSApproval(t *testing.T) {
	if !crypto.AES128GCM.IsFIPSApproved() || !crypto.AES256GCM.IsFIPSApproved() {
		t.Error("AES-GCM should be FIPS approved")
	}
	if crypto.ChaCha20Poly1305.IsFIPSApproved() {
		t.Error("ChaCha20-Poly1305 should not be FIPS approved")
	}
}

type recordCase struct {
	name    string
	enc     crypto.BuildRecordEncrypter
	dec     crypto.BuildRecordDecrypter
	keyLen  int
	ivLen   int
	xtraLen int
}

var recordCases = []recordCase{
	{"GCM128", crypto.BuildTLS12GCM128Encrypter, crypto.BuildTLS12GCM128Decrypter, 16, 4, 8},
	{"GCM256", crypto.BuildTLS12GCM256Encrypter, crypto.BuildTLS12GCM256Decrypter, 32, 4, 8},
	{"ChaCha", crypto.BuildTLS12ChaChaEncrypter, crypto.BuildTLS12ChaChaDecrypter, 32, 12, 0},
}

func buildPair(t *testing.T, rc recordCase) (crypto.RecordEncrypter, crypto.RecordDecrypter) {
	t.Helper()
	key := bytes.Repeat([]byte{0x42}, rc.keyLen)
	iv := bytes.Repeat([]byte{0x17}, rc.ivLen)
	extra := bytes.Repeat([]byte{0x99}, rc.xtraLen)

	enc, err := rc.enc(key, iv, extra)
	if err != nil {
		t.Fatalf("encrypter build failed: %v", err)
	}
	dec, err := rc.dec(key, iv)
	if err != nil {
		t.Fatalf("decrypter build failed: %v", err)
	}
	return enc, dec
}

func TestRecordRoundTrip(t *testing.T) {
	plaintext := []byte("application data record")
	for _, rc := range recordCases {
		t.Run(rc.name, func(t *testing.T) {
			enc, dec := buildPair(t, rc)
			for seq := uint64(0); seq < 4; seq++ {
				sealed, err := enc.Encrypt(seq, 23, 0x0303, plaintext)
				if err != nil {
					t.Fatalf("Encrypt failed: %v", err)
				}
				if want := rc.xtraLen + len(plaintext) + 16; len(sealed) != want {
					t.Errorf("sealed length = %d, want %d", len(sealed), want)
				}
				opened, err := dec.Decrypt(seq, 23, 0x0303, sealed)
				if err != nil {
					t.Fatalf("Decrypt failed: %v", err)
				}
				if !bytes.Equal(opened, plaintext) {
					t.Errorf("round trip mismatch at seq %d", seq)
				}
			}
		})
	}
}

func TestRecordTamper(t *testing.T) {
	plaintext := []byte("handshake finished")
	for _, rc := range recordCases {
		t.Run(rc.name, func(t *testing.T) {
			enc, dec := buildPair(t, rc)
			sealed, err := enc.Encrypt(1, 22, 0x0303, plaintext)
			if err != nil {
				t.Fatalf("Encrypt failed: %v", err)
			}

			flipped := append([]byte(nil), sealed...)
			flipped[len(flipped)-1] ^= 0x01
			if _, err := dec.Decrypt(1, 22, 0x0303, flipped); !errors.Is(err, qerrors.ErrAuthenticationFailed) {
				t.Errorf("tampered tag: got %v, want ErrAuthenticationFailed", err)
			}
			if _, err := dec.Decrypt(2, 22, 0x0303, sealed); !errors.Is(err, qerrors.ErrAuthenticationFailed) {
				t.Errorf("wrong sequence: got %v, want ErrAuthenticationFailed", err)
			}
			if _, err := dec.Decrypt(1, 23, 0x0303, sealed); !errors.Is(err, qerrors.ErrAuthenticationFailed) {
				t.Errorf("wrong content type: got %v, want ErrAuthenticationFailed", err)
			}
			if _, err := dec.Decrypt(1, 22, 0x0303, sealed[:4]); !errors.Is(err, qerrors.ErrCiphertextTooShort) {
				t.Errorf("short fragment: got %v, want ErrCiphertextTooShort", err)
			}
		})
	}
}

func TestRecordLimits(t *testing.T) {
	for _, rc := range recordCases {
		t.Run(rc.name, func(t *testing.T) {
			enc, _ := buildPair(t, rc)
			if _, err := enc.Encrypt(math.MaxUint64, 23, 0x0303, nil); !errors.Is(err, qerrors.ErrSequenceExhausted) {
				t.Errorf("max sequence: got %v, want ErrSequenceExhausted", err)
			}
			big := make([]byte, (1<<14)+1)
			if _, err := enc.Encrypt(0, 23, 0x0303, big); !errors.Is(err, qerrors.ErrRecordTooLarge) {
				t.Errorf("oversized record: got %v, want ErrRecordTooLarge", err)
			}
		})
	}
}

func TestRecordBuilderIVSize(t *testing.T) {
	key := make([]byte, 16)
	if _, err := crypto.BuildTLS12GCM128Encrypter(key, make([]byte, 12), make([]byte, 8)); !errors.Is(err, qerrors.ErrInvalidIVSize) {
		t.Errorf("GCM with 12-byte iv: got %v, want ErrInvalidIVSize", err)
	}
	if _, err := crypto.BuildTLS12GCM128Encrypter(key, make([]byte, 4), nil); !errors.Is(err, qerrors.ErrInvalidIVSize) {
		t.Errorf("GCM without explicit nonce: got %v, want ErrInvalidIVSize", err)
	}
	if _, err := crypto.BuildTLS12ChaChaDecrypter(make([]byte, 32), make([]byte, 4)); !errors.Is(err, qerrors.ErrInvalidIVSize) {
		t.Errorf("ChaCha with 4-byte iv: got %v, want ErrInvalidIVSize", err)
	}
}

func TestGCMExplicitNonceHidesSequence(t *testing.T) {
	enc, _ := buildPair(t, recordCases[0])
	sealed, err := enc.Encrypt(0, 23, 0x0303, []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	// offset 0x99.. XOR 0 is the offset itself
	if !bytes.Equal(sealed[:8], bytes.Repeat([]byte{0x99}, 8)) {
		t.Errorf("explicit nonce = %x", sealed[:8])
	}
}

func TestSecureRandomBytes(t *testing.T) {
	a, err := crypto.SecureRandomBytes(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := crypto.SecureRandomBytes(32)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 32 || bytes.Equal(a, b) {
		t.Error("SecureRandomBytes should return distinct 32-byte values")
	}
	crypto.Zeroize(a)
	if !bytes.Equal(a, make([]byte, 32)) {
		t.Error("Zeroize should clear the buffer")
	}
	if !crypto.ConstantTimeCompare(b, b) || crypto.ConstantTimeCompare(a, b) {
		t.Error("ConstantTimeCompare mismatch")
	}
}
