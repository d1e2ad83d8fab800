// record.go provides the TLS 1.2 per-record encrypter and decrypter builders.
//
// A TLS 1.2 cipher suite carries one builder of each kind; a TLS 1.3 suite
// carries none, because TLS 1.3 record protection is uniform across suites.
//
// Nonce construction:
//
//	AES-GCM (RFC 5288):        nonce = salt[4] || explicit[8]
//	                           explicit = nonce_offset XOR seq_num, sent in clear
//	ChaCha20-Poly1305 (RFC 7905): nonce = iv[12] XOR (0^32 || seq_num)
//
// The GCM nonce_offset comes from the key block (explicit_nonce_len bytes), so
// the explicit nonce never repeats for a key and never leaks the sequence
// number directly.
//
// Additional data for both is seq_num(8) || type(1) || version(2) || length(2),
// where length is the plaintext length.
package crypto

import (
	"crypto/cipher"
	"encoding/binary"
	"math"

	"github.com/sara-star-quant/suitekit/internal/constants"
	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
)

// RecordEncrypter seals TLS 1.2 record fragments for one direction.
type RecordEncrypter interface {
	Encrypt(seq uint64, contentType uint8, version uint16, plaintext []byte) ([]byte, error)
}

// RecordDecrypter opens TLS 1.2 record fragments for one direction.
type RecordDecrypter interface {
	Decrypt(seq uint64, contentType uint8, version uint16, fragment []byte) ([]byte, error)
}

// BuildRecordEncrypter constructs an encrypter from the write key, the fixed
// IV and the extra (explicit nonce) bytes carved out of the key block.
type BuildRecordEncrypter func(key, iv, extra []byte) (RecordEncrypter, error)

// BuildRecordDecrypter constructs a decrypter from the read key and fixed IV.
type BuildRecordDecrypter func(key, iv []byte) (RecordDecrypter, error)

// TLS 1.2 builders referenced by the catalog.
var (
	BuildTLS12GCM128Encrypter = gcmEncrypterBuilder(AES128GCM)
	BuildTLS12GCM128Decrypter = gcmDecrypterBuilder(AES128GCM)
	BuildTLS12GCM256Encrypter = gcmEncrypterBuilder(AES256GCM)
	BuildTLS12GCM256Decrypter = gcmDecrypterBuilder(AES256GCM)
	BuildTLS12ChaChaEncrypter = BuildRecordEncrypter(newChaChaEncrypter)
	BuildTLS12ChaChaDecrypter = BuildRecordDecrypter(newChaChaDecrypter)
)

func additionalData(seq uint64, contentType uint8, version uint16, length int) []byte {
	ad := make([]byte, constants.LegacyAdditionalDataSize)
	binary.BigEndian.PutUint64(ad[0:8], seq)
	ad[8] = contentType
	binary.BigEndian.PutUint16(ad[9:11], version)
	binary.BigEndian.PutUint16(ad[11:13], uint16(length)) // bounded by MaxPlaintextSize
	return ad
}

func checkSequence(seq uint64) error {
	// TLS forbids sequence number wrap; the last value is reserved.
	if seq == math.MaxUint64 {
		return qerrors.ErrSequenceExhausted
	}
	return nil
}

// --- AES-GCM ---

type gcmEncrypter struct {
	aead        cipher.AEAD
	salt        [constants.GCMFixedIVSize]byte
	nonceOffset uint64
}

type gcmDecrypter struct {
	aead cipher.AEAD
	salt [constants.GCMFixedIVSize]byte
}

func gcmEncrypterBuilder(alg *AEADAlgorithm) BuildRecordEncrypter {
	return func(key, iv, extra []byte) (RecordEncrypter, error) {
		if len(iv) != constants.GCMFixedIVSize || len(extra) != constants.GCMExplicitNonceSize {
			return nil, qerrors.ErrInvalidIVSize
		}
		aead, err := alg.New(key)
		if err != nil {
			return nil, err
		}
		enc := &gcmEncrypter{
			aead:        aead,
			nonceOffset: binary.BigEndian.Uint64(extra),
		}
		copy(enc.salt[:], iv)
		return enc, nil
	}
}

func gcmDecrypterBuilder(alg *AEADAlgorithm) BuildRecordDecrypter {
	return func(key, iv []byte) (RecordDecrypter, error) {
		if len(iv) != constants.GCMFixedIVSize {
			return nil, qerrors.ErrInvalidIVSize
		}
		aead, err := alg.New(key)
		if err != nil {
			return nil, err
		}
		dec := &gcmDecrypter{aead: aead}
		copy(dec.salt[:], iv)
		return dec, nil
	}
}

// Encrypt returns explicit_nonce || ciphertext || tag.
func (e *gcmEncrypter) Encrypt(seq uint64, contentType uint8, version uint16, plaintext []byte) ([]byte, error) {
	if err := checkSequence(seq); err != nil {
		return nil, err
	}
	if len(plaintext) > constants.MaxPlaintextSize {
		return nil, qerrors.ErrRecordTooLarge
	}

	var nonce [constants.AEADNonceSize]byte
	copy(nonce[:constants.GCMFixedIVSize], e.salt[:])
	binary.BigEndian.PutUint64(nonce[constants.GCMFixedIVSize:], e.nonceOffset^seq)

	out := make([]byte, constants.GCMExplicitNonceSize, constants.GCMExplicitNonceSize+len(plaintext)+e.aead.Overhead())
	copy(out, nonce[constants.GCMFixedIVSize:])
	ad := additionalData(seq, contentType, version, len(plaintext))
	return e.aead.Seal(out, nonce[:], plaintext, ad), nil
}

// Decrypt expects explicit_nonce || ciphertext || tag.
func (d *gcmDecrypter) Decrypt(seq uint64, contentType uint8, version uint16, fragment []byte) ([]byte, error) {
	if len(fragment) < constants.GCMExplicitNonceSize+d.aead.Overhead() {
		return nil, qerrors.ErrCiphertextTooShort
	}

	var nonce [constants.AEADNonceSize]byte
	copy(nonce[:constants.GCMFixedIVSize], d.salt[:])
	copy(nonce[constants.GCMFixedIVSize:], fragment[:constants.GCMExplicitNonceSize])

	ciphertext := fragment[constants.GCMExplicitNonceSize:]
	plainLen := len(ciphertext) - d.aead.Overhead()
	if plainLen > constants.MaxPlaintextSize {
		return nil, qerrors.ErrRecordTooLarge
	}
	ad := additionalData(seq, contentType, version, plainLen)
	plaintext, err := d.aead.Open(nil, nonce[:], ciphertext, ad)
	if err != nil {
		return nil, qerrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// --- ChaCha20-Poly1305 ---

type chachaRecordCipher struct {
	aead cipher.AEAD
	iv   [constants.FullIVSize]byte
}

func newChaChaRecordCipher(key, iv []byte) (*chachaRecordCipher, error) {
	if len(iv) != constants.FullIVSize {
		return nil, qerrors.ErrInvalidIVSize
	}
	aead, err := ChaCha20Poly1305.New(key)
	if err != nil {
		return nil, err
	}
	c := &chachaRecordCipher{aead: aead}
	copy(c.iv[:], iv)
	return c, nil
}

// newChaChaEncrypter ignores extra: the suite's explicit_nonce_len is zero.
func newChaChaEncrypter(key, iv, _ []byte) (RecordEncrypter, error) {
	c, err := newChaChaRecordCipher(key, iv)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newChaChaDecrypter(key, iv []byte) (RecordDecrypter, error) {
	c, err := newChaChaRecordCipher(key, iv)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *chachaRecordCipher) nonce(seq uint64) [constants.AEADNonceSize]byte {
	nonce := c.iv
	tail := nonce[constants.AEADNonceSize-8:]
	binary.BigEndian.PutUint64(tail, binary.BigEndian.Uint64(tail)^seq)
	return nonce
}

func (c *chachaRecordCipher) Encrypt(seq uint64, contentType uint8, version uint16, plaintext []byte) ([]byte, error) {
	if err := checkSequence(seq); err != nil {
		return nil, err
	}
	if len(plaintext) > constants.MaxPlaintextSize {
		return nil, qerrors.ErrRecordTooLarge
	}
	nonce := c.nonce(seq)
	ad := additionalData(seq, contentType, version, len(plaintext))
	return c.aead.Seal(nil, nonce[:], plaintext, ad), nil
}

func (c *chachaRecordCipher) Decrypt(seq uint64, contentType uint8, version uint16, fragment []byte) ([]byte, error) {
	if len(fragment) < c.aead.Overhead() {
		return nil, qerrors.ErrCiphertextTooShort
	}
	plainLen := len(fragment) - c.aead.Overhead()
	if plainLen > constants.MaxPlaintextSize {
		return nil, qerrors.ErrRecordTooLarge
	}
	nonce := c.nonce(seq)
	ad := additionalData(seq, contentType, version, plainLen)
	plaintext, err := c.aead.Open(nil, nonce[:], fragment, ad)
	if err != nil {
		return nil, qerrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}
