// kdf.go binds HKDF (RFC 5869) to the hash of a cipher suite.
//
// TLS 1.3 derives every traffic secret through HKDF-Extract and
// HKDF-Expand-Label (RFC 8446 §7.1):
//
//	HKDF-Expand-Label(Secret, Label, Context, Length) =
//	    HKDF-Expand(Secret, HkdfLabel, Length)
//
//	struct {
//	    uint16 length = Length;
//	    opaque label<7..255> = "tls13 " + Label;
//	    opaque context<0..255> = Context;
//	} HkdfLabel;
//
// The key schedule itself lives in the handshake layer; this file only
// provides the algorithm handle a suite descriptor carries.
package crypto

import (
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/crypto/hkdf"

	"github.com/sara-star-quant/suitekit/internal/constants"
	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
)

// HKDF is a key-derivation handle tied to one hash function.
type HKDF struct {
	name string
	hash *Hash
}

// HKDF handles used by the catalog.
var (
	HKDFSHA256 = &HKDF{name: "HKDF-SHA256", hash: SHA256}
	HKDFSHA384 = &HKDF{name: "HKDF-SHA384", hash: SHA384}
)

// Name returns the algorithm name, e.g. "HKDF-SHA256".
func (k *HKDF) Name() string { return k.name }

// Hash returns the underlying digest handle.
func (k *HKDF) Hash() *Hash { return k.hash }

func (k *HKDF) String() string { return k.name }

// Extract computes HKDF-Extract(salt, secret). A nil salt is treated as a
// string of Hash.Size() zero bytes.
func (k *HKDF) Extract(secret, salt []byte) []byte {
	return hkdf.Extract(k.hash.New, secret, salt)
}

// Expand computes HKDF-Expand(prk, info, length).
//
// Returns an error if length exceeds 255*Hash.Size().
func (k *HKDF) Expand(prk, info []byte, length int) ([]byte, error) {
	if length <= 0 || length > 255*k.hash.Size() {
		return nil, qerrors.NewCryptoError("HKDF.Expand", qerrors.ErrInvalidKeySize)
	}
	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.Expand(k.hash.New, prk, info), out); err != nil {
		return nil, qerrors.NewCryptoError("HKDF.Expand", err)
	}
	return out, nil
}

// ExpandLabel computes HKDF-Expand-Label as defined by RFC 8446.
func (k *HKDF) ExpandLabel(secret []byte, label string, context []byte, length int) ([]byte, error) {
	fullLabel := len(constants.HKDFLabelPrefix) + len(label)
	if length > math.MaxUint16 || fullLabel > math.MaxUint8 || len(context) > math.MaxUint8 {
		return nil, qerrors.NewCryptoError("HKDF.ExpandLabel", qerrors.ErrInvalidKeySize)
	}
	info := make([]byte, 0, 2+1+fullLabel+1+len(context))
	info = binary.BigEndian.AppendUint16(info, uint16(length)) // checked above
	info = append(info, byte(fullLabel))
	info = append(info, constants.HKDFLabelPrefix...)
	info = append(info, label...)
	info = append(info, byte(len(context)))
	info = append(info, context...)
	return k.Expand(secret, info, length)
}
