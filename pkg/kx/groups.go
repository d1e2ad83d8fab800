// Package kx is the key-exchange counterpart of the suite registry: the named
// groups a TLS endpoint can offer in its key_share, and the selection of one
// group per connection.
//
// TLS 1.3 suites carry KeyExchangeBulkOnly because key exchange is negotiated
// separately, through supported_groups. This package fills that role.
//
// Supported groups:
//   - X25519MLKEM768: hybrid post-quantum (ML-KEM-768 + X25519)
//   - X25519 (RFC 7748)
//   - secp256r1, secp384r1 (NIST P-256, P-384)
//   - MLKEM768: pure ML-KEM-768 (FIPS 203)
//
// Every group is driven through the same two-message KEM shape: the
// initiator publishes a share, the responder answers with its own share (or
// ciphertext) and a shared secret, and the initiator completes with the
// responder's answer. ECDH fits this shape directly.
package kx

import (
	"crypto/ecdh"
	"fmt"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/hybrid"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"

	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
	"github.com/sara-star-quant/suitekit/pkg/crypto"
)

// GroupID is a TLS NamedGroup code point.
type GroupID uint16

// Named group code points (IANA TLS Supported Groups registry).
const (
	GroupSecp256r1      GroupID = 0x0017
	GroupSecp384r1      GroupID = 0x0018
	GroupX25519         GroupID = 0x001d
	GroupMLKEM768       GroupID = 0x0201
	GroupX25519MLKEM768 GroupID = 0x11ec
)

// Initiator is the key-exchange state held between sending a share and
// receiving the peer's answer. It is single-use.
type Initiator interface {
	// Share returns the public share to send.
	Share() []byte
	// Complete derives the shared secret from the responder's answer.
	Complete(answer []byte) ([]byte, error)
}

type mechanism interface {
	start() (Initiator, error)
	respond(share []byte) (answer, secret []byte, err error)
}

// Group is a named key-exchange group. Groups are package-level singletons.
type Group struct {
	id          GroupID
	name        string
	shareSize   int
	fips        bool
	postQuantum bool
	mech        mechanism
}

// ID returns the TLS code point.
func (g *Group) ID() GroupID { return g.id }

// Name returns the registry name, e.g. "X25519MLKEM768".
func (g *Group) Name() string { return g.name }

// ShareSize returns the size of the initiator's public share in bytes.
func (g *Group) ShareSize() int { return g.shareSize }

// IsFIPSApproved reports whether every component is FIPS 140-3 approved.
func (g *Group) IsFIPSApproved() bool { return g.fips }

// IsPostQuantum reports whether the group resists quantum attack.
func (g *Group) IsPostQuantum() bool { return g.postQuantum }

func (g *Group) String() string { return g.name }

// Start begins a key exchange as the initiator (the TLS client).
func (g *Group) Start() (Initiator, error) {
	st, err := g.mech.start()
	if err != nil {
		return nil, qerrors.NewCryptoError(g.name+".Start", err)
	}
	return st, nil
}

// Respond answers an initiator share (the TLS server side). It returns the
// bytes to send back and the shared secret.
func (g *Group) Respond(share []byte) (answer, secret []byte, err error) {
	if len(share) != g.shareSize {
		return nil, nil, qerrors.NewCryptoError(g.name+".Respond", qerrors.ErrInvalidKeySize)
	}
	answer, secret, err = g.mech.respond(share)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError(g.name+".Respond", err)
	}
	return answer, secret, nil
}

// --- ECDH ---

type ecdhMechanism struct {
	curve ecdh.Curve
}

type ecdhInitiator struct {
	curve ecdh.Curve
	priv  *ecdh.PrivateKey
}

func (m ecdhMechanism) start() (Initiator, error) {
	priv, err := m.curve.GenerateKey(crypto.Reader)
	if err != nil {
		return nil, err
	}
	return &ecdhInitiator{curve: m.curve, priv: priv}, nil
}

func (m ecdhMechanism) respond(share []byte) ([]byte, []byte, error) {
	peer, err := m.curve.NewPublicKey(share)
	if err != nil {
		return nil, nil, err
	}
	priv, err := m.curve.GenerateKey(crypto.Reader)
	if err != nil {
		return nil, nil, err
	}
	secret, err := priv.ECDH(peer)
	if err != nil {
		return nil, nil, err
	}
	return priv.PublicKey().Bytes(), secret, nil
}

func (i *ecdhInitiator) Share() []byte { return i.priv.PublicKey().Bytes() }

func (i *ecdhInitiator) Complete(answer []byte) ([]byte, error) {
	peer, err := i.curve.NewPublicKey(answer)
	if err != nil {
		return nil, qerrors.NewCryptoError("ECDH.Complete", err)
	}
	secret, err := i.priv.ECDH(peer)
	if err != nil {
		return nil, qerrors.NewCryptoError("ECDH.Complete", err)
	}
	return secret, nil
}

// --- KEM ---

type kemMechanism struct {
	scheme kem.Scheme
}

type kemInitiator struct {
	scheme kem.Scheme
	pub    []byte
	priv   kem.PrivateKey
}

func (m kemMechanism) start() (Initiator, error) {
	pk, sk, err := m.scheme.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	pub, err := pk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return &kemInitiator{scheme: m.scheme, pub: pub, priv: sk}, nil
}

func (m kemMechanism) respond(share []byte) ([]byte, []byte, error) {
	pk, err := m.scheme.UnmarshalBinaryPublicKey(share)
	if err != nil {
		return nil, nil, err
	}
	return m.scheme.Encapsulate(pk)
}

func (i *kemInitiator) Share() []byte { return i.pub }

func (i *kemInitiator) Complete(answer []byte) ([]byte, error) {
	if len(answer) != i.scheme.CiphertextSize() {
		return nil, qerrors.NewCryptoError(i.scheme.Name()+".Complete", qerrors.ErrCiphertextTooShort)
	}
	secret, err := i.scheme.Decapsulate(i.priv, answer)
	if err != nil {
		return nil, qerrors.NewCryptoError(i.scheme.Name()+".Complete", err)
	}
	return secret, nil
}

func kemGroup(id GroupID, name string, scheme kem.Scheme, fips bool) *Group {
	return &Group{
		id:          id,
		name:        name,
		shareSize:   scheme.PublicKeySize(),
		fips:        fips,
		postQuantum: true,
		mech:        kemMechanism{scheme: scheme},
	}
}

func ecdhGroup(id GroupID, name string, curve ecdh.Curve, shareSize int, fips bool) *Group {
	return &Group{
		id:        id,
		name:      name,
		shareSize: shareSize,
		fips:      fips,
		mech:      ecdhMechanism{curve: curve},
	}
}

// Registered groups.
var (
	X25519MLKEM768 = kemGroup(GroupX25519MLKEM768, "X25519MLKEM768", hybrid.X25519MLKEM768(), false)
	X25519         = ecdhGroup(GroupX25519, "X25519", ecdh.X25519(), 32, false)
	P256           = ecdhGroup(GroupSecp256r1, "secp256r1", ecdh.P256(), 65, true)
	P384           = ecdhGroup(GroupSecp384r1, "secp384r1", ecdh.P384(), 97, true)
	MLKEM768       = kemGroup(GroupMLKEM768, "MLKEM768", mlkem768.Scheme(), true)
)

// allGroups is in preference order, most preferred first.
var allGroups = []*Group{X25519MLKEM768, X25519, P256, P384, MLKEM768}

// AllGroups returns every registered group in preference order.
func AllGroups() []*Group {
	return append([]*Group(nil), allGroups...)
}

// DefaultGroups returns the groups enabled when nothing else is configured.
// In FIPS mode only approved groups are returned.
func DefaultGroups() []*Group {
	out := make([]*Group, 0, len(allGroups))
	for _, g := range allGroups {
		if crypto.FIPSMode() && !g.fips {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Lookup returns the group registered under id, or nil.
func Lookup(id GroupID) *Group {
	for _, g := range allGroups {
		if g.id == id {
			return g
		}
	}
	return nil
}

// LookupName returns the group registered under name, or nil. Both the
// registry name and the common curve alias ("P-256", "P-384") are accepted.
func LookupName(name string) *Group {
	switch name {
	case "P-256", "P256":
		return P256
	case "P-384", "P384":
		return P384
	}
	for _, g := range allGroups {
		if g.name == name {
			return g
		}
	}
	return nil
}

func (id GroupID) String() string {
	if g := Lookup(id); g != nil {
		return g.name
	}
	return fmt.Sprintf("Unknown(0x%04x)", uint16(id))
}
