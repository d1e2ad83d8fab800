package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
)

// Hash is a handle to a digest algorithm.
type Hash struct {
	name string
	size int
	new  func() hash.Hash
}

// Digest handles used by the catalog.
var (
	SHA256 = &Hash{name: "SHA-256", size: sha256.Size, new: sha256.New}
	SHA384 = &Hash{name: "SHA-384", size: sha512.Size384, new: sha512.New384}
	SHA512 = &Hash{name: "SHA-512", size: sha512.Size, new: sha512.New}
)

// Name returns the algorithm name, e.g. "SHA-384".
func (h *Hash) Name() string { return h.name }

// Size returns the digest length in bytes.
func (h *Hash) Size() int { return h.size }

// New returns a fresh hash.Hash. Allocates.
func (h *Hash) New() hash.Hash { return h.new() }

// Sum hashes data in one shot.
func (h *Hash) Sum(data []byte) []byte {
	hasher := h.new()
	hasher.Write(data)
	return hasher.Sum(nil)
}

// EmptyHash returns the digest of the empty string, used as the transcript
// hash context of several TLS 1.3 derivations.
func (h *Hash) EmptyHash() []byte {
	return h.Sum(nil)
}

func (h *Hash) String() string { return h.name }
