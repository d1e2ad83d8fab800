package suites

import (
	"errors"
	"fmt"
	"sync"

	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
	"github.com/sara-star-quant/suitekit/pkg/crypto"
)

var (
	selfTestErr  error
	selfTestOnce sync.Once
)

// SelfTest checks the catalog's structural invariants. It runs once, at
// package load; later calls return the recorded result.
//
// A failure is a build defect, so init panics on it.
func SelfTest() error {
	selfTestOnce.Do(func() {
		selfTestErr = verifyCatalog(allCipherSuites)
	})
	return selfTestErr
}

func verifyCatalog(list []*SupportedCipherSuite) error {
	var errs []error
	seen := make(map[CipherSuiteID]bool, len(list))

	for _, s := range list {
		if err := verifySuite(s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Suite, err))
		}
		if seen[s.Suite] {
			errs = append(errs, fmt.Errorf("%s: duplicate suite id", s.Suite))
		}
		seen[s.Suite] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", qerrors.ErrSelfTestFailed, errors.Join(errs...))
	}
	return nil
}

func verifySuite(s *SupportedCipherSuite) error {
	if s.KDF == nil || s.AEAD == nil {
		return errors.New("missing primitive handle")
	}
	if s.EncKeyLen != s.AEAD.KeySize() {
		return fmt.Errorf("enc key length %d does not match %s", s.EncKeyLen, s.AEAD)
	}
	if hashOf(s.Hash) != s.GetHash() {
		return fmt.Errorf("hash %s does not match %s", s.Hash, s.KDF)
	}
	if s.FixedIVLen+s.ExplicitNonceLen != s.AEAD.NonceSize() {
		return fmt.Errorf("nonce layout %d+%d does not fill %d bytes",
			s.FixedIVLen, s.ExplicitNonceLen, s.AEAD.NonceSize())
	}

	switch b := s.Binding.(type) {
	case TLS13Binding:
		if s.Sign != nil {
			return errors.New("TLS 1.3 suite carries a sign list")
		}
		if s.KeyExchange != KeyExchangeBulkOnly {
			return errors.New("TLS 1.3 suite carries a key exchange")
		}
	case TLS12Binding:
		if b.Encrypter == nil || b.Decrypter == nil {
			return errors.New("TLS 1.2 suite missing record builders")
		}
		if len(s.Sign) == 0 {
			return errors.New("TLS 1.2 suite has no signature schemes")
		}
	default:
		return errors.New("no version binding")
	}
	return nil
}

func hashOf(h HashAlgorithm) *crypto.Hash {
	switch h {
	case HashSHA256:
		return crypto.SHA256
	case HashSHA384:
		return crypto.SHA384
	case HashSHA512:
		return crypto.SHA512
	default:
		return nil
	}
}

func init() {
	if err := SelfTest(); err != nil {
		panic(err)
	}
}
