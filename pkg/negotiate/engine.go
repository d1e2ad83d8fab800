// Package negotiate runs the server side of cipher-suite negotiation on top
// of the suites catalog and the kx group registry.
//
// An Engine applies, in order: the version filter, the certificate-key
// filter, the configured preference policy, signature-scheme resolution and
// key-exchange group selection. The suites package only ever reports an empty
// outcome; this package turns empty outcomes into errors and reports every
// decision to the metrics package.
//
// Example:
//
//	cfg, err := negotiate.LoadConfig("suitekit.yaml")
//	if err != nil {
//		return err
//	}
//	engine, err := negotiate.New(cfg)
//	if err != nil {
//		return err
//	}
//	res, err := engine.Negotiate(ctx, negotiate.Request{
//		Version:          suites.TLS13,
//		CipherSuites:     []suites.CipherSuiteID{suites.TLS13_AES_128_GCM_SHA256},
//		SignatureSchemes: []suites.SignatureScheme{suites.ECDSA_NISTP256_SHA256},
//		Groups:           []kx.GroupID{kx.GroupX25519},
//	})
package negotiate

import (
	"context"
	"slices"

	"github.com/google/uuid"

	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
	"github.com/sara-star-quant/suitekit/pkg/kx"
	"github.com/sara-star-quant/suitekit/pkg/metrics"
	"github.com/sara-star-quant/suitekit/pkg/suites"
)

// Phases reported in NegotiationError.
const (
	PhaseVersion     = "version"
	PhaseCipherSuite = "cipher_suite"
	PhaseSignature   = "signature"
	PhaseGroup       = "group"
	PhaseResumption  = "resumption"
)

// Request is what the peer offered, in the peer's preference order.
type Request struct {
	Version          suites.ProtocolVersion
	CipherSuites     []suites.CipherSuiteID
	SignatureSchemes []suites.SignatureScheme
	Groups           []kx.GroupID
}

// Result is a successful negotiation.
type Result struct {
	// ID correlates the negotiation's log lines and spans.
	ID string

	Version suites.ProtocolVersion
	Suite   *suites.SupportedCipherSuite

	// SignatureSchemes are the acceptable schemes, most preferred first.
	// For TLS 1.2 they come from the suite's sign list; for TLS 1.3 they are
	// the offered schemes the configured keys can produce.
	SignatureSchemes []suites.SignatureScheme

	Group *kx.Group

	// Candidates is the local suite list after the version and key filters.
	Candidates []*suites.SupportedCipherSuite
}

// Engine negotiates cipher suites. It is safe for concurrent use.
type Engine struct {
	settings Settings
	observer *metrics.NegotiationObserver
	logger   *metrics.Logger
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	observer metrics.ObserverConfig
}

// WithLogger sets the engine's logger.
func WithLogger(l *metrics.Logger) Option {
	return func(o *options) { o.observer.Logger = l }
}

// WithTracer sets the engine's tracer.
func WithTracer(t metrics.Tracer) Option {
	return func(o *options) { o.observer.Tracer = t }
}

// WithCollector sets the engine's metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(o *options) { o.observer.Collector = c }
}

// New validates cfg and creates an engine. Unset options fall back to the
// metrics package globals.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	observer := metrics.NewNegotiationObserver(o.observer)
	return &Engine{
		settings: settings,
		observer: observer,
		logger:   observer.Logger(),
	}, nil
}

// Settings returns the resolved configuration.
func (e *Engine) Settings() Settings { return e.settings }

// Candidates returns the local suites usable for v with the configured keys,
// in local preference order.
func (e *Engine) Candidates(v suites.ProtocolVersion) []*suites.SupportedCipherSuite {
	local := suites.ReduceGivenVersion(e.settings.CipherSuites, v)
	if len(e.settings.KeyAlgs) == 0 {
		return local
	}
	out := make([]*suites.SupportedCipherSuite, 0, len(local))
	for _, s := range local {
		for _, alg := range e.settings.KeyAlgs {
			if s.UsableForSigAlg(alg) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Negotiate selects a suite, its signature schemes and a key-exchange group
// for req. Failures are *NegotiationError values wrapping one of the
// negotiation sentinels.
func (e *Engine) Negotiate(ctx context.Context, req Request) (*Result, error) {
	id := uuid.NewString()
	ctx, done := e.observer.OnNegotiationStart(ctx, metrics.NegotiationAttributes{
		NegotiationID: id,
		Version:       req.Version.String(),
		Policy:        e.settings.Policy.String(),
		Offered:       len(req.CipherSuites),
	})

	res, err := e.negotiate(ctx, req)
	if err != nil {
		done(metrics.NegotiationResult{Outcome: outcomeOf(err), Err: err})
		return nil, err
	}
	res.ID = id
	done(metrics.NegotiationResult{
		Outcome: metrics.OutcomeSelected,
		Suite:   res.Suite.String(),
		Group:   res.Group.Name(),
	})
	return res, nil
}

func (e *Engine) negotiate(ctx context.Context, req Request) (*Result, error) {
	if !slices.Contains(e.settings.Versions, req.Version) {
		return nil, qerrors.NewNegotiationError(PhaseVersion, qerrors.ErrUnsupportedVersion)
	}

	candidates := e.Candidates(req.Version)
	if len(candidates) == 0 {
		return nil, qerrors.NewNegotiationError(PhaseCipherSuite, qerrors.ErrNoCandidateSuites)
	}

	suite := e.chooseSuite(ctx, req.CipherSuites, candidates)
	if suite == nil {
		return nil, qerrors.NewNegotiationError(PhaseCipherSuite, qerrors.ErrNoSharedCipherSuite)
	}

	schemes := e.resolveSchemes(ctx, suite, candidates, req.SignatureSchemes)
	if len(schemes) == 0 {
		return nil, qerrors.NewNegotiationError(PhaseSignature, qerrors.ErrNoSignatureScheme)
	}

	group := e.chooseGroup(ctx, req.Groups)
	if group == nil {
		return nil, qerrors.NewNegotiationError(PhaseGroup, qerrors.ErrNoSharedGroup)
	}

	return &Result{
		Version:          req.Version,
		Suite:            suite,
		SignatureSchemes: schemes,
		Group:            group,
		Candidates:       candidates,
	}, nil
}

func (e *Engine) chooseSuite(ctx context.Context, offered []suites.CipherSuiteID, local []*suites.SupportedCipherSuite) *suites.SupportedCipherSuite {
	_, end := e.observer.Tracer().StartSpan(ctx, metrics.SpanChooseSuite,
		metrics.WithAttributes(map[string]any{"tls.candidates": len(local)}))
	suite := e.settings.Policy.Choose(offered, local)
	if suite == nil {
		end(qerrors.ErrNoSharedCipherSuite)
		return nil
	}
	e.logger.Debug("cipher suite chosen", metrics.Fields{"suite": suite.String()})
	end(nil)
	return suite
}

// resolveSchemes drops offered schemes no candidate suite can be used with,
// then applies the suite's sign list when it has one. Suites without one
// leave authentication to the remaining schemes the configured keys can
// produce, in the peer's order.
func (e *Engine) resolveSchemes(ctx context.Context, suite *suites.SupportedCipherSuite,
	candidates []*suites.SupportedCipherSuite, offered []suites.SignatureScheme) []suites.SignatureScheme {
	_, end := e.observer.Tracer().StartSpan(ctx, metrics.SpanResolveSchemes,
		metrics.WithAttributes(map[string]any{"tls.cipher_suite": suite.String()}))

	compatible := slices.DeleteFunc(slices.Clone(offered), func(s suites.SignatureScheme) bool {
		return !suites.CompatibleSigSchemeForSuites(s, candidates)
	})

	var schemes []suites.SignatureScheme
	if suite.Sign != nil {
		schemes = suite.ResolveSigSchemes(compatible)
	} else {
		schemes = compatible
	}
	schemes = slices.DeleteFunc(schemes, func(s suites.SignatureScheme) bool {
		return !e.keyCanSign(s.Sign())
	})

	if len(schemes) == 0 {
		end(qerrors.ErrNoSignatureScheme)
		return nil
	}
	end(nil)
	return schemes
}

func (e *Engine) keyCanSign(alg suites.SignatureAlgorithm) bool {
	if alg == suites.SignatureAnonymous {
		return false
	}
	return len(e.settings.KeyAlgs) == 0 || slices.Contains(e.settings.KeyAlgs, alg)
}

func (e *Engine) chooseGroup(ctx context.Context, offered []kx.GroupID) *kx.Group {
	_, end := e.observer.Tracer().StartSpan(ctx, metrics.SpanChooseGroup)
	g := kx.Choose(e.settings.Policy, offered, e.settings.Groups)
	if g == nil {
		end(qerrors.ErrNoSharedGroup)
		return nil
	}
	e.logger.Debug("group chosen", metrics.Fields{"group": g.Name()})
	end(nil)
	return g
}

// Resume decides whether a session established under prev may resume under
// next. It returns a *NegotiationError wrapping ErrResumptionIncompatible
// when it may not.
func (e *Engine) Resume(ctx context.Context, prev, next *suites.SupportedCipherSuite) error {
	ok := prev != nil && prev.CanResumeTo(next)
	e.observer.OnResumption(ctx, suiteName(prev), suiteName(next), ok)
	if !ok {
		return qerrors.NewNegotiationError(PhaseResumption, qerrors.ErrResumptionIncompatible)
	}
	return nil
}

func suiteName(s *suites.SupportedCipherSuite) string {
	if s == nil {
		return ""
	}
	return s.String()
}

func outcomeOf(err error) string {
	switch {
	case qerrors.Is(err, qerrors.ErrNoSharedCipherSuite):
		return metrics.OutcomeNoShared
	case qerrors.Is(err, qerrors.ErrNoCandidateSuites):
		return metrics.OutcomeNoCandidates
	case qerrors.Is(err, qerrors.ErrNoSignatureScheme):
		return metrics.OutcomeNoScheme
	case qerrors.Is(err, qerrors.ErrNoSharedGroup):
		return metrics.OutcomeNoGroup
	default:
		return metrics.OutcomeError
	}
}
