package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/sara-star-quant/suitekit/pkg/kx"
	"github.com/sara-star-quant/suitekit/pkg/metrics"
	"github.com/sara-star-quant/suitekit/pkg/suites"
	pkgversion "github.com/sara-star-quant/suitekit/pkg/version"
)

type verdict int

const (
	verdictAccept verdict = iota
	verdictReject
)

// probeResult is a probe's outcome. reason is set for REJECT.
type probeResult struct {
	verdict verdict
	reason  error
}

func (v verdict) String() string {
	if v == verdictAccept {
		return "ACCEPT"
	}
	return "REJECT"
}

// tlsCurves maps registry groups to the crypto/tls identifiers it can offer.
var tlsCurves = map[kx.GroupID]tls.CurveID{
	kx.GroupX25519MLKEM768: tls.X25519MLKEM768,
	kx.GroupX25519:         tls.X25519,
	kx.GroupSecp256r1:      tls.CurveP256,
	kx.GroupSecp384r1:      tls.CurveP384,
}

func probeCommand(args []string, stdout io.Writer) error {
	fs := newFlagSet("probe", "probe [options] HOST PORT [CAFILE]", stdout)
	timeout := fs.Duration("timeout", 10*time.Second, "Connect and read timeout")
	versionName := fs.String("version", "", "Pin the protocol version: tls12 or tls13 (default: both)")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	if fs.NArg() != 2 && fs.NArg() != 3 {
		return usageError{"Incorrect number of arguments"}
	}
	host := fs.Arg(0)
	port, err := strconv.ParseUint(fs.Arg(1), 10, 16)
	if err != nil {
		return usageError{fmt.Sprintf("invalid port %q", fs.Arg(1))}
	}

	var pin suites.ProtocolVersion
	if *versionName != "" {
		v, ok := suites.ParseVersion(*versionName)
		if !ok || (v != suites.TLS12 && v != suites.TLS13) {
			return usageError{fmt.Sprintf("unsupported version: %s", *versionName)}
		}
		pin = v
	}

	cfg, err := probeTLSConfig(host, fs.Arg(2), pin)
	if err != nil {
		return usageError{err.Error()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := probe(ctx, net.JoinHostPort(host, strconv.FormatUint(port, 10)), cfg)
	if err != nil {
		return err
	}
	if res.reason != nil {
		fmt.Fprintln(stdout, res.reason)
	}
	fmt.Fprintln(stdout, res.verdict)
	return nil
}

// probeTLSConfig restricts crypto/tls to the default catalog. crypto/tls
// does not let callers narrow TLS 1.3 suites, so only the TLS 1.2 list is
// passed through. An empty caFile trusts the system roots.
func probeTLSConfig(host, caFile string, pin suites.ProtocolVersion) (*tls.Config, error) {
	cfg := &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS13,
	}
	if pin != 0 {
		cfg.MinVersion, cfg.MaxVersion = uint16(pin), uint16(pin)
	}

	for _, s := range suites.ReduceGivenVersion(suites.DefaultCipherSuites(), suites.TLS12) {
		cfg.CipherSuites = append(cfg.CipherSuites, uint16(s.Suite))
	}
	for _, g := range kx.DefaultGroups() {
		if id, ok := tlsCurves[g.ID()]; ok {
			cfg.CurvePreferences = append(cfg.CurvePreferences, id)
		}
	}

	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", caFile)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

// probe sends one HTTP request over TLS. It reports ACCEPT once any
// application data arrives and REJECT, with the reason, when the handshake
// fails on certificate verification or a peer alert. Other failures are
// returned as errors.
func probe(ctx context.Context, addr string, cfg *tls.Config) (probeResult, error) {
	ctx, end := metrics.StartSpan(ctx, metrics.SpanProbe,
		metrics.WithSpanKind(metrics.SpanKindClient),
		metrics.WithAttributes(map[string]any{"net.peer.name": addr}))
	log := metrics.GetLogger().Named("probe").With(metrics.Fields{"addr": addr})

	res, err := communicate(ctx, addr, cfg)
	switch {
	case err != nil:
		log.Warn("probe failed", metrics.Fields{"error": err})
	case res.reason != nil:
		log.Debug("server rejected", metrics.Fields{"reason": res.reason})
	default:
		log.Debug("server accepted")
	}
	end(err)
	return res, err
}

func communicate(ctx context.Context, addr string, cfg *tls.Config) (probeResult, error) {
	dialer := &tls.Dialer{Config: cfg}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if isRejection(err) {
			return probeResult{verdict: verdictReject, reason: err}, nil
		}
		return probeResult{}, err
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	req := "GET / HTTP/1.0\r\nConnection: close\r\nContent-Length: 0\r\nUser-Agent: " +
		pkgversion.UserAgent() + "\r\n\r\n"
	if _, err := io.WriteString(conn, req); err != nil {
		if isRejection(err) {
			return probeResult{verdict: verdictReject, reason: err}, nil
		}
		return probeResult{}, err
	}

	var buf [1]byte
	n, err := conn.Read(buf[:])
	if n > 0 {
		return probeResult{verdict: verdictAccept}, nil
	}
	if err != nil && isRejection(err) {
		return probeResult{verdict: verdictReject, reason: err}, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return probeResult{}, errors.New("connection closed")
	}
	return probeResult{}, err
}

func isRejection(err error) bool {
	var (
		verr     *tls.CertificateVerificationError
		alert    tls.AlertError
		unknown  x509.UnknownAuthorityError
		hostname x509.HostnameError
		invalid  x509.CertificateInvalidError
	)
	return errors.As(err, &verr) ||
		errors.As(err, &alert) ||
		errors.As(err, &unknown) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid)
}
