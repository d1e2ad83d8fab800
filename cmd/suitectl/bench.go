package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/sara-star-quant/suitekit/pkg/crypto"
	"github.com/sara-star-quant/suitekit/pkg/kx"
	"github.com/sara-star-quant/suitekit/pkg/metrics"
	"github.com/sara-star-quant/suitekit/pkg/negotiate"
	"github.com/sara-star-quant/suitekit/pkg/suites"
)

func benchCommand(args []string, stdout io.Writer) error {
	fs := newFlagSet("bench", "bench [options]", stdout)
	negotiations := fs.Int("negotiations", 10000, "Number of negotiations to run (0 = skip)")
	exchanges := fs.Int("kx", 100, "Key exchanges per group (0 = skip)")
	policy := fs.String("policy", "server", "Negotiation policy: server or client")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	if *negotiations <= 0 && *exchanges <= 0 {
		return usageError{"no benchmarks specified; use --negotiations or --kx"}
	}

	fmt.Fprintln(stdout, titleStyle.Render("suitekit benchmark"))
	fmt.Fprintln(stdout)

	if *negotiations > 0 {
		if err := benchNegotiations(stdout, *negotiations, *policy); err != nil {
			return err
		}
		fmt.Fprintln(stdout)
	}
	if *exchanges > 0 {
		return benchKeyExchange(stdout, *exchanges)
	}
	return nil
}

func benchNegotiations(w io.Writer, count int, policy string) error {
	fmt.Fprintf(w, "Benchmarking Negotiations (%d iterations, %s preference)\n", count, policy)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	cfg := negotiate.DefaultConfig()
	cfg.Policy = policy
	engine, err := negotiate.New(cfg,
		negotiate.WithLogger(metrics.NullLogger()),
		negotiate.WithTracer(metrics.NoOpTracer{}),
		negotiate.WithCollector(metrics.NewCollector("bench", nil)))
	if err != nil {
		return err
	}

	// Offer the catalog in reverse so the two policies pick differently.
	all := suites.AllCipherSuites()
	offered := make([]suites.CipherSuiteID, 0, len(all))
	for _, s := range slices.Backward(all) {
		offered = append(offered, s.Suite)
	}
	req := negotiate.Request{
		CipherSuites:     offered,
		SignatureSchemes: []suites.SignatureScheme{suites.ECDSA_NISTP256_SHA256, suites.RSA_PSS_SHA256},
		Groups:           []kx.GroupID{kx.GroupX25519},
	}

	durations := make([]time.Duration, 0, count)
	failed := 0
	chosen := map[string]int{}
	ctx := context.Background()
	start := time.Now()
	for i := range count {
		req.Version = suites.TLS13
		if i%2 == 1 {
			req.Version = suites.TLS12
		}
		t := time.Now()
		res, err := engine.Negotiate(ctx, req)
		durations = append(durations, time.Since(t))
		if err != nil {
			failed++
			continue
		}
		chosen[res.Suite.String()]++
	}
	total := time.Since(start)

	printResults(w, "Negotiation", count, failed, total, durations)
	for _, name := range slices.Sorted(maps.Keys(chosen)) {
		fmt.Fprintf(w, "  %-48s %d\n", name, chosen[name])
	}
	return nil
}

func benchKeyExchange(w io.Writer, count int) error {
	fmt.Fprintf(w, "Benchmarking Key Exchange (%d per group)\n", count)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, g := range kx.AllGroups() {
		durations := make([]time.Duration, 0, count)
		failed := 0
		start := time.Now()
		for range count {
			t := time.Now()
			if err := exchange(g); err != nil {
				failed++
			}
			durations = append(durations, time.Since(t))
		}
		printResults(w, g.Name(), count, failed, time.Since(start), durations)
	}
	return nil
}

// exchange runs one full key agreement and checks both sides agree.
func exchange(g *kx.Group) error {
	st, err := g.Start()
	if err != nil {
		return err
	}
	answer, serverSecret, err := g.Respond(st.Share())
	if err != nil {
		return err
	}
	clientSecret, err := st.Complete(answer)
	if err != nil {
		return err
	}
	defer crypto.Zeroize(clientSecret)
	defer crypto.Zeroize(serverSecret)
	if !crypto.ConstantTimeCompare(clientSecret, serverSecret) {
		return fmt.Errorf("%s: shared secrets differ", g)
	}
	return nil
}

func printResults(w io.Writer, label string, total, failed int, elapsed time.Duration, durations []time.Duration) {
	if len(durations) == 0 {
		return
	}
	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	avg := sum / time.Duration(len(sorted))
	p99 := sorted[min(len(sorted)-1, len(sorted)*99/100)]

	fmt.Fprintf(w, "\n%s:\n", label)
	fmt.Fprintf(w, "  Total: %d  Successful: %d  Failed: %d  Time: %v\n", total, total-failed, failed, elapsed)
	fmt.Fprintf(w, "  Average: %v  Minimum: %v  Maximum: %v  p99: %v\n", avg, sorted[0], sorted[len(sorted)-1], p99)
	fmt.Fprintf(w, "  Throughput: %.0f ops/sec\n", float64(total)/elapsed.Seconds())
}
