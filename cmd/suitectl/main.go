// Command suitectl inspects the suitekit cipher-suite catalog, runs
// negotiations, probes TLS servers and serves the negotiation HTTP API.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	pkgversion "github.com/sara-star-quant/suitekit/pkg/version"
)

// Build-time variables (set via -ldflags)
var (
	version   = ""        // Set via -ldflags "-X main.version=x.y.z"
	buildTime = "unknown" // Set via -ldflags "-X main.buildTime=..."
	gitCommit = "unknown" // Set via -ldflags "-X main.gitCommit=..."
)

func getVersion() string {
	if version != "" {
		return version
	}
	return pkgversion.String()
}

// usageError marks bad command-line input. main exits 2 for it.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	err := run(os.Args[1], os.Args[2:], os.Stdout)
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var uerr usageError
	if errors.As(err, &uerr) {
		os.Exit(2)
	}
	os.Exit(1)
}

func run(command string, args []string, stdout io.Writer) error {
	switch command {
	case "list":
		return listCommand(args, stdout)
	case "negotiate":
		return negotiateCommand(args, stdout)
	case "resume":
		return resumeCommand(args, stdout)
	case "probe":
		return probeCommand(args, stdout)
	case "serve":
		return serveCommand(args, stdout)
	case "bench":
		return benchCommand(args, stdout)
	case "version":
		fmt.Fprintf(stdout, "suitectl version %s\n", getVersion())
		if buildTime != "unknown" {
			fmt.Fprintf(stdout, "Built: %s\n", buildTime)
		}
		if gitCommit != "unknown" {
			fmt.Fprintf(stdout, "Commit: %s\n", gitCommit)
		}
		return nil
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		printUsage(os.Stderr)
		return usageError{fmt.Sprintf("unknown command: %s", command)}
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `suitectl - TLS cipher-suite catalog and negotiation tool

USAGE:
    suitectl <command> [options]

COMMANDS:
    list        Show the cipher-suite catalog and key-exchange groups
    negotiate   Negotiate a suite against a simulated ClientHello
    resume      Check whether a session may resume under another suite
    probe       Connect to a TLS server using the catalog (trytls-style)
    serve       Serve the negotiation HTTP API with metrics and health
    bench       Benchmark negotiation and key exchange
    version     Print version information
    help        Show this help message

Run 'suitectl <command> --help' for more information on a command.

EXAMPLES:
    # Show TLS 1.2 suites usable with an ECDSA certificate
    suitectl list --version tls12 --sigalg ECDSA

    # Negotiate with client preference
    suitectl negotiate --policy client --version tls13 \
        --suites TLS13_CHACHA20_POLY1305_SHA256,TLS13_AES_128_GCM_SHA256 \
        --schemes ECDSA_NISTP256_SHA256 --groups X25519

    # Probe a server, trusting a private CA
    suitectl probe localhost 8443 ca.pem

    # Serve the API and metrics
    suitectl serve --addr :8080 --config suitekit.yaml`)
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name, usage string, stdout io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		fmt.Fprintf(stdout, "USAGE: suitectl %s\n\nOPTIONS:\n", usage)
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses args. It reports done when --help was requested.
func parseFlags(fs *flag.FlagSet, args []string) (done bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, usageError{err.Error()}
	}
	return false, nil
}
