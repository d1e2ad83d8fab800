package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sara-star-quant/suitekit/pkg/negotiate"
	"github.com/sara-star-quant/suitekit/pkg/suites"
)

func negotiateCommand(args []string, stdout io.Writer) error {
	fs := newFlagSet("negotiate", "negotiate [options]", stdout)
	var common commonFlags
	common.register(fs)
	versionName := fs.String("version", "tls13", "Protocol version the client offers")
	offered := fs.String("suites", "", "Comma-separated cipher suites, in client preference order")
	schemes := fs.String("schemes", "ECDSA_NISTP256_SHA256,RSA_PSS_SHA256,ED25519", "Comma-separated signature schemes offered")
	groups := fs.String("groups", "X25519MLKEM768,X25519,secp256r1", "Comma-separated key-exchange groups offered")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}

	body := negotiate.RequestJSON{
		Version:          *versionName,
		CipherSuites:     splitList(*offered),
		SignatureSchemes: splitList(*schemes),
		Groups:           splitList(*groups),
	}
	if len(body.CipherSuites) == 0 {
		for _, s := range suites.AllCipherSuites() {
			body.CipherSuites = append(body.CipherSuites, s.String())
		}
	}
	req, err := body.Request()
	if err != nil {
		return usageError{err.Error()}
	}

	engine, _, err := common.engine(nil)
	if err != nil {
		return err
	}
	res, err := engine.Negotiate(context.Background(), req)
	if err != nil {
		return err
	}

	names := make([]string, len(res.SignatureSchemes))
	for i, s := range res.SignatureSchemes {
		names[i] = s.String()
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(negotiate.ResultJSON{
			ID:               res.ID,
			Version:          res.Version.String(),
			Suite:            res.Suite.String(),
			SignatureSchemes: names,
			Group:            res.Group.Name(),
		})
	}

	fmt.Fprintln(stdout, titleStyle.Render("Negotiated "+res.ID))
	fmt.Fprintln(stdout, field("Version", res.Version.String()))
	fmt.Fprintln(stdout, field("Suite", successStyle.Render(res.Suite.String())))
	fmt.Fprintln(stdout, field("Schemes", strings.Join(names, ", ")))
	fmt.Fprintln(stdout, field("Group", res.Group.Name()))
	fmt.Fprintln(stdout, field("Policy", engine.Settings().Policy.String()))
	return nil
}

func resumeCommand(args []string, stdout io.Writer) error {
	fs := newFlagSet("resume", "resume [options] FROM_SUITE TO_SUITE", stdout)
	var common commonFlags
	common.register(fs)
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usageError{"resume needs exactly two suite names"}
	}

	from, to := suites.LookupName(fs.Arg(0)), suites.LookupName(fs.Arg(1))
	if from == nil {
		return usageError{fmt.Sprintf("unknown cipher suite: %s", fs.Arg(0))}
	}
	if to == nil {
		return usageError{fmt.Sprintf("unknown cipher suite: %s", fs.Arg(1))}
	}

	engine, _, err := common.engine(nil)
	if err != nil {
		return err
	}
	if err := engine.Resume(context.Background(), from, to); err != nil {
		fmt.Fprintf(stdout, "%s %s -> %s\n", errorStyle.Render("NOT RESUMABLE"), from, to)
		return err
	}
	fmt.Fprintf(stdout, "%s %s -> %s\n", successStyle.Render("RESUMABLE"), from, to)
	return nil
}
