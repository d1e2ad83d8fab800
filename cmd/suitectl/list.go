package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/sara-star-quant/suitekit/pkg/kx"
	"github.com/sara-star-quant/suitekit/pkg/suites"
)

type suiteJSON struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Version          string   `json:"version"`
	Bulk             string   `json:"bulk"`
	Hash             string   `json:"hash"`
	Sign             []string `json:"sign"`
	KeyBlockLen      int      `json:"key_block_len"`
	ExplicitNonceLen int      `json:"explicit_nonce_len"`
	FIPS             bool     `json:"fips"`
	Default          bool     `json:"default"`
}

type groupJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShareSize   int    `json:"share_size"`
	PostQuantum bool   `json:"post_quantum"`
	FIPS        bool   `json:"fips"`
	Default     bool   `json:"default"`
}

type listing struct {
	Suites []suiteJSON `json:"suites"`
	Groups []groupJSON `json:"groups"`
}

func listCommand(args []string, stdout io.Writer) error {
	fs := newFlagSet("list", "list [options]", stdout)
	versionName := fs.String("version", "", "Only suites usable with this version: tls12 or tls13")
	sigAlg := fs.String("sigalg", "", "Only suites usable with this key type: RSA, ECDSA, ED25519, ED448")
	defaultsOnly := fs.Bool("defaults", false, "Only suites and groups enabled by default")
	asJSON := fs.Bool("json", false, "Print JSON instead of tables")
	if done, err := parseFlags(fs, args); done || err != nil {
		return err
	}

	list := suites.AllCipherSuites()
	if *defaultsOnly {
		list = suites.DefaultCipherSuites()
	}
	if *versionName != "" {
		v, ok := suites.ParseVersion(*versionName)
		if !ok {
			return usageError{fmt.Sprintf("unknown version: %s", *versionName)}
		}
		list = suites.ReduceGivenVersion(list, v)
	}
	if *sigAlg != "" {
		alg, ok := suites.ParseSignatureAlgorithm(*sigAlg)
		if !ok {
			return usageError{fmt.Sprintf("unknown signature algorithm: %s", *sigAlg)}
		}
		list = suites.ReduceGivenSigAlg(list, alg)
	}

	groups := kx.AllGroups()
	if *defaultsOnly {
		groups = kx.DefaultGroups()
	}

	l := buildListing(list, groups)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	}
	renderListing(stdout, l)
	return nil
}

func buildListing(list []*suites.SupportedCipherSuite, groups []*kx.Group) listing {
	defaults := suites.DefaultCipherSuites()
	defaultGroups := kx.DefaultGroups()

	l := listing{Suites: []suiteJSON{}, Groups: []groupJSON{}}
	for _, s := range list {
		var sign []string
		for _, scheme := range s.Sign {
			sign = append(sign, scheme.String())
		}
		l.Suites = append(l.Suites, suiteJSON{
			ID:               fmt.Sprintf("0x%04x", uint16(s.Suite)),
			Name:             s.String(),
			Version:          s.Binding.Version().String(),
			Bulk:             s.Bulk.String(),
			Hash:             s.Hash.String(),
			Sign:             sign,
			KeyBlockLen:      s.KeyBlockLen(),
			ExplicitNonceLen: s.ExplicitNonceLen,
			FIPS:             s.AEAD.IsFIPSApproved(),
			Default:          slices.Contains(defaults, s),
		})
	}
	for _, g := range groups {
		l.Groups = append(l.Groups, groupJSON{
			ID:          fmt.Sprintf("0x%04x", uint16(g.ID())),
			Name:        g.Name(),
			ShareSize:   g.ShareSize(),
			PostQuantum: g.IsPostQuantum(),
			FIPS:        g.IsFIPSApproved(),
			Default:     slices.Contains(defaultGroups, g),
		})
	}
	return l
}

func renderListing(w io.Writer, l listing) {
	fmt.Fprintln(w, titleStyle.Render("Cipher suites"))
	st := newTable("ID", "SUITE", "VERSION", "HASH", "SIGN", "KEY BLOCK", "FIPS", "DEFAULT")
	for _, s := range l.Suites {
		sign := "-"
		if s.Sign != nil {
			sign = strings.Join(s.Sign, " ")
		}
		st.Row(s.ID, s.Name, s.Version, s.Hash, sign, strconv.Itoa(s.KeyBlockLen), yesNo(s.FIPS), yesNo(s.Default))
	}
	fmt.Fprintln(w, st.Render())

	fmt.Fprintln(w, titleStyle.Render("Key exchange groups"))
	gt := newTable("ID", "GROUP", "SHARE", "PQ", "FIPS", "DEFAULT")
	for _, g := range l.Groups {
		gt.Row(g.ID, g.Name, strconv.Itoa(g.ShareSize), yesNo(g.PostQuantum), yesNo(g.FIPS), yesNo(g.Default))
	}
	fmt.Fprintln(w, gt.Render())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
