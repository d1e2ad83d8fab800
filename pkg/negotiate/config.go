package negotiate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
	"github.com/sara-star-quant/suitekit/pkg/kx"
	"github.com/sara-star-quant/suitekit/pkg/metrics"
	"github.com/sara-star-quant/suitekit/pkg/suites"
)

var validate = validator.New()

// Config is the YAML document that configures an Engine.
//
//	policy: server
//	versions: [tls13, tls12]
//	cipher_suites: [TLS13_AES_256_GCM_SHA384, TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384]
//	groups: [X25519MLKEM768, X25519]
//	signature_algorithms: [ECDSA]
//	log_level: info
//	log_format: text
//
// Empty lists fall back to the catalog and registry defaults.
// signature_algorithms names the algorithms of the certificate keys the
// server holds; empty means any.
type Config struct {
	Policy              string   `yaml:"policy" validate:"omitempty,oneof=server client"`
	Versions            []string `yaml:"versions" validate:"omitempty,dive,oneof=tls12 tls13 TLSv1.2 TLSv1.3 1.2 1.3"`
	CipherSuites        []string `yaml:"cipher_suites" validate:"omitempty,dive,required"`
	Groups              []string `yaml:"groups" validate:"omitempty,dive,required"`
	SignatureAlgorithms []string `yaml:"signature_algorithms" validate:"omitempty,dive,oneof=RSA ECDSA ED25519 ED448"`
	LogLevel            string   `yaml:"log_level" validate:"omitempty,oneof=debug info warn error silent"`
	LogFormat           string   `yaml:"log_format" validate:"omitempty,oneof=text json"`
}

// DefaultConfig returns server preference over both versions with every
// other list left to its default.
func DefaultConfig() Config {
	return Config{
		Policy:    suites.PreferServer.String(),
		Versions:  []string{"tls13", "tls12"},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML document over DefaultConfig and validates it.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", qerrors.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags and that every named suite, group and
// version resolves. Failures wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", qerrors.ErrInvalidConfig, formatValidationError(err))
	}
	_, err := c.Settings()
	return err
}

func formatValidationError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	field := e.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of [%s]", field, e.Value(), e.Param())
	case "required":
		return fmt.Sprintf("%s: required", field)
	default:
		return fmt.Sprintf("%s: validation failed (%s)", field, e.Tag())
	}
}

// Settings is a Config resolved against the catalog and group registry.
type Settings struct {
	Policy       suites.Policy
	Versions     []suites.ProtocolVersion
	CipherSuites []*suites.SupportedCipherSuite
	Groups       []*kx.Group
	KeyAlgs      []suites.SignatureAlgorithm
}

// Settings resolves every name in the config. Unknown suites and groups are
// reported with ErrUnknownCipherSuite or ErrUnknownGroup alongside
// ErrInvalidConfig.
func (c Config) Settings() (Settings, error) {
	var s Settings

	policy := c.Policy
	if policy == "" {
		policy = suites.PreferServer.String()
	}
	p, ok := suites.ParsePolicy(policy)
	if !ok {
		return Settings{}, fmt.Errorf("%w: unknown policy %q", qerrors.ErrInvalidConfig, c.Policy)
	}
	s.Policy = p

	versions := c.Versions
	if len(versions) == 0 {
		versions = DefaultConfig().Versions
	}
	for _, name := range versions {
		v, ok := suites.ParseVersion(name)
		if !ok || (v != suites.TLS12 && v != suites.TLS13) {
			return Settings{}, fmt.Errorf("%w: %w: %q", qerrors.ErrInvalidConfig, qerrors.ErrUnsupportedVersion, name)
		}
		s.Versions = append(s.Versions, v)
	}

	if len(c.CipherSuites) == 0 {
		s.CipherSuites = suites.DefaultCipherSuites()
	}
	for _, name := range c.CipherSuites {
		cs := suites.LookupName(name)
		if cs == nil {
			return Settings{}, fmt.Errorf("%w: %w: %q", qerrors.ErrInvalidConfig, qerrors.ErrUnknownCipherSuite, name)
		}
		s.CipherSuites = append(s.CipherSuites, cs)
	}

	if len(c.Groups) == 0 {
		s.Groups = kx.DefaultGroups()
	}
	for _, name := range c.Groups {
		g := kx.LookupName(name)
		if g == nil {
			return Settings{}, fmt.Errorf("%w: %w: %q", qerrors.ErrInvalidConfig, qerrors.ErrUnknownGroup, name)
		}
		s.Groups = append(s.Groups, g)
	}

	for _, name := range c.SignatureAlgorithms {
		alg, ok := suites.ParseSignatureAlgorithm(name)
		if !ok {
			return Settings{}, fmt.Errorf("%w: unknown signature algorithm %q", qerrors.ErrInvalidConfig, name)
		}
		s.KeyAlgs = append(s.KeyAlgs, alg)
	}

	return s, nil
}

// Logger builds the logger the config describes, writing to w.
func (c Config) Logger(w io.Writer) *metrics.Logger {
	return metrics.NewLogger(
		metrics.WithOutput(w),
		metrics.WithLevel(metrics.ParseLevel(c.LogLevel)),
		metrics.WithFormat(metrics.ParseFormat(c.LogFormat)),
		metrics.WithName("suitekit"),
	)
}
