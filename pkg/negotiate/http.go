package negotiate

import (
	"encoding/json"
	"fmt"
	"net/http"

	qerrors "github.com/sara-star-quant/suitekit/internal/errors"
	"github.com/sara-star-quant/suitekit/pkg/kx"
	"github.com/sara-star-quant/suitekit/pkg/suites"
)

const maxRequestBody = 64 << 10

// RequestJSON is the body of POST /v1/negotiate. Every entry is a registry
// name: "TLSv1.3", "TLS13_AES_128_GCM_SHA256", "ECDSA_NISTP256_SHA256",
// "X25519".
type RequestJSON struct {
	Version          string   `json:"version" validate:"required"`
	CipherSuites     []string `json:"cipher_suites" validate:"required,min=1"`
	SignatureSchemes []string `json:"signature_schemes"`
	Groups           []string `json:"groups"`
}

// ResultJSON is the success body of POST /v1/negotiate.
type ResultJSON struct {
	ID               string   `json:"id"`
	Version          string   `json:"version"`
	Suite            string   `json:"suite"`
	SignatureSchemes []string `json:"signature_schemes"`
	Group            string   `json:"group"`
}

// ResumeJSON is the body of POST /v1/resume.
type ResumeJSON struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

type errorJSON struct {
	Error string `json:"error"`
	Phase string `json:"phase,omitempty"`
}

// Request resolves the names in r. Names the registries do not know are
// dropped from the offer lists, as a server ignores unknown code points.
// An unknown version is an error.
func (r RequestJSON) Request() (Request, error) {
	if err := validate.Struct(r); err != nil {
		return Request{}, fmt.Errorf("%w: %s", qerrors.ErrInvalidConfig, formatValidationError(err))
	}
	v, ok := suites.ParseVersion(r.Version)
	if !ok {
		return Request{}, fmt.Errorf("%w: %q", qerrors.ErrUnsupportedVersion, r.Version)
	}
	req := Request{Version: v}
	for _, name := range r.CipherSuites {
		if id, ok := suites.ParseCipherSuiteID(name); ok {
			req.CipherSuites = append(req.CipherSuites, id)
		}
	}
	for _, name := range r.SignatureSchemes {
		if s, ok := suites.ParseSignatureScheme(name); ok {
			req.SignatureSchemes = append(req.SignatureSchemes, s)
		}
	}
	for _, name := range r.Groups {
		if g := kx.LookupName(name); g != nil {
			req.Groups = append(req.Groups, g.ID())
		}
	}
	return req, nil
}

func resultJSON(res *Result) ResultJSON {
	out := ResultJSON{
		ID:      res.ID,
		Version: res.Version.String(),
		Suite:   res.Suite.String(),
		Group:   res.Group.Name(),
	}
	for _, s := range res.SignatureSchemes {
		out.SignatureSchemes = append(out.SignatureSchemes, s.String())
	}
	return out
}

// Handler serves POST /v1/negotiate and POST /v1/resume. Negotiation
// failures answer 422 with the failing phase.
func (e *Engine) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/negotiate", e.serveNegotiate)
	mux.HandleFunc("POST /v1/resume", e.serveResume)
	return mux
}

func (e *Engine) serveNegotiate(w http.ResponseWriter, r *http.Request) {
	var body RequestJSON
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := body.Request()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: err.Error()})
		return
	}
	res, err := e.Negotiate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultJSON(res))
}

func (e *Engine) serveResume(w http.ResponseWriter, r *http.Request) {
	var body ResumeJSON
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := validate.Struct(body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: formatValidationError(err)})
		return
	}
	from, to := suites.LookupName(body.From), suites.LookupName(body.To)
	if from == nil || to == nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: qerrors.ErrUnknownCipherSuite.Error()})
		return
	}
	if err := e.Resume(r.Context(), from, to); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"resumable": true})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorJSON{Error: "malformed request: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	body := errorJSON{Error: err.Error()}
	var nerr *qerrors.NegotiationError
	if qerrors.As(err, &nerr) {
		body.Phase = nerr.Phase
		body.Error = nerr.Err.Error()
	}
	writeJSON(w, http.StatusUnprocessableEntity, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
