package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/grammarkit/ebnfstudio"
	"github.com/grammarkit/ebnfstudio/internal/emit/antlr"
	"github.com/grammarkit/ebnfstudio/internal/emit/cocor"
	"github.com/grammarkit/ebnfstudio/internal/emit/llgen"
	"github.com/grammarkit/ebnfstudio/internal/emit/syntree"
	"github.com/grammarkit/ebnfstudio/internal/emit/tokentype"
	"github.com/grammarkit/ebnfstudio/internal/keywords"
)

// PathPrefix is the prefix every route in the API is mounted under.
const PathPrefix = "/api/v1"

// API holds the state shared across endpoint handlers.
type API struct {
	Store        GrammarStore
	Secret       []byte
	PasswordHash []byte

	// UnauthDelay pauses a request this long before responding with an
	// HTTP-401/403/500, to deprioritize such requests.
	UnauthDelay time.Duration

	MaxLookahead int
}

// NewRouter builds the chi router serving the API under PathPrefix.
func (a *API) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/login", a.endpoint(a.login))

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(a.Secret, a.PasswordHash, a.UnauthDelay))
			r.Post("/grammars", a.endpoint(a.createGrammar))
			r.Get("/grammars", a.endpoint(a.listGrammars))
			r.Get("/grammars/{id}", a.endpoint(a.getGrammar))
			r.Put("/grammars/{id}", a.endpoint(a.updateGrammar))
			r.Delete("/grammars/{id}", a.endpoint(a.deleteGrammar))
			r.Post("/grammars/{id}/emit/{target}", a.endpoint(a.emitGrammar))
		})
	})
	return r
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (a *API) login(req *http.Request) Result {
	var body loginRequest
	if err := parseJSON(req, &body); err != nil {
		return BadRequest("malformed request body", err.Error())
	}
	if !checkPassword(a.PasswordHash, body.Password) {
		return Unauthorized("incorrect password", "login failed")
	}
	tok, err := generateToken(a.Secret, a.PasswordHash)
	if err != nil {
		return InternalServerError("could not sign token: %v", err)
	}
	return OK(loginResponse{Token: tok}, "login OK")
}

type submitGrammarRequest struct {
	Name     string   `json:"name"`
	Source   string   `json:"source"`
	Keywords []string `json:"keywords"`
}

type grammarResponse struct {
	ID       uuid.UUID          `json:"id"`
	Name     string             `json:"name"`
	Source   string             `json:"source"`
	Summary  ebnfstudio.Summary `json:"summary"`
	Created  time.Time          `json:"created"`
	Modified time.Time          `json:"modified"`
}

func toGrammarResponse(rec GrammarRecord) grammarResponse {
	return grammarResponse{
		ID: rec.ID, Name: rec.Name, Source: rec.Source, Summary: rec.Summary,
		Created: rec.Created, Modified: rec.Modified,
	}
}

func analyze(body submitGrammarRequest) (ebnfstudio.Summary, error) {
	kw := keywords.Of(body.Keywords...)
	sess, err := ebnfstudio.Load(strings.NewReader(body.Source), kw)
	if err != nil {
		return ebnfstudio.Summary{}, err
	}
	return sess.Summarize(), nil
}

func (a *API) createGrammar(req *http.Request) Result {
	var body submitGrammarRequest
	if err := parseJSON(req, &body); err != nil {
		return BadRequest("malformed request body", err.Error())
	}
	if body.Name == "" {
		return BadRequest("name is required", "missing name")
	}

	sum, err := analyze(body)
	if err != nil {
		return InternalServerError("could not run analysis: %v", err)
	}

	rec, err := a.Store.Create(req.Context(), body.Name, body.Source, sum)
	if err != nil {
		return InternalServerError("could not save grammar: %v", err)
	}
	return Created(toGrammarResponse(rec), "created grammar %s", rec.ID)
}

func (a *API) listGrammars(req *http.Request) Result {
	recs, err := a.Store.GetAll(req.Context())
	if err != nil {
		return InternalServerError("could not list grammars: %v", err)
	}
	out := make([]grammarResponse, len(recs))
	for i, rec := range recs {
		out[i] = toGrammarResponse(rec)
	}
	return OK(out, "listed %d grammars", len(out))
}

func (a *API) getGrammar(req *http.Request) Result {
	id, err := requireIDParam(req)
	if err != nil {
		return BadRequest("id is not a valid UUID", err.Error())
	}
	rec, err := a.Store.Get(req.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			return NotFound("grammar %s not found", id)
		}
		return InternalServerError("could not load grammar: %v", err)
	}
	return OK(toGrammarResponse(rec), "fetched grammar %s", id)
}

func (a *API) updateGrammar(req *http.Request) Result {
	id, err := requireIDParam(req)
	if err != nil {
		return BadRequest("id is not a valid UUID", err.Error())
	}
	var body submitGrammarRequest
	if err := parseJSON(req, &body); err != nil {
		return BadRequest("malformed request body", err.Error())
	}

	sum, err := analyze(body)
	if err != nil {
		return InternalServerError("could not run analysis: %v", err)
	}

	rec, err := a.Store.Update(req.Context(), id, body.Source, sum)
	if err != nil {
		if err == ErrNotFound {
			return NotFound("grammar %s not found", id)
		}
		return InternalServerError("could not save grammar: %v", err)
	}
	return OK(toGrammarResponse(rec), "updated grammar %s", id)
}

func (a *API) deleteGrammar(req *http.Request) Result {
	id, err := requireIDParam(req)
	if err != nil {
		return BadRequest("id is not a valid UUID", err.Error())
	}
	rec, err := a.Store.Delete(req.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			return NotFound("grammar %s not found", id)
		}
		return InternalServerError("could not delete grammar: %v", err)
	}
	return OK(toGrammarResponse(rec), "deleted grammar %s", id)
}

type emitResponse struct {
	Target string `json:"target"`
	Text   string `json:"text"`
}

func (a *API) emitGrammar(req *http.Request) Result {
	id, err := requireIDParam(req)
	if err != nil {
		return BadRequest("id is not a valid UUID", err.Error())
	}
	target := chi.URLParam(req, "target")

	rec, err := a.Store.Get(req.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			return NotFound("grammar %s not found", id)
		}
		return InternalServerError("could not load grammar: %v", err)
	}

	sess, err := ebnfstudio.Load(strings.NewReader(rec.Source), keywords.Empty)
	if err != nil {
		return InternalServerError("could not reload grammar: %v", err)
	}
	if !sess.OK() {
		return Conflict("grammar has fatal findings; cannot emit", "grammar %s has %d fatal findings", id, sess.Sink.FatalCount())
	}

	var buf bytes.Buffer
	switch target {
	case "antlr":
		err = sess.EmitANTLR(&buf, antlr.Options{})
	case "cocor":
		err = sess.EmitCocoR(&buf, cocor.Options{BuildAst: true, MaxLookahead: a.MaxLookahead})
	case "llgen":
		err = sess.EmitLLgen(&buf, llgen.Options{MaxLookahead: a.MaxLookahead})
	case "tokentype":
		err = sess.EmitTokenType(&buf, tokentype.Options{})
	case "syntree":
		err = sess.EmitSynTree(&buf, syntree.Options{})
	default:
		return BadRequest(fmt.Sprintf("unknown target %q", target), "unknown target")
	}
	if err != nil {
		return InternalServerError("could not emit %s: %v", target, err)
	}
	return OK(emitResponse{Target: target, Text: buf.String()}, "emitted %s for grammar %s", target, id)
}

// requireIDParam gets the "id" chi URL param and parses it as a UUID.
func requireIDParam(req *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(req, "id")
	if idStr == "" {
		return uuid.UUID{}, fmt.Errorf("id parameter is missing")
	}
	return uuid.Parse(idStr)
}

// parseJSON decodes the request body's JSON into v. v must be a pointer.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if !strings.EqualFold(contentType, "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return New("malformed JSON in request", err, ErrBodyUnmarshal)
	}
	return nil
}

// endpointFunc is the shape of a handler that returns a Result rather than
// writing to the ResponseWriter directly.
type endpointFunc func(req *http.Request) Result

func (a *API) endpoint(ep endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w)
		r := ep(req)

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(a.UnauthDelay)
		}

		if r.IsErr {
			logHTTPResponse("ERROR", req, r.Status, r.InternalMsg)
		} else {
			logHTTPResponse("INFO", req, r.Status, r.InternalMsg)
		}
		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter) {
	if p := recover(); p != nil {
		r := InternalServerError("panic: %v\nstack: %s", p, string(debug.Stack()))
		r.WriteResponse(w)
	}
}

func logHTTPResponse(level string, req *http.Request, status int, msg string) {
	remoteAddr := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%-5s %s %s %s: HTTP-%d %s", level, remoteAddr, req.Method, req.URL.Path, status, msg)
}
