package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grammarkit/ebnfstudio/internal/httpapi"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	hash, err := httpapi.HashPassword("operator-password")
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.NewServer(httpapi.Config{
		Secret:       []byte("test-secret"),
		PasswordHash: hash,
	}))
	t.Cleanup(srv.Close)
	return srv, srv.URL + httpapi.PathPrefix
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func login(t *testing.T, base string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/login", "", map[string]string{"password": "operator-password"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	_, base := newTestServer(t)
	resp := doJSON(t, http.MethodPost, base+"/login", "", map[string]string{"password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGrammarsRequiresAuth(t *testing.T) {
	_, base := newTestServer(t)
	resp := doJSON(t, http.MethodGet, base+"/grammars", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateListGetUpdateDeleteGrammar(t *testing.T) {
	_, base := newTestServer(t)
	tok := login(t, base)

	createResp := doJSON(t, http.MethodPost, base+"/grammars", tok, map[string]interface{}{
		"name":   "numbers",
		"source": "S ::= 'a' | 'b'",
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	listResp := doJSON(t, http.MethodGet, base+"/grammars", tok, nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list []json.RawMessage
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	assert.Len(t, list, 1)

	getResp := doJSON(t, http.MethodGet, base+"/grammars/"+created.ID, tok, nil)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	updateResp := doJSON(t, http.MethodPut, base+"/grammars/"+created.ID, tok, map[string]interface{}{
		"name":   "numbers",
		"source": "S ::= 'a'",
	})
	assert.Equal(t, http.StatusOK, updateResp.StatusCode)

	deleteResp := doJSON(t, http.MethodDelete, base+"/grammars/"+created.ID, tok, nil)
	assert.Equal(t, http.StatusOK, deleteResp.StatusCode)

	getAfterDelete := doJSON(t, http.MethodGet, base+"/grammars/"+created.ID, tok, nil)
	assert.Equal(t, http.StatusNotFound, getAfterDelete.StatusCode)
}

func TestEmitGrammarProducesAntlrOutput(t *testing.T) {
	_, base := newTestServer(t)
	tok := login(t, base)

	createResp := doJSON(t, http.MethodPost, base+"/grammars", tok, map[string]interface{}{
		"name":   "numbers",
		"source": "S ::= 'a'",
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))

	emitResp := doJSON(t, http.MethodPost, base+"/grammars/"+created.ID+"/emit/antlr", tok, nil)
	require.Equal(t, http.StatusOK, emitResp.StatusCode)
	var body struct {
		Target string `json:"target"`
		Text   string `json:"text"`
	}
	require.NoError(t, json.NewDecoder(emitResp.Body).Decode(&body))
	assert.Equal(t, "antlr", body.Target)
	assert.Contains(t, body.Text, "grammar S")
}

func TestEmitGrammarRejectsUnknownTarget(t *testing.T) {
	_, base := newTestServer(t)
	tok := login(t, base)

	createResp := doJSON(t, http.MethodPost, base+"/grammars", tok, map[string]interface{}{
		"name":   "numbers",
		"source": "S ::= 'a'",
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&created))

	resp := doJSON(t, http.MethodPost, base+"/grammars/"+created.ID+"/emit/nonsense", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
