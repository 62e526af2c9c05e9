package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grammarkit/ebnfstudio/internal/httpapi"
)

func TestOKWritesStatusAndBody(t *testing.T) {
	r := httpapi.OK(map[string]string{"name": "grammar"})
	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "grammar", body["name"])
}

func TestNoContentWritesNoBody(t *testing.T) {
	r := httpapi.NoContent()
	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestBadRequestWritesErrorBody(t *testing.T) {
	r := httpapi.BadRequest("name is required")
	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body httpapi.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "name is required", body.Error)
	assert.Equal(t, http.StatusBadRequest, body.Status)
}

func TestUnauthorizedSetsWWWAuthenticateHeader(t *testing.T) {
	r := httpapi.Unauthorized("")
	rec := httptest.NewRecorder()
	r.WriteResponse(rec)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
}

func TestWithHeaderDoesNotMutateReceiver(t *testing.T) {
	base := httpapi.OK(nil)
	withHdr := base.WithHeader("X-Test", "1")

	recBase := httptest.NewRecorder()
	base.WriteResponse(recBase)
	assert.Empty(t, recBase.Header().Get("X-Test"))

	recHdr := httptest.NewRecorder()
	withHdr.WriteResponse(recHdr)
	assert.Equal(t, "1", recHdr.Header().Get("X-Test"))
}

func TestWriteResponsePanicsWhenUnpopulated(t *testing.T) {
	var r httpapi.Result
	assert.Panics(t, func() {
		r.WriteResponse(httptest.NewRecorder())
	})
}
