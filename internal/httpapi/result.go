package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body written for any non-2xx Result.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is a prepared HTTP response: a status code, a body, and an internal
// message logged alongside the request regardless of what's sent to the
// client.
type Result struct {
	Status      int
	IsErr       bool
	InternalMsg string

	resp interface{}
	hdrs [][2]string

	respJSONBytes []byte
}

func msgf(internalMsg []interface{}, def string) (string, []interface{}) {
	if len(internalMsg) >= 1 {
		return internalMsg[0].(string), internalMsg[1:]
	}
	return def, nil
}

// OK returns a Result carrying an HTTP-200 with respObj marshaled as the body.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	format, args := msgf(internalMsg, "OK")
	return response(http.StatusOK, respObj, format, args...)
}

// Created returns a Result carrying an HTTP-201 with respObj as the body.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	format, args := msgf(internalMsg, "created")
	return response(http.StatusCreated, respObj, format, args...)
}

// NoContent returns a Result carrying an HTTP-204 with no body.
func NoContent(internalMsg ...interface{}) Result {
	format, args := msgf(internalMsg, "no content")
	return response(http.StatusNoContent, nil, format, args...)
}

// BadRequest returns a Result carrying an HTTP-400 with userMsg as the body's
// error field.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	format, args := msgf(internalMsg, "bad request")
	return errResult(http.StatusBadRequest, userMsg, format, args...)
}

// Unauthorized returns a Result carrying an HTTP-401.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	format, args := msgf(internalMsg, "unauthorized")
	if userMsg == "" {
		userMsg = "you are not authorized to do that"
	}
	return errResult(http.StatusUnauthorized, userMsg, format, args...).
		WithHeader("WWW-Authenticate", `Bearer realm="ebnfc server", charset="utf-8"`)
}

// NotFound returns a Result carrying an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	format, args := msgf(internalMsg, "not found")
	return errResult(http.StatusNotFound, "the requested resource was not found", format, args...)
}

// Conflict returns a Result carrying an HTTP-409.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	format, args := msgf(internalMsg, "conflict")
	return errResult(http.StatusConflict, userMsg, format, args...)
}

// InternalServerError returns a Result carrying an HTTP-500. The user-facing
// message never includes internalMsg's detail.
func InternalServerError(internalMsg ...interface{}) Result {
	format, args := msgf(internalMsg, "internal server error")
	return errResult(http.StatusInternalServerError, "an internal server error occurred", format, args...)
}

func response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

func errResult(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// WithHeader returns a copy of r with the given header queued for the
// eventual response.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	return cp
}

func (r *Result) prepare() error {
	if r.respJSONBytes != nil {
		return nil
	}
	if r.Status != http.StatusNoContent {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteResponse marshals and writes r to w. It panics if r.Status is zero
// (a Result that was never populated) or if marshaling fails, mirroring the
// API's endpoint wrapper, whose panicTo500 recovery turns such a panic into
// a 500 response.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.prepare(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(r.respJSONBytes)
	}
}
