package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/store"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status int `json:"Status"`
	Body   any `json:"Body,omitempty"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorJSON = `{"Status":500,"Body":{"error":"internal server error"}}`

func writeResponse(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(Response{Status: status, Body: body})
	if err != nil {
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, internalErrorJSON)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeInternalError(w)
		return
	}
	writeResponse(w, status, ErrorResponse{Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrIllegalMove),
		stderrors.Is(err, errors.ErrAmbiguousNotation),
		stderrors.Is(err, errors.ErrInvalidNotation):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, errors.ErrInvalidState),
		stderrors.Is(err, errors.ErrMalformedSnapshot),
		stderrors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case stderrors.Is(err, errEngineToMove):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

var (
	errBadRequest   = stderrors.New("bad request")
	errEngineToMove = stderrors.New("engine is to move")
)

// decodeBody decodes a JSON request body into v. An empty body leaves v
// unchanged when allowEmpty is set.
func decodeBody(r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if allowEmpty && stderrors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON: %v: %w", err, errBadRequest)
	}
	return nil
}
