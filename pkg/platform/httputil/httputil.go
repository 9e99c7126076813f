// Package httputil centralizes the JSON contract every endpoint speaks: a
// response envelope carrying either a payload or a structured error, plus the
// request path and the server-stamped UTC timestamp. Handlers delegate to this
// package so domain errors map to HTTP consistently.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	dErrors "creditline/pkg/domain-errors"
	"creditline/pkg/requestcontext"
)

// ErrorType is the coarse error classification exposed on the wire.
type ErrorType string

const (
	ErrorTypeMissingRequiredHeader ErrorType = "MISSING_REQUIRED_HEADER"
	ErrorTypeMismatchRequest       ErrorType = "MISMATCH_REQUEST"
	ErrorTypeExceedAPIQuota        ErrorType = "EXCEED_API_QUOTA"
	ErrorTypeDataNotFound          ErrorType = "DATA_NOT_FOUND"
	ErrorTypeUnknownError          ErrorType = "UNKNOWN_ERROR"
)

// ContractResponse is the envelope returned by every endpoint. Exactly one of
// Response or Error is set.
type ContractResponse struct {
	Response     any            `json:"response,omitempty"`
	Error        *ResponseError `json:"error,omitempty"`
	Path         string         `json:"path"`
	UTCTimestamp time.Time      `json:"utcTimestamp"`
}

// ResponseError describes a failed request inside the envelope.
type ResponseError struct {
	ErrorCode    int       `json:"errorCode"`
	ErrorType    ErrorType `json:"errorType"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// WriteResponse writes a success envelope with the given payload.
func WriteResponse(w http.ResponseWriter, r *http.Request, status int, payload any) {
	writeEnvelope(w, r, status, ContractResponse{Response: payload})
}

// WriteError translates a domain error into an error envelope. Internal faults
// deliberately omit the message so infrastructure details never leak.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := dErrors.CodeOf(err)
	status := statusForCode(code)

	respErr := &ResponseError{
		ErrorCode: status,
		ErrorType: errorTypeForCode(code),
	}
	if code != dErrors.CodeInternal {
		respErr.ErrorMessage = dErrors.MessageOf(err)
	}

	writeEnvelope(w, r, status, ContractResponse{Error: respErr})
}

// Decode reads a JSON request body into dst, returning an invalid-input domain
// error on malformed payloads. Bodies are capped at 1 MiB.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed request body")
	}
	// A second decode catches trailing garbage after the JSON document.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return dErrors.New(dErrors.CodeInvalidInput, "unexpected data after request body")
	}
	return nil
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, env ContractResponse) {
	env.Path = r.URL.Path
	env.UTCTimestamp = requestcontext.Now(r.Context()).UTC()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func statusForCode(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeMissingHeader:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorTypeForCode(code dErrors.Code) ErrorType {
	switch code {
	case dErrors.CodeMissingHeader:
		return ErrorTypeMissingRequiredHeader
	case dErrors.CodeInvalidInput:
		return ErrorTypeMismatchRequest
	case dErrors.CodeTooManyRequests:
		return ErrorTypeExceedAPIQuota
	case dErrors.CodeNotFound:
		return ErrorTypeDataNotFound
	default:
		return ErrorTypeUnknownError
	}
}
