package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidshop/storefront/pkg/binder"
	"github.com/vidshop/storefront/pkg/validator"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   string              `json:"error"`
	Code    string              `json:"code,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// jsonResponse implements Response for JSON rendering
type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON encodes v as the response body with status 200.
// The value is written as is; there is no envelope.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err as an ErrorBody with the status ClassifyError picks.
func JSONError(err error, opts ...JSONOption) Response {
	info := ClassifyError(err)

	body := ErrorBody{Error: info.Message, Code: info.Code}
	if rules := validator.ExtractValidationErrors(err); len(rules) > 0 {
		body.Details = make(map[string][]string, len(rules))
		for _, field := range rules.Fields() {
			body.Details[field] = rules.Get(field)
		}
	}

	r := &jsonResponse{status: info.StatusCode, body: body}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Code       string
	Message    string
}

// ClassifyError maps err to the status and message shown to the client.
// Unknown errors become a 500 with a generic message so internal details
// never leak.
func ClassifyError(err error) ErrorInfo {
	if rules := validator.ExtractValidationErrors(err); len(rules) > 0 {
		first := rules[0]
		return ErrorInfo{
			StatusCode: http.StatusBadRequest,
			Code:       "validation_error",
			Message:    first.Field + " " + first.Message,
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return ErrorInfo{StatusCode: httpErr.Code, Code: httpErr.Key, Message: httpErr.Error()}
	}

	if binder.IsBindError(err) {
		return ErrorInfo{StatusCode: http.StatusBadRequest, Code: "bad_request", Message: err.Error()}
	}

	return ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Code:       "internal_error",
		Message:    "An error occurred processing your request",
	}
}
