package engine

import "net/http"

// Error kinds exposed to the HTTP layer. Raw upstream error text is never
// forwarded to callers.
const (
	KindValidation    = "validation"
	KindNotFound      = "not_found"
	KindUpstream      = "upstream"
	KindAuthorization = "authorization"
)

// Error is the typed error shape of the outbound contract.
type Error struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Kind + ": " + e.Message
}

func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, HTTPStatus: http.StatusBadRequest}
}

func NotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg, HTTPStatus: http.StatusNotFound}
}

func UpstreamError() *Error {
	return &Error{Kind: KindUpstream, Message: "upstream service unavailable", HTTPStatus: http.StatusInternalServerError}
}

func AuthorizationError(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg, HTTPStatus: http.StatusForbidden}
}
