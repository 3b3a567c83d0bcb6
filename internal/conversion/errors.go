package conversion

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds for conversion operations.
var (
	ErrMethodNotAllowed   = errors.New("method not allowed")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidJSON        = errors.New("invalid json")
	ErrInvalidURL         = errors.New("invalid url")
	ErrNoFiles            = errors.New("no files")
	ErrTooManyFiles       = errors.New("too many files")
	ErrBatchLimitExceeded = errors.New("batch limit exceeded")
	ErrNoValidFiles       = errors.New("no valid files")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrBodyTooLarge       = errors.New("request body too large")
	ErrFetchFailed        = errors.New("fetch failed")
	ErrConversionFailed   = errors.New("conversion failed")
	ErrContentTooLarge    = errors.New("content too large for conversion")
	ErrNotFound           = errors.New("not found")
)

// Client-facing messages.
const (
	MsgInvalidContentType = "Invalid content type. Only multipart/form-data is supported."
	MsgInvalidMultipart   = "Invalid multipart form data."
	MsgNoFiles            = "No files were uploaded."
	MsgTooManyFiles       = "Only one file can be converted per request. Use the batch endpoint for multiple files."
	MsgBodyTooLarge       = "Request body too large."
	MsgContentTooLarge    = "The document is too large for the AI service to process. Please try a smaller file."
	MsgConversionFailed   = "Failed to convert document. AI service error."
	MsgInvalidJSON        = "Invalid JSON data."
	MsgURLRequired        = "URL is required."
	MsgInvalidURL         = "Invalid URL format. Must be a valid HTTP or HTTPS URL."
	MsgNotFound           = "Not found"
)

// Error pairs an error kind with the message returned to clients.
// Cause, when set, carries the underlying failure for logs.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// NewError creates an Error of kind with a client-facing message.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// BatchLimitError reports a batch exceeding max files.
func BatchLimitError(max int) *Error {
	return NewError(ErrBatchLimitExceeded, fmt.Sprintf("Too many files. Maximum %d files allowed for batch conversion.", max))
}

// MapHTTPStatus converts conversion errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrFileTooLarge),
		errors.Is(err, ErrBodyTooLarge),
		errors.Is(err, ErrContentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidContentType),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidJSON),
		errors.Is(err, ErrInvalidURL),
		errors.Is(err, ErrNoFiles),
		errors.Is(err, ErrTooManyFiles),
		errors.Is(err, ErrBatchLimitExceeded),
		errors.Is(err, ErrNoValidFiles),
		errors.Is(err, ErrFetchFailed):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
