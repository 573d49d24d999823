package vra

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common static errors that can be wrapped with context.
var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrNotFound               = errors.New("not found")
	ErrDuplicateItemsDetected = errors.New("duplicate items detected")
	ErrTooManyRedirects       = errors.New("too many redirects")
	ErrValidation             = errors.New("validation failed")
	ErrConfigRequired         = errors.New("config is required")
	ErrBaseURLRequired        = errors.New("base URL is required")
	ErrInvalidBaseURL         = errors.New("base URL is not a valid HTTP URL")
	ErrMissingLocation        = errors.New("response has no Location header")
	ErrUnknownAuthMode        = errors.New("unknown auth mode")
	ErrUnknownPagination      = errors.New("unknown pagination style")
	ErrUnknownTransport       = errors.New("unknown transport")
)

// APIError is a single entry of the vendor error envelope.
type APIError struct {
	Code          int    `json:"code,omitempty"          yaml:"code,omitempty"`
	Message       string `json:"message,omitempty"       yaml:"message,omitempty"`
	SystemMessage string `json:"systemMessage,omitempty" yaml:"systemMessage,omitempty"`
}

// Text returns the most specific message carried by the entry.
func (e APIError) Text() string {
	if e.SystemMessage != "" {
		return e.SystemMessage
	}

	return e.Message
}

// ErrorEnvelope is the error body returned by the platform.
type ErrorEnvelope struct {
	Message string     `json:"message,omitempty"`
	Errors  []APIError `json:"errors,omitempty"`
}

// ParseErrorMessages extracts human readable messages from an error body.
// Entries prefer systemMessage over message. When the body has no errors list
// the top-level message is used. Unparseable bodies yield no messages.
func ParseErrorMessages(body []byte) []string {
	if len(body) == 0 {
		return nil
	}

	var envelope ErrorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil
	}

	messages := make([]string, 0, len(envelope.Errors))

	for _, apiErr := range envelope.Errors {
		if text := apiErr.Text(); text != "" {
			messages = append(messages, text)
		}
	}

	if len(messages) == 0 && envelope.Message != "" {
		messages = append(messages, envelope.Message)
	}

	return messages
}

// HTTPError is returned for any terminal non-2xx response and for transport
// failures. StatusCode is zero when no response was received.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Messages   []string
	Err        error
}

// NewHTTPError builds an HTTPError from a terminal response.
func NewHTTPError(method, url string, statusCode int, body []byte) *HTTPError {
	return &HTTPError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
		Messages:   ParseErrorMessages(body),
	}
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
	}

	detail := http.StatusText(e.StatusCode)
	if len(e.Messages) > 0 {
		detail = strings.Join(e.Messages, ", ")
	}

	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.URL, e.StatusCode, detail)
}

// Unwrap returns the transport error, if any.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match 404 responses against ErrNotFound and 401 against
// ErrUnauthorized.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	default:
		return false
	}
}

// RequestError wraps an HTTP failure raised while submitting a request or an
// action to the platform.
type RequestError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	msg := fmt.Sprintf("unable to submit %s: %v", e.Op, e.Err)

	httpErr := &HTTPError{}
	if errors.As(e.Err, &httpErr) && len(httpErr.Messages) > 0 {
		msg += ", trace: " + strings.Join(httpErr.Messages, ", ")
	}

	return msg
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// ValidationError lists the fields that failed validation before a call was
// attempted. Subject describes what was being validated.
type ValidationError struct {
	Subject string
	Missing []string
	Invalid []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, 2)

	if len(e.Missing) > 0 {
		parts = append(parts, "required param(s) missing => "+strings.Join(e.Missing, ", "))
	}

	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid param(s) => "+strings.Join(e.Invalid, ", "))
	}

	if len(parts) == 0 {
		return e.Subject
	}

	return e.Subject + ", " + strings.Join(parts, "; ")
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}

	return 0
}
