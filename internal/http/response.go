package http

import (
	"net/http"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/go-resty/resty/v2"
)

// Response hides the transport library's response type.
type Response interface {
	StatusCode() int
	Body() []byte
	Header(name string) string
}

// Outcome classifies a response by status code.
type Outcome int

// Response outcomes.
const (
	OutcomeSuccess Outcome = iota
	OutcomeRedirect
	OutcomeSeeOther
	OutcomeError
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeSeeOther:
		return "see_other"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Classify maps a status code to exactly one outcome.
func Classify(statusCode int) Outcome {
	switch {
	case statusCode == http.StatusMovedPermanently,
		statusCode == http.StatusFound,
		statusCode == http.StatusTemporaryRedirect:
		return OutcomeRedirect
	case statusCode == http.StatusSeeOther:
		return OutcomeSeeOther
	case statusCode >= constants.HTTPStatusSuccessMin && statusCode <= constants.HTTPStatusSuccessMax:
		return OutcomeSuccess
	default:
		return OutcomeError
	}
}

// bufferedResponse adapts a net/http response whose body was fully read.
type bufferedResponse struct {
	statusCode int
	header     http.Header
	body       []byte
}

func (r *bufferedResponse) StatusCode() int           { return r.statusCode }
func (r *bufferedResponse) Body() []byte              { return r.body }
func (r *bufferedResponse) Header(name string) string { return r.header.Get(name) }

// restyResponse adapts a resty response.
type restyResponse struct {
	resp *resty.Response
}

func (r *restyResponse) StatusCode() int           { return r.resp.StatusCode() }
func (r *restyResponse) Body() []byte              { return r.resp.Body() }
func (r *restyResponse) Header(name string) string { return r.resp.Header().Get(name) }
