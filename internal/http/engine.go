package http

import (
	"context"
	"fmt"
	"time"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

// Observer receives one callback per executed hop and per followed redirect.
type Observer interface {
	ObserveRequest(method string, statusCode int, duration time.Duration)
	ObserveRedirect(kind string)
}

// state is a step of the redirect state machine.
type state int

const (
	statePending state = iota
	stateRedirecting
	stateSeeOther
	stateFinal
)

// step is the tagged result of executing one hop.
type step struct {
	state    state
	request  Request
	response Response
}

// Engine executes one logical call to completion, following redirects.
type Engine struct {
	transport Transport
	observer  Observer
	tracer    tracer
	maxHops   int
}

// NewEngine creates an engine over transport.
func NewEngine(transport Transport) *Engine {
	return &Engine{
		transport: transport,
		maxHops:   constants.MaxRedirectHops,
	}
}

// Execute runs req through the state machine:
//
//	Pending -> Executing -> Redirecting | SeeOther | Final
//
// 301, 302 and 307 are followed with the same method for GET and HEAD only;
// any other method ends the call with the error for that response. 303 is
// followed with a GET. Final responses outside 200-207 are returned together
// with a *vra.HTTPError. Transport failures become a *vra.HTTPError with a
// zero status.
func (e *Engine) Execute(ctx context.Context, req Request) (Response, error) {
	current := step{state: statePending, request: req}
	hops := 0

	for {
		next, err := e.advance(ctx, current.request)
		if err != nil {
			return next.response, err
		}

		if next.state == stateFinal {
			return next.response, nil
		}

		if hops >= e.maxHops {
			return next.response, fmt.Errorf("%w: %s %s exceeded %d hops",
				vra.ErrTooManyRedirects, req.Method(), req.URL(), e.maxHops)
		}

		hops++

		e.observeRedirect(next.state)

		current = next
	}
}

// advance executes one hop and decides the next state.
func (e *Engine) advance(ctx context.Context, req Request) (step, error) {
	resp, err := e.roundTrip(ctx, req)
	if err != nil {
		return step{}, err
	}

	switch Classify(resp.StatusCode()) {
	case OutcomeSuccess:
		return step{state: stateFinal, request: req, response: resp}, nil
	case OutcomeRedirect:
		if !req.Redirectable() {
			return step{response: resp}, terminalError(req, resp)
		}

		next, err := req.RedirectTo(resp.Header("Location"))
		if err != nil {
			return step{response: resp}, err
		}

		return step{state: stateRedirecting, request: next, response: resp}, nil
	case OutcomeSeeOther:
		next, err := req.SeeOther(resp.Header("Location"))
		if err != nil {
			return step{response: resp}, err
		}

		return step{state: stateSeeOther, request: next, response: resp}, nil
	default:
		return step{response: resp}, terminalError(req, resp)
	}
}

func (e *Engine) roundTrip(ctx context.Context, req Request) (Response, error) {
	e.tracer.request(req)

	start := time.Now()
	resp, err := e.transport.Do(ctx, req)
	duration := time.Since(start)

	if err != nil {
		e.observeRequest(req.Method(), 0, duration)

		return nil, &vra.HTTPError{Method: req.Method(), URL: req.URL(), Err: err}
	}

	e.observeRequest(req.Method(), resp.StatusCode(), duration)
	e.tracer.response(req, resp)

	return resp, nil
}

func (e *Engine) observeRequest(method string, statusCode int, duration time.Duration) {
	if e.observer != nil {
		e.observer.ObserveRequest(method, statusCode, duration)
	}
}

func (e *Engine) observeRedirect(s state) {
	if e.observer == nil {
		return
	}

	if s == stateSeeOther {
		e.observer.ObserveRedirect(OutcomeSeeOther.String())

		return
	}

	e.observer.ObserveRedirect(OutcomeRedirect.String())
}

func terminalError(req Request, resp Response) error {
	return vra.NewHTTPError(req.Method(), req.URL(), resp.StatusCode(), resp.Body())
}
