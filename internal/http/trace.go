package http

import (
	"regexp"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
)

//nolint:gochecknoglobals // compiled once
var passwordPattern = regexp.MustCompile(`("password"\s*:\s*)"(?:[^"\\]|\\.)*"`)

// RedactPasswords masks the value of every "password" field in a JSON payload.
func RedactPasswords(payload []byte) string {
	return passwordPattern.ReplaceAllString(string(payload), `${1}"`+constants.MaskedSecret+`"`)
}

// tracer logs every hop of a call when enabled.
type tracer struct {
	logger  vra.Logger
	enabled bool
}

func (t *tracer) request(req Request) {
	if !t.enabled || t.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"method": req.Method(),
		"url":    req.URL(),
	}

	if len(req.body) > 0 {
		fields["payload"] = RedactPasswords(req.body)
	}

	t.logger.Debug("HTTP Request", fields)
}

func (t *tracer) response(req Request, resp Response) {
	if !t.enabled || t.logger == nil {
		return
	}

	t.logger.Debug("HTTP Response", map[string]interface{}{
		"method": req.Method(),
		"url":    req.URL(),
		"status": resp.StatusCode(),
		"body":   RedactPasswords(resp.Body()),
	})
}
