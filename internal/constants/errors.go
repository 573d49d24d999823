package constants

import "errors"

// Configuration errors.
var (
	ErrNoBaseURL       = errors.New("no base URL configured, use --base-url, VRA_BASE_URL or the config file")
	ErrNoUsername      = errors.New("no username configured, use --username, VRA_USERNAME or the config file")
	ErrPasswordPrompt  = errors.New("no password configured and stdin is not a terminal")
	ErrInvalidOutput   = errors.New("invalid output format, expected table, json or yaml")
	ErrConfigDirAccess = errors.New("cannot determine config directory")
)

// Command errors.
var (
	ErrInvalidParameter = errors.New("invalid parameter, expected KEY=VALUE")
)
