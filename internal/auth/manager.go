// Package auth acquires, stores and validates session tokens. Token validity
// is never derived from an expiry: the platform is asked through a cheap
// probe call and a new token is generated when the probe fails.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	vrahttp "github.com/fivetwenty-io/vra-client/internal/http"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"golang.org/x/oauth2"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenInResponse = errors.New("login response carried no token")
)

// Credentials are the login parameters of one session.
type Credentials struct {
	Username string       `json:"username" validate:"required"`
	Password string       `json:"password" validate:"required"`
	Tenant   string       `json:"tenant"   validate:"required_if=Mode bearer"`
	Domain   string       `json:"domain"   validate:"required_if=Mode access-token"`
	Mode     vra.AuthMode `json:"mode"     validate:"oneof=bearer access-token"`
}

// CredentialsFromConfig extracts the login parameters of config.
func CredentialsFromConfig(config vra.Config) Credentials {
	return Credentials{
		Username: config.Username,
		Password: config.Password,
		Tenant:   config.Tenant,
		Domain:   config.Domain,
		Mode:     config.AuthMode,
	}
}

type bearerLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Tenant   string `json:"tenant"`
}

type bearerToken struct {
	ID string `json:"id"`
}

type accessLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Domain   string `json:"domain"`
}

type accessToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshExchange struct {
	RefreshToken string `json:"refreshToken"`
}

type exchangedToken struct {
	Token string `json:"token"`
}

// Manager implements vrahttp.Authorizer for one session.
//
// Manager is not safe for concurrent use. Authorize probes and then
// regenerates without holding a lock across both steps, so two goroutines
// may both log in. The token itself is kept in a TokenStore and is never
// observed half written.
type Manager struct {
	client *vrahttp.Client
	creds  Credentials
	store  *TokenStore
	logger vra.Logger
}

// NewManager creates a manager issuing its calls through client and
// registers it as the client's authorizer.
func NewManager(client *vrahttp.Client, creds Credentials, logger vra.Logger) *Manager {
	if creds.Mode == "" {
		creds.Mode = vra.AuthModeAccessToken
	}

	manager := &Manager{
		client: client,
		creds:  creds,
		store:  NewTokenStore(),
		logger: logger,
	}

	client.SetAuthorizer(manager)

	return manager
}

// CurrentToken implements vrahttp.Authorizer.
func (m *Manager) CurrentToken() *oauth2.Token {
	return m.store.Get()
}

// Token returns the current access token, or "".
func (m *Manager) Token() string {
	return m.store.AccessToken()
}

// SetToken replaces the stored token. An empty access token clears it.
func (m *Manager) SetToken(token *oauth2.Token) {
	if token == nil || token.AccessToken == "" {
		m.store.Clear()

		return
	}

	m.store.Set(token)
}

// IsAuthorized probes the platform with the current token. It is false
// without a token and on any error or unexpected status.
func (m *Manager) IsAuthorized(ctx context.Context) bool {
	token := m.store.AccessToken()
	if token == "" {
		return false
	}

	var (
		resp vrahttp.Response
		err  error
		want int
	)

	switch m.creds.Mode {
	case vra.AuthModeBearer:
		want = http.StatusNoContent
		resp, err = m.client.Head(ctx, constants.PathIdentityTokens+"/"+url.PathEscape(token), vrahttp.SkipAuth)
	case vra.AuthModeAccessToken:
		want = http.StatusOK
		resp, err = m.client.Get(ctx, constants.PathCSPLoggedInUser, nil, vrahttp.SkipAuth)
	default:
		return false
	}

	if err != nil {
		m.debug("token probe failed", map[string]interface{}{"error": err.Error()})

		return false
	}

	return resp.StatusCode() == want
}

// Authorize makes sure a valid token is held, generating one when the probe
// fails. With a valid token it issues exactly one probe and no login; the
// probe is the only network call made, since tokens are never cached.
func (m *Manager) Authorize(ctx context.Context) error {
	if m.IsAuthorized(ctx) {
		return nil
	}

	m.store.Clear()

	err := m.GenerateToken(ctx)
	if err != nil {
		return err
	}

	if !m.IsAuthorized(ctx) {
		return fmt.Errorf("%w: token was rejected by %s", vra.ErrUnauthorized, m.client.BaseURL())
	}

	return nil
}

// GenerateToken logs in with the session credentials and stores the new
// token. The stored token is cleared first, so login calls never carry an
// Authorization header.
func (m *Manager) GenerateToken(ctx context.Context) error {
	m.store.Clear()

	err := vra.ValidateStruct("invalid credentials", m.creds)
	if err != nil {
		return err
	}

	m.debug("generating token", map[string]interface{}{"mode": string(m.creds.Mode), "username": m.creds.Username})

	switch m.creds.Mode {
	case vra.AuthModeBearer:
		return m.generateBearer(ctx)
	case vra.AuthModeAccessToken:
		return m.generateAccess(ctx)
	default:
		return fmt.Errorf("%w: %s", vra.ErrUnknownAuthMode, m.creds.Mode)
	}
}

func (m *Manager) generateBearer(ctx context.Context) error {
	var token bearerToken

	err := m.login(ctx, constants.PathIdentityTokens, bearerLogin{
		Username: m.creds.Username,
		Password: m.creds.Password,
		Tenant:   m.creds.Tenant,
	}, &token)
	if err != nil {
		return err
	}

	if token.ID == "" {
		return fmt.Errorf("%w: %w", vra.ErrUnauthorized, ErrNoTokenInResponse)
	}

	m.store.Set(&oauth2.Token{AccessToken: token.ID, TokenType: "Bearer"})

	return nil
}

func (m *Manager) generateAccess(ctx context.Context) error {
	var token accessToken

	err := m.login(ctx, constants.PathCSPLogin, accessLogin{
		Username: m.creds.Username,
		Password: m.creds.Password,
		Domain:   m.creds.Domain,
	}, &token)
	if err != nil {
		return err
	}

	if token.AccessToken == "" && token.RefreshToken != "" {
		var exchanged exchangedToken

		err = m.login(ctx, constants.PathIaaSLogin, refreshExchange{RefreshToken: token.RefreshToken}, &exchanged)
		if err != nil {
			return err
		}

		token.AccessToken = exchanged.Token
	}

	if token.AccessToken == "" {
		return fmt.Errorf("%w: %w", vra.ErrUnauthorized, ErrNoTokenInResponse)
	}

	m.store.Set(&oauth2.Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    "Bearer",
	})

	return nil
}

// login posts payload to path and decodes the response into v. Responses
// outside the success range are unauthorized; transport failures propagate.
func (m *Manager) login(ctx context.Context, path string, payload, v interface{}) error {
	resp, err := m.client.Post(ctx, path, nil, payload, vrahttp.SkipAuth)
	if err != nil {
		var httpErr *vra.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode != 0 {
			return fmt.Errorf("%w: unable to get bearer token: %s: %w", vra.ErrUnauthorized, httpErr.Body, err)
		}

		return fmt.Errorf("logging in at %s: %w", path, err)
	}

	err = json.Unmarshal(resp.Body(), v)
	if err != nil {
		return fmt.Errorf("parsing login response from %s: %w", path, err)
	}

	return nil
}

func (m *Manager) debug(msg string, fields map[string]interface{}) {
	if m.logger != nil {
		m.logger.Debug(msg, fields)
	}
}

var _ vrahttp.Authorizer = (*Manager)(nil)
