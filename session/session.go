// Package session manages the access/refresh token pair of one signed-in
// identity and performs requests against the identity endpoint with it.
//
// Access tokens are refreshed lazily: GetValidAccessToken returns the stored
// token while it is unexpired and otherwise exchanges the refresh token for a
// new pair before returning. Nothing refreshes in the background.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/identitytoolkit"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/metrics"
	"github.com/jrsteele09/go-auth-client/internal/redact"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Mode selects how a request relates to the stored credentials.
type Mode int

const (
	// ModeAcquire requests a new token pair (sign-up, sign-in). No existing token is sent.
	ModeAcquire Mode = iota

	// ModeAuthenticated sends the current access token, refreshing it first if needed.
	ModeAuthenticated
)

func (m Mode) String() string {
	switch m {
	case ModeAcquire:
		return "acquire"
	case ModeAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Payload is a request body the session can stamp with the field its mode requires.
// Every identitytoolkit request type satisfies it through its embedded Envelope.
type Payload interface {
	SetIDToken(token string)
	SetReturnSecureToken(v bool)
}

// Request describes one call to the identity endpoint.
type Request struct {
	Endpoint string  // Operation name, e.g. identitytoolkit.OpSignUp
	Payload  Payload // Body; nil sends only the mode's envelope field
	Mode     Mode
	Method   string // Defaults to POST. Acquire requests with an override do not store credentials.
}

// Response is the raw accepted response, for callers that need more than the token pair.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Session owns one credential pair. It is safe for concurrent use; concurrent
// callers needing a refresh share a single token exchange.
type Session struct {
	apiKey      string
	identityURL string
	tokenURL    string
	transport   Transport
	store       credentials.Store
	logger      zerolog.Logger
	metrics     *metrics.Collectors
	nowFunc     func() time.Time

	lock  sync.Mutex
	creds credentials.Credentials
}

type Option func(*Session)

func WithTransport(t Transport) Option {
	return func(s *Session) {
		s.transport = t
	}
}

func WithStore(store credentials.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Collectors) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(s *Session) {
		s.nowFunc = now
	}
}

// WithIdentityEndpoint sets the accounts root, e.g. "https://identitytoolkit.googleapis.com/v1/accounts".
func WithIdentityEndpoint(root string) Option {
	return func(s *Session) {
		s.identityURL = root
	}
}

// WithTokenEndpoint sets the token-exchange URL, e.g. "https://securetoken.googleapis.com/v1/token".
func WithTokenEndpoint(tokenURL string) Option {
	return func(s *Session) {
		s.tokenURL = tokenURL
	}
}

// New creates a session with empty credentials. Call LoadCredentials to restore a stored session.
func New(apiKey string, options ...Option) *Session {
	s := &Session{
		apiKey: apiKey,
		logger: log.Logger,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.identityURL == "" {
		s.identityURL = config.DefaultIdentityEndpoint
	}
	if s.tokenURL == "" {
		s.tokenURL = config.DefaultTokenEndpoint
	}
	if s.transport == nil {
		s.transport = NewHTTPTransport(nil)
	}
	if s.store == nil {
		s.store = credentials.NewFileStore(credentials.DefaultFile)
	}
	if s.nowFunc == nil {
		s.nowFunc = time.Now
	}
	return s
}

// Credentials returns a copy of the stored credentials.
func (s *Session) Credentials() credentials.Credentials {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.creds
}

// LoadCredentials replaces the in-memory credentials with the stored ones.
// A missing, unreadable or incomplete record leaves the session signed out and returns false.
func (s *Session) LoadCredentials(ctx context.Context) bool {
	creds, ok := credentials.TryLoad(ctx, s.store)
	if !ok {
		s.logger.Debug().Msg("no usable stored credentials; starting signed out")
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.creds = creds
	return ok
}

// SaveCredentials writes the in-memory credentials to the store.
func (s *Session) SaveCredentials(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return errors.Wrap(s.store.Save(ctx, s.creds), "[Session.SaveCredentials]")
}

// SetCredentials merges the non-empty fields of partial into the stored credentials.
func (s *Session) SetCredentials(partial credentials.Credentials) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.creds = s.creds.Merge(partial)
}

// ClearCredentials forgets the credential pair and persists the empty state immediately.
func (s *Session) ClearCredentials(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.creds = credentials.Credentials{}
	if err := s.store.Save(ctx, s.creds); err != nil {
		return errors.Wrap(err, "[Session.ClearCredentials] save")
	}
	return nil
}

// GetValidAccessToken returns the stored access token while it is unexpired,
// otherwise refreshes it first. Refresh failures are returned unchanged and
// leave the stored credentials as they were. Without a refresh token it
// returns ErrNotSignedIn and makes no network call.
func (s *Session) GetValidAccessToken(ctx context.Context) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.creds.Valid(s.nowFunc()) {
		return s.creds.AccessToken, nil
	}
	return s.refreshLocked(ctx)
}

// Request sends req to the identity endpoint. Acquire requests without a method
// override store the issued token pair before returning.
func (s *Session) Request(ctx context.Context, req Request) (*Response, error) {
	payload := req.Payload
	if payload == nil {
		payload = &identitytoolkit.Envelope{}
	}

	switch req.Mode {
	case ModeAuthenticated:
		token, err := s.GetValidAccessToken(ctx)
		if err != nil {
			return nil, err
		}
		payload.SetIDToken(token)
	case ModeAcquire:
		payload.SetReturnSecureToken(true)
	default:
		return nil, errors.Wrapf(ErrUnknownMode, "[Session.Request] %s", req.Mode)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "[Session.Request] marshal payload")
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	s.logger.Debug().
		Str("request_id", uuid.NewString()).
		Str("op", req.Endpoint).
		Stringer("mode", req.Mode).
		Str("method", method).
		Msg("identity request")

	status, respBody, err := s.transport.Send(ctx, method, s.identityEndpoint(req.Endpoint), body)
	if err != nil {
		s.metrics.ObserveRequest(req.Endpoint, metrics.OutcomeTransportError)
		return nil, errors.Wrapf(err, "[Session.Request] %s", req.Endpoint)
	}
	if err := checkStatus(status, respBody); err != nil {
		s.metrics.ObserveRequest(req.Endpoint, metrics.OutcomeAuthError)
		s.logger.Debug().Err(err).Str("op", req.Endpoint).Int("status", status).Msg("identity request rejected")
		return nil, err
	}

	if req.Mode == ModeAcquire && req.Method == "" {
		issued, err := s.decodeIssued(respBody)
		if err != nil {
			s.metrics.ObserveRequest(req.Endpoint, metrics.OutcomeMalformed)
			return nil, errors.Wrapf(err, "[Session.Request] %s", req.Endpoint)
		}
		s.lock.Lock()
		s.storeLocked(ctx, issued)
		s.lock.Unlock()
	}

	s.metrics.ObserveRequest(req.Endpoint, metrics.OutcomeOK)
	return &Response{StatusCode: status, Body: respBody}, nil
}

// refreshLocked exchanges the refresh token for a new pair. The caller holds s.lock.
func (s *Session) refreshLocked(ctx context.Context) (string, error) {
	if s.creds.RefreshToken == "" {
		return "", ErrNotSignedIn
	}

	body, err := json.Marshal(identitytoolkit.RefreshRequest{
		GrantType:    identitytoolkit.RefreshTokenGrant,
		RefreshToken: s.creds.RefreshToken,
	})
	if err != nil {
		return "", errors.Wrap(err, "[Session.refresh] marshal")
	}

	status, respBody, err := s.transport.Send(ctx, http.MethodPost, s.tokenEndpoint(), body)
	if err != nil {
		s.metrics.ObserveRefresh(metrics.OutcomeTransportError)
		return "", errors.Wrap(err, "[Session.refresh] token exchange")
	}
	if err := checkStatus(status, respBody); err != nil {
		s.metrics.ObserveRefresh(metrics.OutcomeAuthError)
		s.logger.Warn().Err(err).Msg("access token refresh rejected")
		return "", err
	}

	issued, err := s.decodeIssued(respBody)
	if err != nil {
		s.metrics.ObserveRefresh(metrics.OutcomeMalformed)
		return "", errors.Wrap(err, "[Session.refresh]")
	}
	s.storeLocked(ctx, issued)
	s.metrics.ObserveRefresh(metrics.OutcomeOK)

	s.logger.Info().
		Str("refresh_token", redact.Token(s.creds.RefreshToken)).
		Time("token_expiry", s.creds.TokenExpiry).
		Msg("access token refreshed")
	return s.creds.AccessToken, nil
}

// decodeIssued turns an issuance body into credentials expiring ExpiresIn from now.
func (s *Session) decodeIssued(body []byte) (credentials.Credentials, error) {
	var resp identitytoolkit.TokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return credentials.Credentials{}, errors.Wrap(ErrMalformedTokenResponse, err.Error())
	}
	if !resp.Complete() {
		return credentials.Credentials{}, ErrMalformedTokenResponse
	}
	return credentials.Credentials{
		AccessToken:  resp.IDToken,
		RefreshToken: resp.RefreshToken,
		TokenExpiry:  s.nowFunc().Add(resp.ExpiresIn.Duration()),
	}, nil
}

// storeLocked merges issued into the session and persists the result. A failed
// write is logged and the in-memory session stays usable. The caller holds s.lock.
func (s *Session) storeLocked(ctx context.Context, issued credentials.Credentials) {
	s.creds = s.creds.Merge(issued)
	if err := s.store.Save(ctx, s.creds); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist credentials")
	}
}

func (s *Session) identityEndpoint(op string) string {
	return fmt.Sprintf("%s:%s?key=%s", s.identityURL, op, url.QueryEscape(s.apiKey))
}

func (s *Session) tokenEndpoint() string {
	return fmt.Sprintf("%s?key=%s", s.tokenURL, url.QueryEscape(s.apiKey))
}
