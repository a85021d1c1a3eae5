// Package identity offers the user-facing operations of an email/password
// identity service on top of a session: sign up, sign in, sign out and the
// cached profile of the signed-in user.
package identity

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/identitytoolkit"
	"github.com/jrsteele09/go-auth-client/internal/redact"
	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is the identity façade over one Session.
type Client struct {
	session *session.Session
	logger  zerolog.Logger

	lock sync.RWMutex
	user Profile
}

type ClientOption func(*Client)

func WithClientLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient restores sess's stored credentials and starts with an empty profile.
func NewClient(ctx context.Context, sess *session.Session, options ...ClientOption) *Client {
	c := &Client{
		session: sess,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}

	if sess.LoadCredentials(ctx) {
		c.logger.Debug().Msg("restored stored credentials")
	}
	return c
}

// New builds a Session for apiKey with sessionOptions and wraps it in a Client.
func New(ctx context.Context, apiKey string, sessionOptions ...session.Option) *Client {
	return NewClient(ctx, session.New(apiKey, sessionOptions...))
}

func (c *Client) Session() *session.Session {
	return c.session
}

// User returns a copy of the cached profile.
func (c *Client) User() Profile {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.user
}

// SignUp creates an email/password account, or an anonymous one when both
// email and password are empty, and then refreshes the profile.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	req := &identitytoolkit.SignUpRequest{}
	if email != "" || password != "" {
		req.Email = utils.Ptr(email)
		req.Password = utils.Ptr(password)
	}

	if _, err := c.session.Request(ctx, session.Request{
		Endpoint: identitytoolkit.OpSignUp,
		Payload:  req,
		Mode:     session.ModeAcquire,
	}); err != nil {
		return err
	}
	c.logger.Info().Str("email", redact.Email(utils.Value(req.Email))).Bool("anonymous", req.Email == nil).Msg("signed up")

	return c.RefreshProfile(ctx)
}

// SignUpAnonymously creates an account with no email or password.
func (c *Client) SignUpAnonymously(ctx context.Context) error {
	return c.SignUp(ctx, "", "")
}

// SignIn exchanges email and password for a token pair and then refreshes the profile.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	if _, err := c.session.Request(ctx, session.Request{
		Endpoint: identitytoolkit.OpSignInWithPassword,
		Payload:  &identitytoolkit.PasswordSignInRequest{Email: email, Password: password},
		Mode:     session.ModeAcquire,
	}); err != nil {
		return err
	}
	c.logger.Info().Str("email", redact.Email(email)).Msg("signed in")

	return c.RefreshProfile(ctx)
}

// SignOut forgets the credentials, durably, and the cached profile. It makes no network call.
func (c *Client) SignOut(ctx context.Context) error {
	c.lock.Lock()
	c.user = Profile{}
	c.lock.Unlock()

	if err := c.session.ClearCredentials(ctx); err != nil {
		return errors.Wrap(err, "[Client.SignOut]")
	}
	c.logger.Info().Msg("signed out")
	return nil
}

// RefreshProfile looks up the signed-in account and merges its attributes into the cached profile.
func (c *Client) RefreshProfile(ctx context.Context) error {
	resp, err := c.session.Request(ctx, session.Request{
		Endpoint: identitytoolkit.OpLookup,
		Payload:  &identitytoolkit.LookupRequest{},
		Mode:     session.ModeAuthenticated,
	})
	if err != nil {
		return err
	}

	var lookup identitytoolkit.LookupResponse
	if err := resp.Decode(&lookup); err != nil {
		return errors.Wrap(err, "[Client.RefreshProfile] decode")
	}
	if len(lookup.Users) == 0 {
		return ErrNoUsers
	}

	c.mergeProfile(lookup.Users[0])
	return nil
}

// UpdateProfile sets the display name and/or photo URL of the signed-in account.
// Empty arguments are left unchanged.
func (c *Client) UpdateProfile(ctx context.Context, displayName, photoURL string) error {
	resp, err := c.session.Request(ctx, session.Request{
		Endpoint: identitytoolkit.OpUpdate,
		Payload: &identitytoolkit.UpdateRequest{
			DisplayName: utils.NonEmpty(displayName),
			PhotoURL:    utils.NonEmpty(photoURL),
		},
		Mode: session.ModeAuthenticated,
	})
	if err != nil {
		return err
	}

	var updated identitytoolkit.User
	if err := resp.Decode(&updated); err != nil {
		return errors.Wrap(err, "[Client.UpdateProfile] decode")
	}
	c.mergeProfile(updated)
	return nil
}

// DeleteAccount deletes the signed-in account and then signs out.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if _, err := c.session.Request(ctx, session.Request{
		Endpoint: identitytoolkit.OpDelete,
		Payload:  &identitytoolkit.DeleteRequest{},
		Mode:     session.ModeAuthenticated,
	}); err != nil {
		return err
	}
	return c.SignOut(ctx)
}

func (c *Client) mergeProfile(u identitytoolkit.User) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.user = c.user.merge(u)
}
