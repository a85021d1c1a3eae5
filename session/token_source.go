package session

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

type tokenSource struct {
	ctx     context.Context
	session *Session
}

// TokenSource adapts the session to oauth2.TokenSource. Each Token call goes
// through GetValidAccessToken, so an expired token is refreshed on demand.
func (s *Session) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, session: s}
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := ts.session.GetValidAccessToken(ts.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		Expiry:      ts.session.Credentials().TokenExpiry,
	}, nil
}

// HTTPClient returns a client that sends "Authorization: Bearer <access token>"
// on every request, for calling services that accept the identity's ID token.
func (s *Session) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, s.TokenSource(ctx))
}
