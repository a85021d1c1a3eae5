package identity

import (
	"context"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
)

const (
	// SecureTokenIssuerPrefix + project ID is the issuer of every ID token.
	SecureTokenIssuerPrefix = "https://securetoken.google.com/"

	// SecureTokenJWKSURL publishes the keys ID tokens are signed with.
	SecureTokenJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

// VerifiedToken is the identity proven by a verified ID token.
type VerifiedToken struct {
	UID           string
	Email         string
	EmailVerified bool
	IssuedAt      time.Time
	Expiry        time.Time
}

// Verifier checks ID token signature, issuer, audience and expiry.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

type verifierOptions struct {
	keySet oidc.KeySet
	now    func() time.Time
}

type VerifierOption func(*verifierOptions)

// WithKeySet replaces the remote signing keys, e.g. with an oidc.StaticKeySet.
func WithKeySet(keySet oidc.KeySet) VerifierOption {
	return func(o *verifierOptions) {
		o.keySet = keySet
	}
}

func WithVerifierNowFunc(now func() time.Time) VerifierOption {
	return func(o *verifierOptions) {
		o.now = now
	}
}

// NewVerifier returns a verifier for tokens issued to projectID. Keys are
// fetched from SecureTokenJWKSURL on first use unless WithKeySet is given.
func NewVerifier(ctx context.Context, projectID string, options ...VerifierOption) (*Verifier, error) {
	if projectID == "" {
		return nil, errors.New("[NewVerifier] project ID is required")
	}

	o := verifierOptions{}
	for _, opt := range options {
		opt(&o)
	}
	if o.keySet == nil {
		o.keySet = oidc.NewRemoteKeySet(ctx, SecureTokenJWKSURL)
	}

	return &Verifier{
		verifier: oidc.NewVerifier(SecureTokenIssuerPrefix+projectID, o.keySet, &oidc.Config{
			ClientID: projectID,
			Now:      o.now,
		}),
	}, nil
}

func (v *Verifier) Verify(ctx context.Context, rawIDToken string) (*VerifiedToken, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Verifier.Verify]")
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrap(err, "[Verifier.Verify] claims")
	}

	return &VerifiedToken{
		UID:           idToken.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		IssuedAt:      idToken.IssuedAt,
		Expiry:        idToken.Expiry,
	}, nil
}

// VerifyCurrentToken verifies the session's access token, refreshing it first if it has expired.
func (c *Client) VerifyCurrentToken(ctx context.Context, v *Verifier) (*VerifiedToken, error) {
	token, err := c.session.GetValidAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return v.Verify(ctx, token)
}
