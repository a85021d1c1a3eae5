package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/pkg/errors"
)

// TokenClaims are the identity claims carried by an access (ID) token.
type TokenClaims struct {
	Subject   string
	Email     string
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email  string `json:"email,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// InspectToken decodes the claims of rawToken WITHOUT verifying its signature.
// Use it for display and diagnostics only; identity.Verifier checks signatures.
func InspectToken(rawToken string) (*TokenClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrInvalidToken
	}

	var claims idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, &claims); err != nil {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, err.Error())
	}

	tc := &TokenClaims{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
	}
	if tc.Subject == "" {
		tc.Subject = claims.UserID
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	return tc, nil
}
