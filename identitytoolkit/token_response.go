package identitytoolkit

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Seconds is a duration in whole seconds that decodes from either a JSON
// number or a numeric string, e.g. 3600, "3600" or 3600.0. Fractional values
// are truncated to whole seconds.
type Seconds int64

func (s *Seconds) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*s = Seconds(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.Wrapf(err, "[Seconds.UnmarshalJSON] %s", string(data))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/float64(time.Second) {
		return errors.Errorf("[Seconds.UnmarshalJSON] %s out of range", string(data))
	}
	*s = Seconds(int64(f))
	return nil
}

func (s Seconds) Duration() time.Duration {
	return time.Duration(s) * time.Second
}

// TokenResponse is the token pair issued by sign-up, sign-in and refresh.
// The identity endpoint answers in camelCase while the token-exchange
// endpoint answers in snake_case; both spellings decode into the same fields.
type TokenResponse struct {
	// IDToken is the new short-lived access token.
	IDToken string `json:"idToken,omitempty"`

	// RefreshToken is the long-lived token for later exchanges; it may rotate.
	RefreshToken string `json:"refreshToken,omitempty"`

	// ExpiresIn is the lifetime of IDToken from the moment of issue.
	ExpiresIn Seconds `json:"expiresIn,omitempty"`

	// LocalID is the account's uid when the backend includes it.
	LocalID string `json:"localId,omitempty"`
}

func (t *TokenResponse) UnmarshalJSON(data []byte) error {
	var wire struct {
		IDToken           string   `json:"idToken"`
		RefreshToken      string   `json:"refreshToken"`
		ExpiresIn         *Seconds `json:"expiresIn"`
		LocalID           string   `json:"localId"`
		IDTokenSnake      string   `json:"id_token"`
		RefreshTokenSnake string   `json:"refresh_token"`
		ExpiresInSnake    *Seconds `json:"expires_in"`
		UserIDSnake       string   `json:"user_id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*t = TokenResponse{
		IDToken:      firstNonEmpty(wire.IDToken, wire.IDTokenSnake),
		RefreshToken: firstNonEmpty(wire.RefreshToken, wire.RefreshTokenSnake),
		LocalID:      firstNonEmpty(wire.LocalID, wire.UserIDSnake),
	}
	switch {
	case wire.ExpiresIn != nil:
		t.ExpiresIn = *wire.ExpiresIn
	case wire.ExpiresInSnake != nil:
		t.ExpiresIn = *wire.ExpiresInSnake
	}
	return nil
}

// Complete reports whether the response carries everything needed to store credentials.
func (t TokenResponse) Complete() bool {
	return t.IDToken != "" && t.RefreshToken != "" && t.ExpiresIn > 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
