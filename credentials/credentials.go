package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

var (
	ErrNotFound  = apperrors.ErrCredentialsNotFound
	ErrMalformed = apperrors.ErrMalformedCredentials
)

// Credentials is the access/refresh token pair owned by a session.
// AccessToken and TokenExpiry are always written together.
type Credentials struct {
	AccessToken  string    // Short-lived bearer token; empty means a token must be acquired
	RefreshToken string    // Long-lived token exchanged for new access tokens; empty means signed out
	TokenExpiry  time.Time // Instant after which AccessToken is no longer accepted
}

// IsEmpty reports whether no field is set.
func (c Credentials) IsEmpty() bool {
	return c.AccessToken == "" && c.RefreshToken == "" && c.TokenExpiry.IsZero()
}

// Complete reports whether all three fields are set.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != "" && !c.TokenExpiry.IsZero()
}

// Valid reports whether the access token can be used at now without a refresh.
func (c Credentials) Valid(now time.Time) bool {
	return c.AccessToken != "" && !now.After(c.TokenExpiry)
}

// Merge returns c with every non-zero field of partial copied over it.
// Zero fields in partial never overwrite stored values.
func (c Credentials) Merge(partial Credentials) Credentials {
	if partial.AccessToken != "" {
		c.AccessToken = partial.AccessToken
	}
	if partial.RefreshToken != "" {
		c.RefreshToken = partial.RefreshToken
	}
	if !partial.TokenExpiry.IsZero() {
		c.TokenExpiry = partial.TokenExpiry
	}
	return c
}

// Store is the durable home of a session's credentials.
// Load returns ErrNotFound when nothing was ever stored.
type Store interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
}

// TryLoad loads credentials from s and accepts them only when all three fields are present.
// Any failure yields empty credentials and false, which callers treat as "never signed in".
func TryLoad(ctx context.Context, s Store) (Credentials, bool) {
	creds, err := s.Load(ctx)
	if err != nil || !creds.Complete() {
		return Credentials{}, false
	}
	return creds, true
}

// record is the persisted shape. token_expiry is seconds since the epoch,
// written as an exact decimal so nanoseconds survive a round trip.
type record struct {
	AccessToken  string      `json:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	TokenExpiry  json.Number `json:"token_expiry,omitempty"`
}

// Encode renders creds in the persisted format. Empty credentials encode as {}.
func Encode(creds Credentials) ([]byte, error) {
	r := record{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
	}
	if !creds.TokenExpiry.IsZero() {
		r.TokenExpiry = formatEpoch(creds.TokenExpiry)
	}
	return json.Marshal(r)
}

// Decode parses the persisted format. Missing fields decode as zero values; use Complete to validate.
func Decode(data []byte) (Credentials, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return Credentials{}, apperrors.Wrapf(ErrMalformed, "decode: %s", err.Error())
	}

	creds := Credentials{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
	}
	if r.TokenExpiry != "" {
		expiry, err := parseEpoch(r.TokenExpiry)
		if err != nil {
			return Credentials{}, apperrors.Wrapf(ErrMalformed, "token_expiry %q", string(r.TokenExpiry))
		}
		creds.TokenExpiry = expiry
	}
	return creds, nil
}

func formatEpoch(t time.Time) json.Number {
	if t.Nanosecond() == 0 {
		return json.Number(strconv.FormatInt(t.Unix(), 10))
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", t.Nanosecond()), "0")
	return json.Number(strconv.FormatInt(t.Unix(), 10) + "." + frac)
}

// parseEpoch reads decimal epoch seconds exactly. Exponent forms fall back to float precision.
func parseEpoch(n json.Number) (time.Time, error) {
	raw := string(n)
	if strings.ContainsAny(raw, "eE") {
		f, err := n.Float64()
		if err != nil {
			return time.Time{}, err
		}
		whole, frac := math.Modf(f)
		return epochOrZero(int64(whole), int64(math.Round(frac*1e9))), nil
	}

	whole, frac, _ := strings.Cut(raw, ".")
	if strings.HasPrefix(whole, "-") {
		return time.Time{}, nil
	}
	secs, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	var nanos int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		nanos, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return time.Time{}, err
		}
	}
	return epochOrZero(secs, nanos), nil
}

func epochOrZero(secs, nanos int64) time.Time {
	if secs <= 0 && nanos <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, nanos)
}
