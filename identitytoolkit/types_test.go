package identitytoolkit_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/identitytoolkit"
	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestSecondsDecodesStringAndNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    identitytoolkit.Seconds
		wantErr bool
	}{
		{in: `3600`, want: 3600},
		{in: `"3600"`, want: 3600},
		{in: `" 60 "`, want: 60},
		{in: `"soon"`, wantErr: true},
		{in: `12.5`, want: 12},
		{in: `3600.0`, want: 3600},
		{in: `"3600.0"`, want: 3600},
		{in: `3.6e3`, want: 3600},
		{in: `"NaN"`, wantErr: true},
		{in: `1e300`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s identitytoolkit.Seconds
			err := json.Unmarshal([]byte(tt.in), &s)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, s)
		})
	}
	require.Equal(t, time.Hour, identitytoolkit.Seconds(3600).Duration())
}

func TestTokenResponseCamelCase(t *testing.T) {
	var resp identitytoolkit.TokenResponse
	require.NoError(t, json.Unmarshal([]byte(`{"idToken":"T1","refreshToken":"R1","expiresIn":"3600","localId":"u1"}`), &resp))

	require.Equal(t, identitytoolkit.TokenResponse{IDToken: "T1", RefreshToken: "R1", ExpiresIn: 3600, LocalID: "u1"}, resp)
	require.True(t, resp.Complete())
}

func TestTokenResponseSnakeCase(t *testing.T) {
	var resp identitytoolkit.TokenResponse
	body := `{"access_token":"A","id_token":"T2","refresh_token":"R2","expires_in":"3600","token_type":"Bearer","user_id":"u1"}`
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	require.Equal(t, identitytoolkit.TokenResponse{IDToken: "T2", RefreshToken: "R2", ExpiresIn: 3600, LocalID: "u1"}, resp)
}

func TestTokenResponseIncomplete(t *testing.T) {
	var resp identitytoolkit.TokenResponse
	require.NoError(t, json.Unmarshal([]byte(`{"idToken":"T1","expiresIn":3600}`), &resp))
	require.False(t, resp.Complete())
}

func TestSignUpRequestAnonymousHasNoCredentials(t *testing.T) {
	req := &identitytoolkit.SignUpRequest{}
	req.SetReturnSecureToken(true)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"returnSecureToken":true}`, string(data))
}

func TestAuthenticatedRequestCarriesIDTokenOnly(t *testing.T) {
	req := &identitytoolkit.UpdateRequest{DisplayName: utils.Ptr("Ann")}
	req.SetIDToken("T1")

	data, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"idToken":"T1","displayName":"Ann"}`, string(data))
}

func TestRefreshRequestShape(t *testing.T) {
	data, err := json.Marshal(identitytoolkit.RefreshRequest{GrantType: identitytoolkit.RefreshTokenGrant, RefreshToken: "R1"})
	require.NoError(t, err)
	require.JSONEq(t, `{"grant_type":"refresh_token","refresh_token":"R1"}`, string(data))
}
