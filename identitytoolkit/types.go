// Package identitytoolkit holds the request and response records of the
// email/password identity REST API and its token-exchange endpoint.
package identitytoolkit

// Operation names appended to the accounts root as "{root}:{op}".
const (
	OpSignUp             = "signUp"
	OpSignInWithPassword = "signInWithPassword"
	OpLookup             = "lookup"
	OpUpdate             = "update"
	OpDelete             = "delete"
)

// GrantType of the token-exchange request.
type GrantType string

const (
	// RefreshTokenGrant exchanges a refresh token for a new token pair.
	RefreshTokenGrant GrantType = "refresh_token"
)

// Envelope carries the fields a session stamps onto every identity request.
// Exactly one of them is set, depending on whether the request acquires
// credentials or uses existing ones.
type Envelope struct {
	// IDToken is the caller's current access token on authenticated requests.
	IDToken string `json:"idToken,omitempty"`

	// ReturnSecureToken asks the backend to issue a token pair in the response.
	ReturnSecureToken bool `json:"returnSecureToken,omitempty"`
}

func (e *Envelope) SetIDToken(token string) {
	e.IDToken = token
}

func (e *Envelope) SetReturnSecureToken(v bool) {
	e.ReturnSecureToken = v
}

// SignUpRequest creates an account. With neither field set the account is anonymous.
type SignUpRequest struct {
	Envelope
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type PasswordSignInRequest struct {
	Envelope
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LookupRequest struct {
	Envelope
}

// UpdateRequest changes profile attributes of the signed-in account.
type UpdateRequest struct {
	Envelope
	DisplayName *string `json:"displayName,omitempty"`
	PhotoURL    *string `json:"photoUrl,omitempty"`
}

type DeleteRequest struct {
	Envelope
}

// RefreshRequest is the body posted to the token-exchange endpoint.
type RefreshRequest struct {
	GrantType    GrantType `json:"grant_type"`
	RefreshToken string    `json:"refresh_token"`
}

// User is one account record as returned by lookup and update.
type User struct {
	LocalID       string `json:"localId,omitempty"`
	Email         string `json:"email,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
	PhotoURL      string `json:"photoUrl,omitempty"`
	EmailVerified bool   `json:"emailVerified,omitempty"`
}

type LookupResponse struct {
	Users []User `json:"users"`
}

// ErrorResponse is the body of a rejected request: {"error": {"message", "code"}}.
type ErrorResponse struct {
	Error *ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message *string `json:"message"`
	Code    *int    `json:"code"`
}
