package session

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-auth-client/identitytoolkit"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

var (
	ErrNotSignedIn            = apperrors.ErrNotSignedIn
	ErrMalformedTokenResponse = apperrors.ErrMalformedTokenResponse
	ErrUnknownMode            = apperrors.ErrUnknownMode
)

// AuthError is returned for every response with status >= 400, from any endpoint.
type AuthError struct {
	Message string
	Code    int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// IsAuthError reports whether err is an AuthError carrying message.
func IsAuthError(err error, message string) bool {
	var authErr *AuthError
	return apperrors.As(err, &authErr) && authErr.Message == message
}

// checkStatus turns a rejected response into an AuthError. A body that is not
// {"error": {"message", "code"}} is reported verbatim with code 400.
func checkStatus(status int, body []byte) error {
	if status < http.StatusBadRequest {
		return nil
	}
	return errorFromResponse(body)
}

func errorFromResponse(body []byte) *AuthError {
	var resp identitytoolkit.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil &&
		resp.Error != nil && resp.Error.Message != nil && resp.Error.Code != nil {
		return &AuthError{Message: *resp.Error.Message, Code: *resp.Error.Code}
	}
	return &AuthError{Message: string(body), Code: http.StatusBadRequest}
}
