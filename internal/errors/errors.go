package errors

import (
	"errors"
	"fmt"
)

// Common error types for the identity client
var (
	// Session errors
	ErrNotSignedIn            = errors.New("not signed in")
	ErrMalformedTokenResponse = errors.New("malformed token response")
	ErrUnknownMode            = errors.New("unknown request mode")
	ErrNoUsers                = errors.New("lookup returned no users")

	// Credential store errors
	ErrCredentialsNotFound  = errors.New("credentials not found")
	ErrMalformedCredentials = errors.New("malformed credentials")
	ErrWrongPassphrase      = errors.New("credentials could not be decrypted")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
