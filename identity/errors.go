package identity

import apperrors "github.com/jrsteele09/go-auth-client/internal/errors"

var ErrNoUsers = apperrors.ErrNoUsers
