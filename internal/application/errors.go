package application

import "github.com/LeeyaD/phonebook-server/internal/domain/apperr"

// Authentication failures. The transport answers all of them with 401.
var (
	ErrMissingToken      = apperr.New(apperr.KindAuthentication, "token_missing", "token missing or invalid")
	ErrInvalidAuthScheme = apperr.New(apperr.KindAuthentication, "token_scheme", "token missing or invalid")
	ErrInvalidToken      = apperr.New(apperr.KindAuthentication, "token_invalid", "token missing or invalid")
	ErrTokenExpired      = apperr.New(apperr.KindAuthentication, "token_expired", "token expired")
	ErrUnknownUser       = apperr.New(apperr.KindAuthentication, "token_unknown_user", "token references unknown user")
)

var (
	ErrNotOwner           = apperr.New(apperr.KindUnauthorized, "not_owner", "user not authorized to delete contact")
	ErrInvalidCredentials = apperr.New(apperr.KindAuthentication, "invalid_credentials", "invalid username or password")
)

var (
	ErrContactNotFound = apperr.New(apperr.KindNotFound, "contact_not_found", "contact not found")
	ErrMalformedID     = apperr.New(apperr.KindMalformedID, "malformed_id", "malformatted id")
)

var (
	ErrValidation     = apperr.New(apperr.KindValidation, "validation_failed", "validation failed")
	ErrInvalidPayload = apperr.New(apperr.KindValidation, "invalid_payload", "invalid request payload")
	ErrEmptyQuery     = apperr.New(apperr.KindValidation, "empty_query", "search query must not be empty")
	ErrUsernameTaken  = apperr.New(apperr.KindConflict, "username_taken", "expected `username` to be unique")
)

func storeFailure(cause error) *apperr.Error {
	return apperr.Internal("store_failure", cause)
}
