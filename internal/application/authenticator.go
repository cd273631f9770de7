package application

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/LeeyaD/phonebook-server/internal/domain/apperr"
	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
)

const bearerScheme = "Bearer"

// Claims is the identity asserted by a verified token.
type Claims struct {
	UserID   string
	Username string
}

// Authenticator verifies bearer credentials. It never reads storage.
type Authenticator struct {
	JWT *helpers.JWTManager
}

func NewAuthenticator(jwt *helpers.JWTManager) *Authenticator {
	return &Authenticator{JWT: jwt}
}

// Authenticate parses an Authorization header value of the form
// "Bearer <token>".
func (a *Authenticator) Authenticate(header string) (Claims, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Claims{}, ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return Claims{}, ErrInvalidAuthScheme
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrMissingToken
	}

	c, err := a.JWT.ParseAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired.WithCause(err)
		}
		return Claims{}, ErrInvalidToken.WithCause(err)
	}
	if c.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: c.UserID, Username: c.Username}, nil
}

// Issue signs a token for u.
func (a *Authenticator) Issue(u *entity.User) (string, error) {
	token, _, err := a.JWT.GenerateAccessToken(u.ID, u.Username)
	if err != nil {
		return "", apperr.Internal("token_sign", err)
	}
	return token, nil
}
