package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	apierr "github.com/tasklane/tasklane/pkg/api/types/errors"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// Issuer mints and verifies bearer tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue mints a token naming its bearer.
func (iss *Issuer) Issue(subject string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(iss.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(iss.secret)
}

// Verify checks a token's signature and expiry, and returns its subject.
func (iss *Issuer) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return iss.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// Middleware rejects requests lacking a valid "Authorization: Bearer ..." header.
//
// The verified subject is stored in the echo context under "auth.subject".
func Middleware(iss *Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				return apierr.Unauthorized("bearer token is required", nil)
			}

			subject, err := iss.Verify(token)
			if err != nil {
				return apierr.Unauthorized("token is not valid", err)
			}

			c.Set("auth.subject", subject)
			return next(c)
		}
	}
}
