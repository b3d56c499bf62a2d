package auth

import (
	"errors"
	"fmt"
	"time"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/models"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims issued by the identity provider. Subject carries
// the user ID.
type Claims struct {
	Role   string `json:"role"`
	Status string `json:"status"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 bearer tokens.
type TokenCodec struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func NewTokenCodec(secret, issuer string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{Secret: []byte(secret), Issuer: issuer, TTL: ttl}
}

// Issue mints a token for the actor. The server never calls this; it exists
// for the admin CLI and tests.
func (c *TokenCodec) Issue(a Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:   string(a.Role),
		Status: string(a.Status),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.UserID,
			Issuer:    c.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.Secret)
}

// Parse verifies the token and returns the actor it describes.
func (c *TokenCodec) Parse(tokenString string) (Actor, error) {
	var claims Claims
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if c.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return c.Secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Anonymous, apperr.Wrap(err, apperr.KindUnauthorized, "token expired")
		}
		return Anonymous, apperr.Wrap(err, apperr.KindUnauthorized, "invalid token")
	}

	if claims.Subject == "" {
		return Anonymous, apperr.New(apperr.KindUnauthorized, "token has no subject")
	}
	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return Anonymous, apperr.New(apperr.KindUnauthorized, fmt.Sprintf("unknown role %q", claims.Role))
	}
	status, ok := models.ParseAccountStatus(claims.Status)
	if !ok {
		// Tokens minted before account review carry no status.
		status = models.AccountPending
	}
	return Actor{UserID: claims.Subject, Role: role, Status: status}, nil
}
