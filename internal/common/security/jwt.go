package security

import (
	"errors"
	"strconv"
	"time"

	"codecoach/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies the stateless bearer tokens. Validity is
// determined purely by signature and expiry; there is no revocation state.
type TokenIssuer struct {
	auth   *jwtauth.JWTAuth
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		auth:   jwtauth.New("HS256", secret, nil),
		secret: secret,
		ttl:    ttl,
	}
}

// JWTAuth exposes the underlying verifier for router middleware.
func (t *TokenIssuer) JWTAuth() *jwtauth.JWTAuth {
	return t.auth
}

func (t *TokenIssuer) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": strconv.FormatInt(userID, 10),
		"iat":     now.Unix(),
		"exp":     now.Add(t.ttl).Unix(),
	}
	_, tokenString, err := t.auth.Encode(claims)
	return tokenString, err
}

// Verify checks signature and expiry and returns the user id the token
// asserts. Expired tokens are distinguished from otherwise-invalid ones.
func (t *TokenIssuer) Verify(tokenString string) (int64, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrExpiredToken
		}
		return 0, common.ErrInvalidToken
	}
	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	return UserIDFromClaims(claims)
}

// UserIDFromClaims extracts the user id claim shared by Verify and the router
// middleware, which sees claims decoded by jwtauth.
func UserIDFromClaims(claims map[string]interface{}) (int64, error) {
	raw, ok := claims["user_id"].(string)
	if !ok {
		return 0, common.ErrInvalidToken
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}
