package util

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultUserClaim is the claim that carries the identity provider's user id.
const DefaultUserClaim = "uid"

var ErrMissingUserClaim = errors.New("token has no user identifier")

// GenerateJWT creates a signed token for uid, used by development tooling
// in place of the external identity provider.
func GenerateJWT(uid, secret, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		DefaultUserClaim: uid,
		"sub":            uid,
		"exp":            now.Add(ttl).Unix(),
		"iat":            now.Unix(),
	}
	if issuer != "" {
		claims["iss"] = issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT validates the token and extracts the user id from userClaim,
// falling back to the standard subject claim.
func ParseJWT(tokenStr, secret, issuer, userClaim string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenMalformed
	}

	if userClaim == "" {
		userClaim = DefaultUserClaim
	}
	if uid, ok := claims[userClaim].(string); ok && uid != "" {
		return uid, nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", ErrMissingUserClaim
}

func ExtractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
