package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired the token was well formed and correctly signed but its exp is in the past.
	ErrTokenExpired = errors.New("jwt: token expired")
	// ErrTokenInvalid any other verification failure (signature, algorithm, malformed claims).
	ErrTokenInvalid = errors.New("jwt: token invalid")
)

// Claims standard registered claims plus the account fields the access gates need,
// so authorization does not hit the store on every request.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Role   string `json:"role"`   // "admin" | "user"
	Status string `json:"status"` // account status at issuance time
}

// Generate signs an HS256 token for userID valid for ttl from now.
func Generate(secret, userID, role, status, issuer string, ttl time.Duration) (string, error) {
	return GenerateAt(secret, userID, role, status, issuer, ttl, time.Now())
}

// GenerateAt is Generate with an explicit issuance instant.
func GenerateAt(secret, userID, role, status, issuer string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: empty secret")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Role:   role,
		Status: status,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse verifies the signature and expiry and returns the claims.
// Expired tokens yield ErrTokenExpired; every other failure yields ErrTokenInvalid.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: empty secret")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: invalid claims", ErrTokenInvalid)
	}
	return claims, nil
}
