package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueToken signs an HS256 token for subject valid for ttl from now. The
// API has no accounts; operators mint tokens with the token command.
func IssueToken(secret, subject string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token duration must be positive")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "trailhead-sync",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	tokenStr, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenStr, nil
}
