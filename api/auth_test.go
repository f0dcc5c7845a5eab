package api_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomasfarkasovsky/trailhead/api"
)

func TestIssueToken(t *testing.T) {
	now := time.Now()
	tok, err := api.IssueToken("testsecret", "ops", time.Hour, now)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return []byte("testsecret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	if claims.Subject != "ops" || claims.Issuer != "trailhead-sync" {
		t.Fatalf("unexpected claims %#v", claims)
	}
	if got := claims.ExpiresAt.Time.Unix(); got != now.Add(time.Hour).Unix() {
		t.Fatalf("unexpected expiry %d", got)
	}

	if _, err := api.IssueToken("", "ops", time.Hour, now); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := api.IssueToken("s", "ops", 0, now); err == nil {
		t.Fatalf("expected error for zero duration")
	}
}
