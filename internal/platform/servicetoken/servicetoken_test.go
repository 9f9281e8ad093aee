package servicetoken

import (
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig(t *testing.T, now time.Time) Config {
	t.Helper()
	cfg, err := NewConfig(testSecret, "autofix-admin")
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	cfg.Now = func() time.Time { return now }
	return cfg
}

func TestMintAndVerify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig(t, now)

	token, err := Mint(cfg, "admin")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := Verify(cfg, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("Subject = %q, want admin", claims.Subject)
	}
	if claims.Issuer != "autofix-admin" {
		t.Fatalf("Issuer = %q", claims.Issuer)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("ExpiresAt = %v", claims.ExpiresAt)
	}
}

func TestVerifyRejects(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := testConfig(t, now)
	token, err := Mint(cfg, "admin")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	expired := cfg
	expired.Now = func() time.Time { return now.Add(2 * time.Minute) }

	otherSecret := cfg
	otherSecret.Secret = []byte("fedcba9876543210fedcba9876543210")

	otherAudience := cfg
	otherAudience.Audience = "autofix-billing"

	otherIssuer := cfg
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name  string
		cfg   Config
		token string
	}{
		{name: "empty", cfg: cfg, token: " "},
		{name: "garbage", cfg: cfg, token: "not.a.token"},
		{name: "expired", cfg: expired, token: token},
		{name: "wrong secret", cfg: otherSecret, token: token},
		{name: "wrong audience", cfg: otherAudience, token: token},
		{name: "wrong issuer", cfg: otherIssuer, token: token},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Verify(tc.cfg, tc.token)
			if err == nil {
				t.Fatal("expected verification error")
			}
			if !apperrors.IsKind(err, apperrors.KindUnauthorized) {
				t.Fatalf("kind = %q, want unauthorized (err %v)", apperrors.KindOf(err), err)
			}
		})
	}
}

func TestNewConfigValidatesInput(t *testing.T) {
	t.Parallel()

	if _, err := NewConfig("short", "autofix-admin"); err == nil || !strings.Contains(err.Error(), "at least") {
		t.Fatalf("expected short secret error, got %v", err)
	}
	if _, err := NewConfig(testSecret, " "); err == nil {
		t.Fatal("expected missing issuer error")
	}
}

func TestMintRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := Mint(Config{}, "admin"); err == nil {
		t.Fatal("expected missing secret error")
	}
}
