// Package servicetoken mints and verifies the short-lived HS256 tokens the
// admin service presents to the vehicles API.
package servicetoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
	"github.com/louisbranch/autofix/internal/platform/timeouts"
)

// AudienceVehicles identifies the vehicles API as a token audience.
const AudienceVehicles = "autofix-vehicles"

const minSecretLength = 16

// Config defines how tokens are signed and checked.
type Config struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Now      func() time.Time
}

// Claims captures validated token claims.
type Claims struct {
	Issuer    string
	Subject   string
	ExpiresAt time.Time
}

// NewConfig validates a shared secret and fills defaults.
func NewConfig(secret, issuer string) (Config, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < minSecretLength {
		return Config{}, fmt.Errorf("service token secret must be at least %d bytes", minSecretLength)
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return Config{}, errors.New("service token issuer is required")
	}
	return Config{
		Secret:   []byte(secret),
		Issuer:   issuer,
		Audience: AudienceVehicles,
		TTL:      timeouts.ServiceToken,
		Now:      time.Now,
	}, nil
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Mint signs a token for subject.
func Mint(cfg Config, subject string) (string, error) {
	if len(cfg.Secret) == 0 {
		return "", errors.New("service token secret is not configured")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = timeouts.ServiceToken
	}
	now := cfg.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign service token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, audience and lifetime.
func Verify(cfg Config, token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.E(apperrors.KindUnauthorized, "service token is required")
	}
	if len(cfg.Secret) == 0 {
		return Claims{}, errors.New("service token verifier is not configured")
	}

	var parsed jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(cfg.Audience),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(cfg.now),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}
	if cfg.Issuer != "" && parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.E(apperrors.KindUnauthorized, "service token issuer mismatch")
	}
	return Claims{
		Issuer:    parsed.Issuer,
		Subject:   parsed.Subject,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(apperrors.KindUnauthorized, "service token is expired", err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return apperrors.Wrap(apperrors.KindUnauthorized, "service token audience mismatch", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.Wrap(apperrors.KindUnauthorized, "service token signature is invalid", err)
	default:
		return apperrors.Wrap(apperrors.KindUnauthorized, "service token is invalid", err)
	}
}
