// Package auth inspects bearer tokens for the route guard. Token
// issuance and validation belong to the backend; the guard only needs
// to know whether a plausible, unexpired token is present, optionally
// checking the signature against a JWKS endpoint when one is configured.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"lorehub/internal/domain"
)

// Inspector checks bearer tokens. With a JWKS endpoint configured it
// verifies signatures; without one it only parses claims and checks
// expiry, leaving real validation to the backend.
type Inspector struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewInspector creates an inspector. jwksURL may be empty, in which
// case tokens are inspected without signature verification.
func NewInspector(ctx context.Context, jwksURL string, logger *slog.Logger) (*Inspector, error) {
	ins := &Inspector{logger: logger}

	if jwksURL != "" {
		// keyfunc v3 caches and refreshes keys based on HTTP cache headers.
		jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
		if err != nil {
			return nil, fmt.Errorf("create JWKS client: %w", err)
		}
		ins.jwks = jwks
		logger.Info("token inspector verifying signatures", "jwks_url", jwksURL)
	}

	return ins, nil
}

// Inspect parses the token and returns its registered claims.
// Returns domain.ErrUnauthorized for anything unusable.
func (i *Inspector) Inspect(tokenString string) (*jwt.RegisteredClaims, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthorized
	}

	claims := &jwt.RegisteredClaims{}

	if i.jwks == nil {
		// Unverified parse still rejects malformed and expired tokens.
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, domain.ErrUnauthorized
		}
		if err := jwt.NewValidator().Validate(claims); err != nil {
			return nil, domain.ErrUnauthorized
		}
		return claims, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, i.jwks.Keyfunc)
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// Reject algorithm confusion: only asymmetric signatures are expected.
	switch token.Method.Alg() {
	case "RS256", "ES256":
	default:
		i.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Valid reports whether the token passes inspection.
func (i *Inspector) Valid(tokenString string) bool {
	_, err := i.Inspect(tokenString)
	return err == nil
}
