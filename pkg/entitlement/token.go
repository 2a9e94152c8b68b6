package entitlement

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig configures bearer token verification.
type TokenConfig struct {
	Secret   string        `env:"AUTH_JWT_SECRET,required"`
	Issuer   string        `env:"AUTH_JWT_ISSUER"`
	Audience string        `env:"AUTH_JWT_AUDIENCE"`
	Leeway   time.Duration `env:"AUTH_JWT_LEEWAY" envDefault:"30s"`
}

// tokenClaims carries the registered claims plus the untrusted plan and role.
// The identity provider places them either at the top level or inside
// public_metadata; the top level wins.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role     any            `json:"role,omitempty"`
	Plan     any            `json:"plan,omitempty"`
	Metadata map[string]any `json:"public_metadata,omitempty"`
}

// TokenParser verifies HS256 bearer tokens and extracts Claims.
type TokenParser struct {
	secret []byte
	opts   []jwt.ParserOption
}

// NewTokenParser builds a parser from cfg. An empty secret is rejected.
func NewTokenParser(cfg TokenConfig, extra ...jwt.ParserOption) (*TokenParser, error) {
	if cfg.Secret == "" {
		return nil, errors.Join(ErrInvalidToken, errors.New("empty signing secret"))
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &TokenParser{
		secret: []byte(cfg.Secret),
		opts:   append(opts, extra...),
	}, nil
}

// Parse verifies raw and returns its claim bundle.
func (p *TokenParser) Parse(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMissingToken
	}

	var tc tokenClaims
	_, err := jwt.ParseWithClaims(raw, &tc, func(*jwt.Token) (any, error) {
		return p.secret, nil
	}, p.opts...)
	if err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	claims := Claims{Subject: tc.Subject, Role: tc.Role, Plan: tc.Plan}
	if claims.Role == nil {
		claims.Role = tc.Metadata["role"]
	}
	if claims.Plan == nil {
		claims.Plan = tc.Metadata["plan"]
	}
	return claims, nil
}
