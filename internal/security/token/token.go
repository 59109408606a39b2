// Package token issues and verifies HS256-signed bearer tokens.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTTL is the lifetime of an access token when none is configured.
const DefaultTTL = 30 * time.Minute

var (
	// ErrInvalid is returned for every token that fails verification. Malformed,
	// forged and expired tokens are deliberately indistinguishable.
	ErrInvalid = errors.New("invalid token")

	// ErrMissingSecret is returned when the service is built without a signing key.
	ErrMissingSecret = errors.New("token signing secret is required")
)

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service signs and verifies access tokens with a process-wide symmetric key.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// New builds a token Service. It fails when secret is empty.
func New(secret string, ttl time.Duration, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the default token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject using the default TTL.
func (s *Service) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL signs a token for subject that expires ttl after now.
func (s *Service) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded subject.
func (s *Service) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalid
	}
	if !claims.VerifyExpiresAt(s.now(), true) {
		return "", ErrInvalid
	}
	if claims.Subject == "" {
		return "", ErrInvalid
	}
	return claims.Subject, nil
}
