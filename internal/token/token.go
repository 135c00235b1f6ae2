package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid covers every verification failure: expired, malformed and
// signature mismatch all look the same to callers.
var ErrInvalid = errors.New("invalid token")

const (
	SessionTTL = 7 * 24 * time.Hour

	// VerificationTTL is the short-lived variant used for one-shot
	// flows such as email verification links.
	VerificationTTL = time.Hour
)

type Config struct {
	Secret []byte
	Now    func() time.Time
}

// Service issues and verifies HS256-signed identity tokens. The
// signing secret is fixed for the process lifetime; there is no key
// rotation.
type Service struct {
	secret []byte
	now    func() time.Time
}

func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{secret: cfg.Secret, now: now}
}

// Issue returns a session token for the given user.
func (s *Service) Issue(userID int64) (string, error) {
	return s.sign(userID, SessionTTL)
}

// IssueVerification returns the 1-hour verification-token variant.
func (s *Service) IssueVerification(userID int64) (string, error) {
	return s.sign(userID, VerificationTTL)
}

func (s *Service) sign(userID int64, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates signature and expiry and returns the user id
// carried in the subject claim.
func (s *Service) Verify(tokenString string) (int64, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalid
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return 0, ErrInvalid
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalid
	}
	return id, nil
}
