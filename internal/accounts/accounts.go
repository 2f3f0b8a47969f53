// Package accounts creates portal accounts, checks logins and issues session tokens
// for the two portal roles.
package accounts

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/hnrobert/edupulse/internal/auth"
	"github.com/hnrobert/edupulse/internal/logger"
	"github.com/hnrobert/edupulse/internal/store"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrNotFound           = errors.New("account not found")

	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, auth.MaxPasswordBytes)
)

const (
	defaultAdminName = "Admin"

	// fallbackDecoyHash is a cost-10 bcrypt hash of a discarded password, used
	// when the per-process decoy cannot be generated.
	fallbackDecoyHash = "$2b$10$N9qo8uLOickgx2ZMRZoMyerR3LqP2ONhSs9DCGT/r6iBRMibs/i8y"

	federatedIDPrefix = "G"
	localIDPrefix     = "S"
	studentIDDigits   = 6
)

type Service struct {
	store  store.Store
	secret []byte
	cost   int
	now    func() time.Time
	digits func(n int) (string, error)

	decoyOnce sync.Once
	decoy     string
}

type Option func(*Service)

// WithBcryptCost overrides the bcrypt cost of new hashes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(st store.Store, secret []byte, opts ...Option) *Service {
	s := &Service{
		store:  st,
		secret: secret,
		cost:   auth.DefaultCost,
		now:    time.Now,
		digits: randomDigits,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type AdminProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type StudentProfile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	StudentID string `json:"studentId"`
	Phone     string `json:"phone,omitempty"`
	Picture   string `json:"picture,omitempty"`
}

type AdminSession struct {
	Token     string
	ExpiresAt time.Time
	ID        int64
	Admin     AdminProfile
}

type StudentSession struct {
	Token     string
	ExpiresAt time.Time
	ID        int64
	Student   StudentProfile
	// Created is set when the call created the account.
	Created bool
}

func adminProfile(a *store.Admin) AdminProfile {
	return AdminProfile{Name: a.Name, Email: a.Email}
}

func studentProfile(s *store.Student) StudentProfile {
	return StudentProfile{Name: s.Name, Email: s.Email, StudentID: s.StudentID, Phone: s.Phone, Picture: s.Picture}
}

// VerifyToken checks signature and expiry and returns the embedded claims.
func (s *Service) VerifyToken(token string) (*auth.Claims, error) {
	return auth.ParseHS256(s.secret, strings.TrimSpace(token))
}

// Profile returns the public profile of the account a token was issued for.
func (s *Service) Profile(ctx context.Context, claims *auth.Claims) (any, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	switch claims.Role {
	case auth.RoleAdmin:
		if a := doc.AdminByID(claims.UserID); a != nil {
			return adminProfile(a), nil
		}
	case auth.RoleStudent:
		if st := doc.StudentByID(claims.UserID); st != nil {
			return studentProfile(st), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) issue(id int64, role string, ttl time.Duration) (string, time.Time, error) {
	tok, exp, err := auth.SignHS256(s.secret, id, role, ttl)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tok, exp, nil
}

// checkPassword hides whether the account exists: a missing account costs a
// comparison against a throwaway hash, and both paths yield ErrInvalidCredentials.
// A stored hash in a format we cannot verify is refused the same way.
func (s *Service) checkPassword(role string, id int64, hash, password string) error {
	if hash == "" {
		_ = auth.ComparePassword(s.decoyHash(), password)
		return ErrInvalidCredentials
	}
	if err := auth.ComparePassword(hash, password); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return ErrInvalidCredentials
		case errors.Is(err, auth.ErrUnsupportedHash):
			logger.Warn("%s %d has an unsupported password hash; login refused", role, id)
			_ = auth.ComparePassword(s.decoyHash(), password)
			return ErrInvalidCredentials
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}

func (s *Service) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy = fallbackDecoyHash
		pw, err := s.digits(12)
		if err != nil {
			logger.Warn("generate decoy password: %v", err)
			return
		}
		h, err := auth.HashPassword(pw, s.cost)
		if err != nil {
			logger.Warn("hash decoy password: %v", err)
			return
		}
		s.decoy = h
	})
	return s.decoy
}

// checkPasswordLength rejects passwords bcrypt would refuse to hash.
func checkPasswordLength(password string) error {
	if len(password) > auth.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

func (s *Service) newStudentID(prefix string, doc *store.Document) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		digits, err := s.digits(studentIDDigits)
		if err != nil {
			return "", fmt.Errorf("generate student id: %w", err)
		}
		id := prefix + digits
		if !studentIDTaken(doc, id) {
			return id, nil
		}
	}
	return "", errors.New("generate student id: too many collisions")
}

func studentIDTaken(doc *store.Document, id string) bool {
	for i := range doc.Students {
		if doc.Students[i].StudentID == id {
			return true
		}
	}
	return false
}
