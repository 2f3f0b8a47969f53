package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/hnrobert/edupulse/internal/auth"
	"github.com/hnrobert/edupulse/internal/store"
)

type AdminRegistration struct {
	Email    string
	Password string
	Name     string
}

func (s *Service) RegisterAdmin(ctx context.Context, req AdminRegistration) (AdminProfile, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return AdminProfile{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultAdminName
	}
	if err := checkPasswordLength(req.Password); err != nil {
		return AdminProfile{}, err
	}

	// Fail fast before paying for the hash; the check is repeated under the store lock.
	if err := s.ensureAdminEmailFree(ctx, email); err != nil {
		return AdminProfile{}, err
	}
	hash, err := auth.HashPassword(req.Password, s.cost)
	if err != nil {
		return AdminProfile{}, fmt.Errorf("hash password: %w", err)
	}
	return s.insertAdmin(ctx, email, name, hash)
}

// SeedAdmin is a bootstrap admin account. PasswordHash wins over Password.
type SeedAdmin struct {
	Email        string
	Name         string
	Password     string
	PasswordHash string
}

// EnsureAdmins creates the seed admins whose email is not yet registered.
func (s *Service) EnsureAdmins(ctx context.Context, seeds []SeedAdmin) (int, error) {
	created := 0
	for _, seed := range seeds {
		hash := strings.TrimSpace(seed.PasswordHash)
		if hash != "" && !auth.IsSupportedHash(hash) {
			return created, fmt.Errorf("%w: seed admin %s has an unsupported password hash", ErrInvalidInput, seed.Email)
		}
		if hash == "" {
			if _, err := s.RegisterAdmin(ctx, AdminRegistration{Email: seed.Email, Password: seed.Password, Name: seed.Name}); err != nil {
				if isDuplicate(err) {
					continue
				}
				return created, err
			}
			created++
			continue
		}

		email := strings.TrimSpace(seed.Email)
		if email == "" {
			return created, fmt.Errorf("%w: seed admin without email", ErrInvalidInput)
		}
		name := strings.TrimSpace(seed.Name)
		if name == "" {
			name = defaultAdminName
		}
		if _, err := s.insertAdmin(ctx, email, name, hash); err != nil {
			if isDuplicate(err) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Service) insertAdmin(ctx context.Context, email, name, hash string) (AdminProfile, error) {
	var profile AdminProfile
	err := s.store.Update(ctx, func(doc *store.Document) error {
		if doc.AdminByEmail(email) != nil {
			return ErrDuplicateEmail
		}
		now := s.now().UTC()
		admin := store.Admin{
			ID:           doc.NextAdminID(now),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         store.RoleAdmin,
			CreatedAt:    now,
		}
		doc.Admins = append(doc.Admins, admin)
		profile = adminProfile(&admin)
		return nil
	})
	if err != nil {
		return AdminProfile{}, wrapStoreErr(err)
	}
	return profile, nil
}

func (s *Service) ensureAdminEmailFree(ctx context.Context, email string) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	if doc.AdminByEmail(email) != nil {
		return ErrDuplicateEmail
	}
	return nil
}

// LoginAdmin answers ErrInvalidCredentials for unknown emails and wrong passwords alike.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (AdminSession, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return AdminSession{}, fmt.Errorf("load store: %w", err)
	}

	var (
		id   int64
		hash string
	)
	admin := doc.AdminByEmail(email)
	if admin != nil {
		id, hash = admin.ID, admin.PasswordHash
	}
	if err := s.checkPassword(auth.RoleAdmin, id, hash, password); err != nil {
		return AdminSession{}, err
	}

	tok, exp, err := s.issue(admin.ID, auth.RoleAdmin, auth.AdminTTL)
	if err != nil {
		return AdminSession{}, err
	}
	return AdminSession{Token: tok, ExpiresAt: exp, ID: admin.ID, Admin: adminProfile(admin)}, nil
}
