package auth

import (
	"errors"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt cost for new password hashes.
	DefaultCost = 10
	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnsupportedHash    = errors.New("unsupported password hash")
)

func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ComparePassword returns nil when password matches hash.
// Besides bcrypt it understands the crypt(3) formats older school systems export:
// $1$ (md5-crypt), $5$ (sha256-crypt) and $6$ (sha512-crypt).
func ComparePassword(hash, password string) error {
	if hash == "" {
		// Federated-only accounts have no local password.
		return ErrInvalidCredentials
	}
	if strings.HasPrefix(hash, "$2") {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrInvalidCredentials
			}
			return err
		}
		return nil
	}

	c := crypterFor(hash)
	if c == nil {
		return ErrUnsupportedHash
	}
	if err := c.Verify(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IsSupportedHash reports whether ComparePassword can check hash.
func IsSupportedHash(hash string) bool {
	return strings.HasPrefix(hash, "$2") || crypterFor(hash) != nil
}

func crypterFor(hash string) crypt.Crypter {
	switch {
	case strings.HasPrefix(hash, "$6$"):
		return sha512_crypt.New()
	case strings.HasPrefix(hash, "$5$"):
		return sha256_crypt.New()
	case strings.HasPrefix(hash, "$1$"):
		return md5_crypt.New()
	}
	return nil
}
