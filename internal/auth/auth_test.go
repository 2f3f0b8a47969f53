package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSignAndParseRoundTrip(t *testing.T) {
	tok, exp, err := SignHS256(testSecret, 42, RoleStudent, StudentTTL)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if d := time.Until(exp); d < StudentTTL-time.Minute || d > StudentTTL {
		t.Fatalf("expected expiry about %v from now, got %v", StudentTTL, d)
	}

	claims, err := ParseHS256(testSecret, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != RoleStudent {
		t.Fatalf("expected {42 student}, got {%d %s}", claims.UserID, claims.Role)
	}
}

func TestParseRejectsOtherSecret(t *testing.T) {
	tok, _, err := SignHS256(testSecret, 1, RoleAdmin, AdminTTL)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = ParseHS256([]byte("another-secret-of-enough-length"), tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	tok, _, err := SignHS256(testSecret, 1, RoleAdmin, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = ParseHS256(testSecret, tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsMissingExpiry(t *testing.T) {
	claims := Claims{UserID: 1, Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Issuer: DefaultIssuer}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseHS256(testSecret, tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Role:   RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    DefaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseHS256(testSecret, tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDecodeSecret(t *testing.T) {
	if _, err := DecodeSecret("short"); !errors.Is(err, ErrWeakSecret) {
		t.Fatalf("expected ErrWeakSecret, got %v", err)
	}

	b64, err := NewRandomSecretB64(32)
	if err != nil {
		t.Fatalf("random secret: %v", err)
	}
	secret, err := DecodeSecret(b64)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(secret) != 32 {
		t.Fatalf("expected 32 decoded bytes, got %d", len(secret))
	}

	raw := "edupulse secret with spaces!"
	secret, err = DecodeSecret(raw)
	if err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if string(secret) != raw {
		t.Fatalf("expected raw fallback, got %q", secret)
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if err := ComparePassword(hash, "secret123"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := ComparePassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHashPasswordDefaultCost(t *testing.T) {
	hash, err := HashPassword("pw", 0)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != DefaultCost {
		t.Fatalf("expected cost %d, got %d", DefaultCost, cost)
	}
}

func TestComparePasswordLegacyCrypt(t *testing.T) {
	sha512Hash, err := sha512_crypt.New().Generate([]byte("legacy-pw"), nil)
	if err != nil {
		t.Fatalf("generate sha512: %v", err)
	}
	md5Hash, err := md5_crypt.New().Generate([]byte("legacy-pw"), nil)
	if err != nil {
		t.Fatalf("generate md5: %v", err)
	}

	for _, hash := range []string{sha512Hash, md5Hash} {
		if !IsSupportedHash(hash) {
			t.Fatalf("expected %q to be supported", hash)
		}
		if err := ComparePassword(hash, "legacy-pw"); err != nil {
			t.Fatalf("expected match for %q, got %v", hash, err)
		}
		if err := ComparePassword(hash, "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %q, got %v", hash, err)
		}
	}
}

func TestComparePasswordEdgeCases(t *testing.T) {
	if err := ComparePassword("", "anything"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected empty hash to never match, got %v", err)
	}
	if err := ComparePassword("$y$j9T$abc", "anything"); !errors.Is(err, ErrUnsupportedHash) {
		t.Fatalf("expected ErrUnsupportedHash, got %v", err)
	}
	if IsSupportedHash("plaintext") {
		t.Fatal("expected plaintext to be unsupported")
	}
}
