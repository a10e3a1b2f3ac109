package helpers

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the hashing cost used for stored credentials.
const DefaultBcryptCost = 12

const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// commonPasswords are rejected outright regardless of composition.
var commonPasswords = []string{
	"password", "123456", "12345678", "qwerty", "abc123",
	"password123", "admin", "letmein", "welcome", "monkey",
}

// PasswordHasher hashes and verifies passwords with bcrypt and assesses
// candidate password strength.
type PasswordHasher struct {
	Cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{Cost: cost}
}

// Hash returns the bcrypt digest of plain.
func (p *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), p.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored bcrypt digest.
func (p *PasswordHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// StrengthResult carries every rule a candidate password violated.
type StrengthResult struct {
	Valid      bool
	Violations []string
}

// AssessStrength checks all strength rules and collects every violation so
// callers can report them at once.
func (p *PasswordHasher) AssessStrength(plain string) StrengthResult {
	var violations []string

	if len(plain) < 8 {
		violations = append(violations, "password must be at least 8 characters long")
	}
	if len(plain) > 128 {
		violations = append(violations, "password must be less than 128 characters long")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range plain {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasLower {
		violations = append(violations, "password must contain at least one lowercase letter")
	}
	if !hasUpper {
		violations = append(violations, "password must contain at least one uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain at least one number")
	}
	if !hasSymbol {
		violations = append(violations, "password must contain at least one special character")
	}

	lowered := strings.ToLower(plain)
	for _, common := range commonPasswords {
		if lowered == common {
			violations = append(violations, "password is too common, please choose a stronger password")
			break
		}
	}

	return StrengthResult{Valid: len(violations) == 0, Violations: violations}
}
