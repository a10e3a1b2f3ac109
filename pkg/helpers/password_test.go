package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("Adopt!Pets123")
	require.NoError(t, err)
	assert.NotEqual(t, "Adopt!Pets123", digest)

	assert.True(t, h.Verify("Adopt!Pets123", digest))
	assert.False(t, h.Verify("Adopt!Pets124", digest))
	assert.False(t, h.Verify("Adopt!Pets123", "not-a-digest"))
}

func TestNewPasswordHasher_CostClamp(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(0).Cost)
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(99).Cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).Cost)
}

func TestAssessStrength(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	tests := []struct {
		name       string
		password   string
		valid      bool
		violations int
	}{
		{"strong password", "Adopt!Pets123", true, 0},
		{"too short, collects remaining rules too", "aB1!", false, 1},
		{"missing everything but lowercase", "aaaaaaaa", false, 3},
		{"no symbol", "Adoptpets123", false, 1},
		{"common password", "Password123!", true, 0},
		{"denylisted and missing a symbol", "Password123", false, 2},
		{"over length limit", strings.Repeat("aB1!", 40), false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.AssessStrength(tt.password)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Len(t, res.Violations, tt.violations)
		})
	}
}

func TestAssessStrength_CollectsAllViolations(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	res := h.AssessStrength("short")
	assert.False(t, res.Valid)
	// length, uppercase, digit, symbol
	assert.Len(t, res.Violations, 4)
}
