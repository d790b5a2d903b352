package auth

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"recordpager/internal/domain"
)

func TestBcryptHasher_GenerateSalt(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	hexRe := regexp.MustCompile(`^[0-9a-f]{64}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		salt, err := h.GenerateSalt()
		require.NoError(t, err)
		assert.Regexp(t, hexRe, salt, "salt should be 64 hex characters")
		seen[salt] = struct{}{}
	}
	assert.Len(t, seen, 5)
}

func TestBcryptHasher_Hash_and_Compare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
	}{
		{"short", "my-secret-password"},
		{"longer than bcrypt limit", strings.Repeat("x", 120)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(salt, tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			require.NoError(t, h.Compare(hash, salt, tt.password))
		})
	}
}

func TestBcryptHasher_Compare_wrong_password(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	hash, err := h.Hash(salt, "correct")
	require.NoError(t, err)

	err = h.Compare(hash, salt, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestBcryptHasher_Compare_wrong_salt(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	salt1, _ := h.GenerateSalt()
	salt2, _ := h.GenerateSalt()
	hash, err := h.Hash(salt1, "password")
	require.NoError(t, err)

	err = h.Compare(hash, salt2, "password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	h := NewBcryptHasher(0).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
