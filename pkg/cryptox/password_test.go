package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	tmpDir := os.TempDir()
	pepperPath := filepath.Join(tmpDir, "test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// The hash is never the plaintext
			require.NotEqual(t, tt.password, hash)

			// Verify PHC format
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.Contains(t, parts[3], "m=", "should contain memory parameter")
			require.Contains(t, parts[3], "t=", "should contain iterations parameter")
			require.Contains(t, parts[3], "p=", "should contain parallelism parameter")
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	hash1, err := HashPassword(password)
	require.NoError(t, err)

	hash2, err := HashPassword(password)
	require.NoError(t, err)

	// Each hash differs due to unique salts
	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")

	// But both verify the same password
	require.NoError(t, VerifyPassword(password, hash1))
	require.NoError(t, VerifyPassword(password, hash2))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	correctPassword := "correct-password"
	hash, err := HashPassword(correctPassword)
	require.NoError(t, err)

	tests := []struct {
		name          string
		wrongPassword string
	}{
		{"completely wrong", "wrong-password"},
		{"case difference", "Correct-Password"},
		{"extra space", "correct-password "},
		{"empty password", ""},
		{"similar password", "correct-passwor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword(tt.wrongPassword, hash)
			require.Error(t, err)
			require.Contains(t, err.Error(), "password does not match")
		})
	}
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	password := "test-password"

	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"plaintext", "test-password"},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Malformed hashes fail closed, they never panic
			err := VerifyPassword(password, tt.invalidHash)
			require.Error(t, err)
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	for _, length := range []int{8, 12, 20, 40} {
		password, err := GeneratePassword(length)
		require.NoError(t, err)
		require.Len(t, password, length)

		for _, char := range password {
			require.Contains(t, passwordAlphabet, string(char),
				"password should only contain alphabet characters")
		}
	}
}

func TestGeneratePassword_DefaultLength(t *testing.T) {
	password, err := GeneratePassword(0)
	require.NoError(t, err)
	require.Len(t, password, DefaultPasswordLength)
}

func TestGeneratePassword_Uniqueness(t *testing.T) {
	const count = 100
	passwords := make(map[string]bool, count)

	for range count {
		password, err := GeneratePassword(DefaultPasswordLength)
		require.NoError(t, err)
		require.NotContains(t, passwords, password, "duplicate password generated")
		passwords[password] = true
	}
}

func TestGenerateStrongPassword(t *testing.T) {
	for range 20 {
		password, err := GenerateStrongPassword(DefaultPasswordLength)
		require.NoError(t, err)
		require.Len(t, password, DefaultPasswordLength)
		require.True(t, IsStrongPassword(password),
			"generated password should satisfy the strength policy")
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid", "Test@1234", true},
		{"valid with brackets", "aB3{aB3{", true},
		{"too short", "Ab1!def", false},
		{"too long", "Ab1!Ab1!Ab1!Ab1!Ab1!A", false},
		{"no uppercase", "test@1234", false},
		{"no lowercase", "TEST@1234", false},
		{"no digit", "Test@test", false},
		{"no special char", "Test11234", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsStrongPassword(tt.password))
		})
	}
}

func TestPasswordWorkflow_EndToEnd(t *testing.T) {
	// Simulate an account issuance and login workflow

	// 1. Issue a password for a new account
	issued, err := GenerateStrongPassword(DefaultPasswordLength)
	require.NoError(t, err)

	// 2. Hash it for storage
	hash, err := HashPassword(issued)
	require.NoError(t, err)
	require.NotEqual(t, issued, hash)

	// 3. Later, verify the password during login
	require.NoError(t, VerifyPassword(issued, hash))

	// 4. Wrong password fails
	require.Error(t, VerifyPassword("WrongPassword1!", hash))
}
