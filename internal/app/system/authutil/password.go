// internal/app/system/authutil/password.go
package authutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

// Admin password limits. bcrypt ignores input past 72 bytes, so a longer
// password would silently verify against its prefix.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	BcryptCost        = 12
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes", MaxPasswordLength)
	ErrPasswordCommon   = errors.New("password is too common")
)

var commonPasswords = lo.Keyify([]string{
	"12345678", "123456789", "password", "password1", "qwerty123", "iloveyou",
	"sunshine", "football", "welcome1", "admin123", "letmein1", "changeme",
})

// ValidatePassword checks a plain admin password from configuration.
// Production startup refuses one that fails.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	if _, common := commonPasswords[strings.ToLower(password)]; common {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword returns the bcrypt hash of password, for
// WAVESITE_ADMIN_PASSWORD_HASH or for NewCredentials.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(hash), err
}

// CheckPassword compares a password with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
