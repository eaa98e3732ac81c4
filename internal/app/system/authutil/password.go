// internal/app/system/authutil/password.go
package authutil

import (
	"strings"
	"sync"

	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"golang.org/x/crypto/bcrypt"
)

// Password validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything longer
	BcryptCost        = 12
)

// Password validation errors
var (
	ErrPasswordTooShort = apperr.Validation("password", "Password must be at least 8 characters")
	ErrPasswordTooLong  = apperr.Validation("password", "Password must be at most 72 characters")
	ErrPasswordCommon   = apperr.Validation("password", "This password is too common")
)

var commonPasswords = map[string]bool{
	"12345678":  true,
	"123456789": true,
	"password":  true,
	"password1": true,
	"qwerty123": true,
	"iloveyou":  true,
	"letmein1":  true,
	"welcome1":  true,
	"football":  true,
	"baseball":  true,
	"sunshine":  true,
	"princess":  true,
	"superman":  true,
	"admin123":  true,
	"changeme":  true,
}

// ValidatePassword checks a new password against the length and
// common-password rules.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain-text password with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// BurnCompare spends the same time as a real CheckPassword. Login calls it
// when the account does not exist so response timing does not reveal which
// emails are registered.
func BurnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("stratarent-dummy-password"), BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
