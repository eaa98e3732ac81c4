package authutil

import (
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/stratarent/internal/app/system/apperr"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "mySecurePassword", nil},
		{"valid with spaces", "my secret password", nil},
		{"valid at max", strings.Repeat("a", MaxPasswordLength), nil},
		{"too short", "abc1234", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"too long", strings.Repeat("a", MaxPasswordLength+1), ErrPasswordTooLong},
		{"common", "password", ErrPasswordCommon},
		{"common uppercase", "PASSWORD1", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword_IsValidationError(t *testing.T) {
	err := ValidatePassword("short")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("kind = %v, want validation", apperr.KindOf(err))
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	password := "mySecurePassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == password {
		t.Error("hash should differ from the password")
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("hash %q is not bcrypt", hash)
	}

	if !CheckPassword(password, hash) {
		t.Error("CheckPassword() should accept the right password")
	}
	if CheckPassword("wrongPassword", hash) {
		t.Error("CheckPassword() should reject the wrong password")
	}
	if CheckPassword(password, "") {
		t.Error("CheckPassword() should reject an empty hash")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("samePassword1")
	b, _ := HashPassword("samePassword1")
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
}

func TestBurnCompare(t *testing.T) {
	// Only needs to return without panicking.
	BurnCompare("anything")
	BurnCompare("")
}
