// Package identity implements the account boundary: password rules and
// hashing, and the signed access tokens handed to API clients.
package identity

import (
	"bufio"
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"github.com/hay-kot/criterio"
	"github.com/stratako/stratako/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

//go:embed common_passwords.txt
var commonPasswordList string

var commonPasswords = func() map[string]bool {
	set := make(map[string]bool)
	sc := bufio.NewScanner(strings.NewReader(commonPasswordList))
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			set[strings.ToLower(w)] = true
		}
	}
	return set
}()

// DefaultMinPasswordLength is used when a policy leaves MinLength unset.
const DefaultMinPasswordLength = 9

// PasswordPolicy checks a candidate password.
type PasswordPolicy struct {
	MinLength int
}

// Check returns a validation error listing every rule the password breaks.
// email and name are used for the similarity rule and may be empty.
func (p PasswordPolicy) Check(password, email, name string) error {
	minLen := p.MinLength
	if minLen <= 0 {
		minLen = DefaultMinPasswordLength
	}

	var errs criterio.FieldErrorsBuilder
	if len([]rune(password)) < minLen {
		errs = errs.Append("password", fmt.Errorf("this password is too short; it must contain at least %d characters", minLen))
	}
	if isNumeric(password) {
		errs = errs.Append("password", fmt.Errorf("this password is entirely numeric"))
	}
	if commonPasswords[strings.ToLower(password)] {
		errs = errs.Append("password", fmt.Errorf("this password is too common"))
	}
	if tooSimilar(password, email, name) {
		errs = errs.Append("password", fmt.Errorf("the password is too similar to your account details"))
	}

	if err := errs.ToError(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func tooSimilar(password, email, name string) bool {
	pw := strings.ToLower(password)
	local, _, _ := strings.Cut(strings.ToLower(email), "@")
	for _, attr := range []string{local, strings.ToLower(name)} {
		if len(attr) >= 3 && (pw == attr || strings.Contains(pw, attr) && len(attr)*2 >= len(pw)) {
			return true
		}
	}
	return false
}

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	Cost int
}

// Hash returns the bcrypt hash of password.
func (h Hasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(out), nil
}

// Compare reports ErrUnauthorized when password does not match hash.
func (h Hasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return domain.ErrUnauthorized
	}
	return nil
}
