package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// requireNonEmpty trims the raw value and rejects it if nothing remains.
func requireNonEmpty(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", validationErrorf(field, "cannot be empty")
	}
	return value, nil
}

// requireDigits accepts values made of ASCII digits only.
func requireDigits(field, value string) (string, error) {
	value, err := requireNonEmpty(field, value)
	if err != nil {
		return "", err
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return "", validationErrorf(field, "must contain only digits")
		}
	}
	return value, nil
}

// requireEmail does a structural check only: a local part, an @, and a
// domain with at least one dot. Full RFC validation is out of scope.
func requireEmail(field, value string) (string, error) {
	value, err := requireNonEmpty(field, value)
	if err != nil {
		return "", err
	}
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return "", validationErrorf(field, "invalid email format (e.g. user@example.com)")
	}
	domain := value[at+1:]
	if strings.Contains(domain, "@") || !strings.Contains(domain, ".") ||
		strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", validationErrorf(field, "invalid email format (e.g. user@example.com)")
	}
	return value, nil
}

// requireNoDelimiter rejects values that would corrupt the record line they
// are stored in. Only fields that are not in a max-split tail need this.
func requireNoDelimiter(field, value, delim string) (string, error) {
	if strings.Contains(value, delim) {
		return "", validationErrorf(field, "must not contain %q", delim)
	}
	return value, nil
}

// HashPassword returns the one-way hex digest stored in place of a
// password. There is deliberately no recovery path.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
