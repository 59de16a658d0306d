package utils

import (
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

// Legacy hashes look like scrypt:N:r:p$salt$hexdigest.
const (
	scryptPrefix = "scrypt:"
	scryptKeyLen = 64
	scryptMaxN   = 1 << 20
	scryptMaxRP  = 64
)

// HashPassword returns a bcrypt hash of plaintext. The hash embeds cost and salt.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches hash. Besides bcrypt it
// accepts the legacy scrypt format; anything malformed is simply a mismatch.
func CheckPassword(plaintext, hash string) bool {
	switch {
	case strings.HasPrefix(hash, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
	case strings.HasPrefix(hash, scryptPrefix):
		return checkScrypt(plaintext, hash)
	default:
		return false
	}
}

func checkScrypt(plaintext, hash string) bool {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 {
		return false
	}
	params := strings.Split(strings.TrimPrefix(parts[0], scryptPrefix), ":")
	if len(params) != 3 {
		return false
	}
	n, err1 := strconv.Atoi(params[0])
	r, err2 := strconv.Atoi(params[1])
	p, err3 := strconv.Atoi(params[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	if n <= 1 || n > scryptMaxN || r <= 0 || p <= 0 || r*p > scryptMaxRP {
		return false
	}

	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != scryptKeyLen {
		return false
	}
	got, err := scrypt.Key([]byte(plaintext), []byte(parts[1]), n, r, p, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
