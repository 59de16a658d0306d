package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is fixed; tokens are not refreshable.
const TokenTTL = time.Hour

// context key
type ctxKey string

const CtxUserIDKey ctxKey = "user_id"

var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed claim set: the user id plus registered exp/iat/jti.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens with a process-wide secret.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("secret not configured")
	}
	return &TokenIssuer{secret: []byte(secret), now: time.Now}, nil
}

// Issue returns a token for userID expiring TokenTTL from now.
func (ti *TokenIssuer) Issue(userID int64) (string, time.Time, error) {
	now := ti.now()
	exp := now.Add(TokenTTL)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify rejects tokens with a bad signature, another algorithm, a missing
// or past expiry, or no user id.
func (ti *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
