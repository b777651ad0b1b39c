package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

var (
	ErrMalformedHash = errors.New("malformed password hash")
	ErrInvalidToken  = errors.New("invalid token")
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// Claims carries the subject id and issue time. There is no exp claim:
// tokens stay valid until the secret rotates or the subject is deleted.
type Claims struct {
	jwt.RegisteredClaims
}

// Credentials hashes passwords and signs bearer tokens. It is safe for
// concurrent use; the secret is read-only after construction.
type Credentials struct {
	secret []byte
	now    func() time.Time
}

func NewCredentials(secret string) *Credentials {
	return &Credentials{secret: []byte(secret), now: time.Now}
}

// Hash returns "salt:key", both base64 without padding.
func (c *Credentials) Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("reading salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. A stored value that
// cannot be decoded is an error, never a plain mismatch.
func (c *Credentials) Verify(password, encoded string) (bool, error) {
	saltB64, keyB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil || len(salt) == 0 {
		return false, fmt.Errorf("%w: salt", ErrMalformedHash)
	}

	expected, err := base64.RawStdEncoding.DecodeString(keyB64)
	if err != nil || len(expected) == 0 {
		return false, fmt.Errorf("%w: key", ErrMalformedHash)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

func (c *Credentials) IssueToken(userID uuid.UUID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	})
	return token.SignedString(c.secret)
}

func (c *Credentials) VerifyToken(tokenStr string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject", ErrInvalidToken)
	}
	return id, nil
}
