package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrTokenInvalid is returned for tokens that are expired, malformed or
// signed with a different secret.
var ErrTokenInvalid = errors.New("the session token is invalid or has expired")

var (
	fallbackOnce   sync.Once
	fallbackSecret []byte
)

// tokenSecret returns the HMAC secret used to sign session tokens.
//
// Without TOKEN_SECRET, a random secret is generated once per process.
// All sessions then expire when the process exits.
func tokenSecret() []byte {
	if secret := os.Getenv("TOKEN_SECRET"); secret != "" {
		return []byte(secret)
	}

	fallbackOnce.Do(func() {
		random := make([]byte, 32)
		_, _ = rand.Read(random)
		fallbackSecret = []byte(hex.EncodeToString(random))

		log.Warn().Msg("TOKEN_SECRET is not set, sessions will not survive a restart")
	})

	return fallbackSecret
}

// tokenExpiry returns the session lifetime, 24 hours unless
// TOKEN_EXPIRY_HOURS is set.
func tokenExpiry() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_EXPIRY_HOURS"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	return time.Duration(hours) * time.Hour
}

// CreateToken issues a signed session token for a user.
func CreateToken(userID uuid.UUID) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExpiry())),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tokenSecret())
}

// ParseToken validates a session token and returns the ID of the user it was
// issued for.
func ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}

		return tokenSecret(), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrTokenInvalid
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	return id, nil
}
