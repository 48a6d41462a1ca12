package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL applies when claims carry no expiry.
const DefaultTTL = 24 * time.Hour

// Claims identifies a browser session. Subject is the session id.
type Claims struct {
	UserID string `json:"uid,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

var (
	errMissingSecret = errors.New("session secret not configured")
	ErrInvalidToken  = errors.New("invalid token")

	secretMu   sync.RWMutex
	secret     string
	production bool
)

// Configure sets the signing secret and environment. Empty values fall back
// to NEXTAUTH_SECRET and NODE_ENV.
func Configure(sessionSecret string, isProduction bool) {
	secretMu.Lock()
	secret = strings.TrimSpace(sessionSecret)
	production = isProduction
	secretMu.Unlock()
}

// SignJWT signs the given claims with HS256 using the configured secret.
func SignJWT(claims Claims) (string, error) {
	key, err := secretKey()
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("sub is required")
	}

	now := time.Now().UTC()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(DefaultTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// VerifyJWT verifies a token and returns its claims.
func VerifyJWT(token string) (Claims, error) {
	key, err := secretKey()
	if err != nil {
		return Claims{}, err
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func secretKey() ([]byte, error) {
	secretMu.RLock()
	key, prod := secret, production
	secretMu.RUnlock()

	if key == "" {
		key = strings.TrimSpace(os.Getenv("NEXTAUTH_SECRET"))
	}
	if !prod {
		env := strings.ToLower(strings.TrimSpace(os.Getenv("NODE_ENV")))
		prod = env == "production" || env == "prod"
	}
	if prod && key == "" {
		return nil, fmt.Errorf("%w: NEXTAUTH_SECRET required in production", errMissingSecret)
	}
	if key == "" {
		key = "dev-secret"
	}
	return []byte(key), nil
}
