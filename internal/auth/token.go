package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/co2tracker/co2tracker/internal/config"
	"github.com/co2tracker/co2tracker/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("jwt secret not configured")
)

// TokenIssuer signs and validates HS256 bearer tokens carrying the user's UID.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  utils.Clock
}

func NewTokenIssuer(cfg config.Auth, clock utils.Clock) *TokenIssuer {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(cfg.JwtSecret), ttl: ttl, clock: clock}
}

func (i *TokenIssuer) Issue(uid string, username string) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrMissingSecret
	}
	if uid == "" {
		return "", errors.New("empty uid passed to Issue")
	}
	now := i.clock.Now()
	claims := jwt.MapClaims{
		"uid":      uid,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(i.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Validate returns the UID stored in a valid, unexpired token.
func (i *TokenIssuer) Validate(tokenString string) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrMissingSecret
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	uid, _ := claims["uid"].(string)
	if uid == "" {
		return "", fmt.Errorf("%w: missing uid", ErrInvalidToken)
	}
	return uid, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}
