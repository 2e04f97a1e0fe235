// internal/auth/auth.go
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token has expired")
)

// TokenConfig holds the configuration for token generation
type TokenConfig struct {
	Secret     []byte
	Expiration time.Duration
}

// Token is a signed session for one username.
type Token struct {
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
	IssuedAt  int64  `json:"issued_at"`
}

// NewTokenConfig uses secret when set, otherwise a random per-process key.
// generated reports whether the key was generated.
func NewTokenConfig(secret string, expiration time.Duration) (cfg *TokenConfig, generated bool, err error) {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	if secret != "" {
		return &TokenConfig{Secret: []byte(secret), Expiration: expiration}, false, nil
	}

	key, err := GenerateSecureKey(32)
	if err != nil {
		return nil, false, err
	}
	return &TokenConfig{Secret: key, Expiration: expiration}, true, nil
}

// GenerateToken signs a session token for username.
func GenerateToken(username string, config *TokenConfig) (string, error) {
	if len(config.Secret) == 0 {
		return "", fmt.Errorf("secret key is required")
	}
	if username == "" {
		return "", fmt.Errorf("username is required")
	}

	now := time.Now()
	payload := fmt.Sprintf("%s|%d|%d", username, now.Add(config.Expiration).Unix(), now.Unix())

	encodedPayload := base64.URLEncoding.EncodeToString([]byte(payload))
	encodedSignature := base64.URLEncoding.EncodeToString(sign([]byte(payload), config.Secret))

	return fmt.Sprintf("%s.%s", encodedPayload, encodedSignature), nil
}

// ParseToken verifies the signature and expiry of tokenString.
func ParseToken(tokenString string, config *TokenConfig) (*Token, error) {
	if len(config.Secret) == 0 {
		return nil, fmt.Errorf("secret key is required")
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 2 {
		return nil, ErrInvalidToken
	}

	payloadBytes, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrInvalidToken, err)
	}
	signatureBytes, err := base64.URLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", ErrInvalidToken, err)
	}

	if !hmac.Equal(signatureBytes, sign(payloadBytes, config.Secret)) {
		return nil, ErrInvalidToken
	}

	token, err := parsePayload(string(payloadBytes))
	if err != nil {
		return nil, err
	}

	if time.Now().Unix() > token.ExpiresAt {
		return nil, ErrTokenExpired
	}
	return token, nil
}

// parsePayload splits "username|expires|issued" from the right, so usernames may contain '|'.
func parsePayload(payload string) (*Token, error) {
	issuedIdx := strings.LastIndex(payload, "|")
	if issuedIdx < 0 {
		return nil, ErrInvalidToken
	}
	expiresIdx := strings.LastIndex(payload[:issuedIdx], "|")
	if expiresIdx <= 0 {
		return nil, ErrInvalidToken
	}

	expiresAt, err := strconv.ParseInt(payload[expiresIdx+1:issuedIdx], 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	issuedAt, err := strconv.ParseInt(payload[issuedIdx+1:], 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Token{
		Username:  payload[:expiresIdx],
		ExpiresAt: expiresAt,
		IssuedAt:  issuedAt,
	}, nil
}

func sign(payload, secret []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write(payload)
	return h.Sum(nil)
}

// GenerateSecureKey generates a secure random key for token signing
func GenerateSecureKey(length int) ([]byte, error) {
	if length <= 0 {
		length = 32 // Default to 256 bits
	}

	key := make([]byte, length)
	_, err := rand.Read(key)
	if err != nil {
		return nil, err
	}

	return key, nil
}
