package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/o1egl/paseto"
)

const (
	// Set expiration times for access and refresh tokens.
	AccessTokenExpiry  = 24 * time.Hour
	RefreshTokenExpiry = 7 * 24 * time.Hour
)

const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenWrongKind   = errors.New("unexpected token kind")
	ErrInvalidKeyLength = errors.New("symmetric key must be 32 bytes long")
)

// TokenClaims struct represents the data in the token (UserID, Role, Expiry).
type TokenClaims struct {
	UserID string    `json:"userId"`
	Role   string    `json:"role"`
	Kind   string    `json:"kind"`
	Expiry time.Time `json:"expiry"`
}

// OperatorID parses the numeric operator id carried by the token.
func (c TokenClaims) OperatorID() (uint, error) {
	id, err := strconv.ParseUint(c.UserID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid operator id in token: %w", err)
	}
	return uint(id), nil
}

// TokenMaker issues and verifies PASETO v2 local tokens.
type TokenMaker struct {
	key []byte
	now func() time.Time
}

func NewTokenMaker(symmetricKey string) (*TokenMaker, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidKeyLength, len(symmetricKey))
	}
	return &TokenMaker{key: []byte(symmetricKey), now: time.Now}, nil
}

// GenerateTokens generates both the access token and refresh token for the given user ID and role.
func (m *TokenMaker) GenerateTokens(userID uint, role string) (accessToken, refreshToken string, err error) {
	accessToken, err = m.generate(userID, role, TokenKindAccess, AccessTokenExpiry)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = m.generate(userID, role, TokenKindRefresh, RefreshTokenExpiry)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// GenerateAccessToken generates only the access token for a user.
func (m *TokenMaker) GenerateAccessToken(userID uint, role string) (string, error) {
	return m.generate(userID, role, TokenKindAccess, AccessTokenExpiry)
}

func (m *TokenMaker) generate(userID uint, role, kind string, expiry time.Duration) (string, error) {
	claims := TokenClaims{
		UserID: strconv.FormatUint(uint64(userID), 10),
		Role:   role,
		Kind:   kind,
		Expiry: m.now().Add(expiry),
	}
	token, err := paseto.NewV2().Encrypt(m.key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ValidateToken decrypts the token and checks its kind and expiry.
func (m *TokenMaker) ValidateToken(tokenString, kind string) (*TokenClaims, error) {
	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(tokenString, m.key, &claims, nil); err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}
	if claims.Kind != kind {
		return nil, ErrTokenWrongKind
	}
	if m.now().After(claims.Expiry) {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}
