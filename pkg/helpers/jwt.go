package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "farbari-api"
	tokenAudience = "farbari-client"

	// refreshSecretSuffix derives a refresh secret when none is configured.
	// The two secrets must never be the same literal value.
	refreshSecretSuffix = "_refresh"
)

var (
	// ErrTokenExpired is returned when a structurally valid token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned on signature, issuer, or audience mismatch.
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenPayload is the claim set carried by both access and refresh tokens.
type TokenPayload struct {
	UserID string
	Email  string
}

// TokenPair is an access/refresh token pair with expiry metadata.
type TokenPair struct {
	AccessToken        string    `json:"access_token"`
	AccessTokenExpiry  time.Time `json:"access_token_expiry"`
	RefreshToken       string    `json:"refresh_token"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expiry"`
}

type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager signs and verifies access/refresh token pairs with distinct
// HS256 secrets.
type JWTManager struct {
	accessSecret  []byte
	refreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// NewJWTManager builds a manager. When refreshSecret is empty it is derived
// from the access secret plus a fixed suffix so the two roles never share a
// signing key.
func NewJWTManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	if refreshSecret == "" || refreshSecret == accessSecret {
		refreshSecret = accessSecret + refreshSecretSuffix
	}
	return &JWTManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	}
}

// IssuePair signs a new access/refresh pair for the payload.
func (m *JWTManager) IssuePair(p TokenPayload) (TokenPair, error) {
	now := time.Now()
	aexp := now.Add(m.AccessTTL)
	access, err := m.sign(p, m.accessSecret, now, aexp)
	if err != nil {
		return TokenPair{}, err
	}
	rexp := now.Add(m.RefreshTTL)
	refresh, err := m.sign(p, m.refreshSecret, now, rexp)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: rexp,
	}, nil
}

// VerifyAccess verifies an access token and returns its payload.
func (m *JWTManager) VerifyAccess(token string) (TokenPayload, error) {
	return parseToken(token, m.accessSecret)
}

// VerifyRefresh verifies a refresh token and returns its payload.
func (m *JWTManager) VerifyRefresh(token string) (TokenPayload, error) {
	return parseToken(token, m.refreshSecret)
}

func (m *JWTManager) sign(p TokenPayload, secret []byte, now, exp time.Time) (string, error) {
	claims := &Claims{
		UserID: p.UserID,
		Email:  p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique per token; without it two tokens minted for the same
			// user in the same second would be byte-identical, making
			// rotation a no-op on the stored set.
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func parseToken(tokenStr string, secret []byte) (TokenPayload, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPayload{}, ErrTokenExpired
		}
		return TokenPayload{}, ErrTokenInvalid
	}
	if !tkn.Valid {
		return TokenPayload{}, ErrTokenInvalid
	}
	return TokenPayload{UserID: claims.UserID, Email: claims.Email}, nil
}
