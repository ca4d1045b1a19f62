package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims is the token payload: the admin id, email and role.
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed, time-bound admin tokens.
type TokenService struct {
	secretKey     []byte
	tokenDuration time.Duration
	issuer        string
	now           func() time.Time
}

// TokenOption customizes a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(ts *TokenService) {
		ts.now = now
	}
}

// NewTokenService creates a token service signing with secretKey.
func NewTokenService(secretKey []byte, tokenDuration time.Duration, issuer string, opts ...TokenOption) *TokenService {
	ts := &TokenService{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
		issuer:        issuer,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// Issue signs a token for the given admin.
func (ts *TokenService) Issue(id int64, email, role string) (string, error) {
	now := ts.now()
	claims := &Claims{
		ID:    id,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    ts.issuer,
			Subject:   strconv.FormatInt(id, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and time claims and returns the decoded claims.
func (ts *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	// time claims are checked here against the service clock
	now := ts.now()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("token expired")
	}
	if !claims.VerifyNotBefore(now, false) {
		return nil, fmt.Errorf("token not valid yet")
	}
	if ts.issuer != "" && !claims.VerifyIssuer(ts.issuer, true) {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	return claims, nil
}
