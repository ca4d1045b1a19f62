package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func TestTokenIssueAndValidate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	ts := NewTokenService([]byte("test-secret"), time.Hour, "catalogadmin", WithClock(clock.Now))

	token, err := ts.Issue(7, "ops@example.com", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.ID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "catalogadmin", claims.Issuer)
}

func TestTokenExpiry(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr bool
	}{
		{"fresh", 0, false},
		{"59 minutes", 59 * time.Minute, false},
		{"61 minutes", 61 * time.Minute, true},
		{"a day later", 24 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: issuedAt}
			ts := NewTokenService([]byte("test-secret"), time.Hour, "catalogadmin", WithClock(clock.Now))

			token, err := ts.Issue(1, "ops@example.com", "admin")
			require.NoError(t, err)

			clock.now = issuedAt.Add(tt.elapsed)
			_, err = ts.Validate(token)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenRejectsTampering(t *testing.T) {
	ts := NewTokenService([]byte("test-secret"), time.Hour, "catalogadmin")
	token, err := ts.Issue(1, "ops@example.com", "admin")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService([]byte("other-secret"), time.Hour, "catalogadmin")
		_, err := other.Validate(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenService([]byte("test-secret"), time.Hour, "someone-else")
		_, err := other.Validate(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ts.Validate("not.a.token")
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ts.Validate("")
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{ID: 1, Role: "admin"})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = ts.Validate(s)
		assert.Error(t, err)
	})

	t.Run("different hmac variant", func(t *testing.T) {
		hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
			ID:   1,
			Role: "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    "catalogadmin",
			},
		})
		s, err := hs512.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = ts.Validate(s)
		assert.Error(t, err)
	})
}

func TestTokenWithoutExpiryIsRejected(t *testing.T) {
	ts := NewTokenService([]byte("test-secret"), time.Hour, "")
	forever := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{ID: 1, Role: "admin"})
	s, err := forever.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ts.Validate(s)
	assert.Error(t, err)
}
