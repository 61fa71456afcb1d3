package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

type stubUUID struct{}

func (stubUUID) Generate() string { return "0197b2f1-test-jti" }

func newTestJWT(t *testing.T, clk *stubClock) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:     []byte(strings.Repeat("k", 64)),
		Issuer:     "qotp",
		Audiences:  []string{"qotp-api"},
		TTLMinutes: 15 * time.Minute,
		Clock:      clk,
		UUID:       stubUUID{},
	})
	require.NoError(t, err)

	return s
}

func TestNewHS512(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("too-short")})
	require.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetricGenerateVerify(t *testing.T) {
	clk := &stubClock{now: time.Now()}
	s := newTestJWT(t, clk)

	token, err := s.Generate("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, "user@example.com", claims.Subject)
	require.Equal(t, "qotp", claims.Issuer)
	require.Equal(t, "0197b2f1-test-jti", claims.ID)
	require.Equal(t, clk.now.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestSymmetricVerifyExpired(t *testing.T) {
	// Token validation uses wall-clock time, so issue in the past.
	clk := &stubClock{now: time.Now().Add(-time.Hour)}
	s := newTestJWT(t, clk)

	token, err := s.Generate("user@example.com")
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetricVerifyWrongSecret(t *testing.T) {
	clk := &stubClock{now: time.Now()}
	s := newTestJWT(t, clk)

	token, err := s.Generate("user@example.com")
	require.NoError(t, err)

	other, err := NewHS512(Config{
		Secret:     []byte(strings.Repeat("x", 64)),
		Issuer:     "qotp",
		Audiences:  []string{"qotp-api"},
		TTLMinutes: 15 * time.Minute,
		Clock:      clk,
		UUID:       stubUUID{},
	})
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestSymmetricVerifyGarbage(t *testing.T) {
	s := newTestJWT(t, &stubClock{now: time.Now()})

	_, err := s.Verify("not.a.token")
	require.Error(t, err)
}

func TestAuthContext(t *testing.T) {
	ctx := t.Context()
	require.Nil(t, GetAuth(ctx))

	ctx = SetAuth(ctx, Claims{Email: "user@example.com"})
	clm := GetAuth(ctx)
	require.NotNil(t, clm)
	require.Equal(t, "user@example.com", clm.Email)
}
