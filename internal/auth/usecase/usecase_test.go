package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/qbitio/qotp/internal/auth/entity"
	"github.com/qbitio/qotp/internal/pkg/goerror"
	"github.com/qbitio/qotp/internal/pkg/hash"
	"github.com/qbitio/qotp/internal/pkg/idempotency"
	"github.com/qbitio/qotp/internal/pkg/instrument"
	"github.com/qbitio/qotp/internal/pkg/jwt"
	"github.com/qbitio/qotp/internal/pkg/mail"
	"github.com/qbitio/qotp/internal/pkg/uid"
	"github.com/qbitio/qotp/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	entries map[string]entity.PasscodeChallenge
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]entity.PasscodeChallenge)}
}

func (f *fakeStore) Save(_ context.Context, ch entity.PasscodeChallenge, _ time.Duration) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[ch.Email] = ch

	return nil
}

func (f *fakeStore) Get(_ context.Context, email string) (*entity.PasscodeChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.entries[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &ch, nil
}

func (f *fakeStore) Delete(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, email)

	return nil
}

func (f *fakeStore) Close() error { return nil }

type fakeGenerator struct {
	code string
	err  error
}

func (f *fakeGenerator) Passcode(_ context.Context, digits int) (*entity.Passcode, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &entity.Passcode{
		Code:      f.code,
		Digits:    digits,
		Attempts:  1,
		ZeroRatio: 0.5,
		OneRatio:  0.5,
	}, nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)

	return nil
}

type fakeMessaging struct {
	issued   []PasscodeIssuedEvent
	verified []PasscodeVerifiedEvent
}

func (f *fakeMessaging) PublishPasscodeIssued(_ context.Context, msg PasscodeIssuedEvent) error {
	f.issued = append(f.issued, msg)
	return nil
}

func (f *fakeMessaging) PublishPasscodeVerified(_ context.Context, msg PasscodeVerifiedEvent) error {
	f.verified = append(f.verified, msg)
	return nil
}

type fakeIdempotency struct {
	state idempotency.State
	err   error
}

func (f *fakeIdempotency) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return f.state, f.err
}

func (f *fakeIdempotency) MarkCompleted(context.Context, string, time.Duration) error { return nil }
func (f *fakeIdempotency) MarkFailed(context.Context, string, time.Duration) error    { return nil }
func (f *fakeIdempotency) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	return fn(ctx)
}

type fakeConfig struct {
	strings map[string]string
	ints    map[string]int
	seconds map[string]time.Duration
	minutes map[string]time.Duration
}

func (f *fakeConfig) Close() error { return nil }

func (f *fakeConfig) GetSecond(key string) time.Duration { return f.seconds[key] }

func (f *fakeConfig) GetMinute(key string) time.Duration { return f.minutes[key] }

func (f *fakeConfig) GetHour(string) time.Duration { return 0 }

func (f *fakeConfig) GetDay(string) time.Duration { return 0 }

func (f *fakeConfig) GetInt(key string) int { return f.ints[key] }

func (f *fakeConfig) GetInt32(string) int32 { return 0 }

func (f *fakeConfig) GetInt64(string) int64 { return 0 }

func (f *fakeConfig) GetUint(string) uint { return 0 }

func (f *fakeConfig) GetUint16(string) uint16 { return 0 }

func (f *fakeConfig) GetUint32(string) uint32 { return 0 }

func (f *fakeConfig) GetUint64(string) uint64 { return 0 }

func (f *fakeConfig) GetFloat32(string) float32 { return 0 }

func (f *fakeConfig) GetFloat64(string) float64 { return 0 }

func (f *fakeConfig) GetBool(string) bool { return false }

func (f *fakeConfig) GetString(key string) string { return f.strings[key] }

func (f *fakeConfig) GetBinary(string) []byte { return nil }

func (f *fakeConfig) GetArray(string) []string { return nil }

func (f *fakeConfig) GetMap(string) map[string]string { return nil }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fixture struct {
	uc     *Usecase
	store  *fakeStore
	gen    *fakeGenerator
	mailer *fakeMailer
	msg    *fakeMessaging
	idemp  *fakeIdempotency
	clock  *fakeClock
	jwt    jwt.JWT
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	// Token validation inside jwt uses wall-clock time, so anchor here too.
	clk := &fakeClock{now: time.Now()}

	tokener, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(strings.Repeat("s", 64)),
		Issuer:     "qotp-test",
		Audiences:  []string{"qotp"},
		TTLMinutes: time.Hour,
		Clock:      clk,
		UUID:       uid.NewUUID(),
	})
	require.NoError(t, err)

	f := &fixture{
		store:  newFakeStore(),
		gen:    &fakeGenerator{code: "184810"},
		mailer: &fakeMailer{},
		msg:    &fakeMessaging{},
		idemp:  &fakeIdempotency{state: idempotency.StateNone},
		clock:  clk,
		jwt:    tokener,
	}

	f.uc = New(Dependency{
		Store:         f.store,
		Generator:     f.gen,
		Mailer:        f.mailer,
		RepoMessaging: f.msg,
		Idempotency:   f.idemp,
		Validator:     v10,
		Config: &fakeConfig{
			strings: map[string]string{},
			ints:    map[string]int{"modules.auth.passcode_digits": 6},
			seconds: map[string]time.Duration{"modules.auth.request_cooldown_seconds": 30 * time.Second},
			minutes: map[string]time.Duration{"modules.auth.passcode_ttl_minutes": 5 * time.Minute},
		},
		HMAC:       hash.NewHMACSHA256("test-secret"),
		UID:        &fakeNumberID{},
		Clock:      clk,
		JWT:        tokener,
		Instrument: instrument.NewNoop(),
	})

	return f
}

func requireCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, code, gerr.Code())
}

func TestRequestPasscode(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.RequestPasscode(t.Context(), RequestPasscodeInput{Email: "User@Example.com"})
		require.NoError(t, err)

		ch, err := f.store.Get(t.Context(), "user@example.com")
		require.NoError(t, err)
		require.NotEqual(t, "184810", ch.CodeHash)
		require.Equal(t, 6, ch.Digits)
		require.Equal(t, f.clock.Now().Add(5*time.Minute), ch.ExpiresAt)

		require.Len(t, f.mailer.sent, 1)
		require.Equal(t, []string{"user@example.com"}, f.mailer.sent[0].To)
		require.Contains(t, f.mailer.sent[0].TextBody, "184810")

		require.Len(t, f.msg.issued, 1)
		require.Equal(t, "user@example.com", f.msg.issued[0].Email)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.RequestPasscode(t.Context(), RequestPasscodeInput{Email: "not-an-email"})
		requireCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("CooldownActive", func(t *testing.T) {
		f := newFixture(t)
		f.idemp.state = idempotency.StateInProgress

		err := f.uc.RequestPasscode(t.Context(), RequestPasscodeInput{Email: "user@example.com"})
		requireCode(t, err, goerror.CodeTooManyRequest)
		require.Empty(t, f.mailer.sent)
	})

	t.Run("GeneratorFailure", func(t *testing.T) {
		f := newFixture(t)
		f.gen.err = errors.New("balance tolerance not achieved")

		err := f.uc.RequestPasscode(t.Context(), RequestPasscodeInput{Email: "user@example.com"})
		requireCode(t, err, goerror.CodeUnavailable)
		require.Empty(t, f.mailer.sent)
	})

	t.Run("DeliveryFailure", func(t *testing.T) {
		f := newFixture(t)
		f.mailer.err = errors.New("smtp connection refused")

		err := f.uc.RequestPasscode(t.Context(), RequestPasscodeInput{Email: "user@example.com"})
		requireCode(t, err, goerror.CodeUnavailable)
		require.Empty(t, f.msg.issued)
	})
}

func TestVerifyPasscode(t *testing.T) {
	request := func(t *testing.T, f *fixture) {
		t.Helper()
		require.NoError(t, f.uc.RequestPasscode(t.Context(), RequestPasscodeInput{Email: "user@example.com"}))
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		request(t, f)

		out, err := f.uc.VerifyPasscode(t.Context(), VerifyPasscodeInput{
			Email: "user@example.com",
			Code:  "184810",
		})
		require.NoError(t, err)
		require.NotEmpty(t, out.AccessToken)

		claims, err := f.jwt.Verify(out.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "user@example.com", claims.Email)
		require.Equal(t, "user@example.com", claims.Subject)

		require.Len(t, f.msg.verified, 1)
	})

	t.Run("SingleUse", func(t *testing.T) {
		f := newFixture(t)
		request(t, f)

		_, err := f.uc.VerifyPasscode(t.Context(), VerifyPasscodeInput{Email: "user@example.com", Code: "184810"})
		require.NoError(t, err)

		_, err = f.uc.VerifyPasscode(t.Context(), VerifyPasscodeInput{Email: "user@example.com", Code: "184810"})
		requireCode(t, err, goerror.CodeNotFound)
	})

	t.Run("NoPendingChallenge", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.VerifyPasscode(t.Context(), VerifyPasscodeInput{Email: "user@example.com", Code: "184810"})
		requireCode(t, err, goerror.CodeNotFound)
	})

	t.Run("WrongCode", func(t *testing.T) {
		f := newFixture(t)
		request(t, f)

		_, err := f.uc.VerifyPasscode(t.Context(), VerifyPasscodeInput{Email: "user@example.com", Code: "000000"})
		requireCode(t, err, goerror.CodeUnauthorized)

		// Wrong code must not consume the challenge.
		_, err = f.uc.VerifyPasscode(t.Context(), VerifyPasscodeInput{Email: "user@example.com", Code: "184810"})
		require.NoError(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		f := newFixture(t)
		request(t, f)

		f.clock.Advance(6 * time.Minute)

		_, err := f.uc.VerifyPasscode(t.Context(), VerifyPasscodeInput{Email: "user@example.com", Code: "184810"})
		requireCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("InvalidCodeFormat", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.VerifyPasscode(t.Context(), VerifyPasscodeInput{Email: "user@example.com", Code: "12ab56"})
		requireCode(t, err, goerror.CodeInvalidInput)
	})
}

func TestProfile(t *testing.T) {
	t.Run("Authenticated", func(t *testing.T) {
		f := newFixture(t)

		token, err := f.jwt.Generate("user@example.com")
		require.NoError(t, err)

		claims, err := f.jwt.Verify(token)
		require.NoError(t, err)

		out, err := f.uc.Profile(jwt.SetAuth(t.Context(), claims))
		require.NoError(t, err)
		require.Equal(t, "user@example.com", out.Email)
		require.False(t, out.ExpiresAt.IsZero())
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.Profile(t.Context())
		requireCode(t, err, goerror.CodeUnauthorized)
	})
}
