package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColmiiK/ft-transcendence-sub000/pkg/config"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/logging"
	"github.com/ColmiiK/ft-transcendence-sub000/pkg/state"
)

const testSecret = "test-secret"

// captureHandler records the metadata seen by the innermost handler.
func captureHandler(seen **RequestMetadata) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta, _ := ReqMetadataFrom(r.Context())
		*seen = meta
		w.WriteHeader(http.StatusNoContent)
	})
}

func signToken(t *testing.T, subject, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := AppClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func serve(h http.Handler, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ws/chat", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session-token", Value: cookie})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	final := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") })

	serve(Chain(final, mark("outer"), mark("inner")), "")
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRequestMetadataStripsPort(t *testing.T) {
	var seen *RequestMetadata
	serve(Chain(captureHandler(&seen), RequestMetadataMiddleware()), "")

	require.NotNil(t, seen)
	assert.Equal(t, "10.1.2.3", seen.IP)
	assert.Zero(t, seen.UserID)
}

func TestRequestMetadataReadsChannel(t *testing.T) {
	var seen *RequestMetadata
	r := chi.NewRouter()
	r.Handle("/ws/{channel}", Chain(captureHandler(&seen), RequestMetadataMiddleware()))

	serve(r, "")

	require.NotNil(t, seen)
	assert.Equal(t, state.ChannelChat, seen.Channel)
	assert.False(t, seen.StartedAt.IsZero())
}

func TestRequestLoggerReportsSession(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.LevelDebug)
	r := chi.NewRouter()
	r.Handle("/ws/{channel}", Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}),
		RequestMetadataMiddleware(),
		NewRequestLogger(logger),
		NewAuthMiddleware(logging.Discard(), config.AuthConfig{JWTSecret: testSecret, CookieName: "session-token"}),
	))

	serve(r, signToken(t, "42", testSecret, time.Hour))

	out := buf.String()
	assert.Contains(t, out, "upgrade requested")
	assert.Contains(t, out, "channel=chat")
	assert.Contains(t, out, "upgrade finished")
	assert.Contains(t, out, "session=42")
}

func TestAuthMiddleware(t *testing.T) {
	authCfg := config.AuthConfig{JWTSecret: testSecret, CookieName: "session-token"}

	tests := []struct {
		name       string
		cfg        config.AuthConfig
		cookie     string
		wantStatus int
		wantUserID int64
	}{
		{name: "disabled", cfg: config.AuthConfig{CookieName: "session-token"}, cookie: "garbage", wantStatus: http.StatusNoContent},
		{name: "anonymous allowed", cfg: authCfg, wantStatus: http.StatusNoContent},
		{name: "valid session", cfg: authCfg, cookie: signToken(t, "42", testSecret, time.Hour), wantStatus: http.StatusNoContent, wantUserID: 42},
		{name: "wrong secret", cfg: authCfg, cookie: signToken(t, "42", "other", time.Hour), wantStatus: http.StatusUnauthorized},
		{name: "expired", cfg: authCfg, cookie: signToken(t, "42", testSecret, -time.Hour), wantStatus: http.StatusUnauthorized},
		{name: "non numeric subject", cfg: authCfg, cookie: signToken(t, "alice", testSecret, time.Hour), wantStatus: http.StatusUnauthorized},
		{
			name:       "required and missing",
			cfg:        config.AuthConfig{JWTSecret: testSecret, CookieName: "session-token", Required: true},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *RequestMetadata
			h := Chain(captureHandler(&seen), RequestMetadataMiddleware(), NewAuthMiddleware(logging.Discard(), tt.cfg))

			rec := serve(h, tt.cookie)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				require.NotNil(t, seen)
				assert.Equal(t, tt.wantUserID, seen.UserID)
			}
		})
	}
}

func TestConnectionLimiter(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.ConnectionLimitConfig
		live       int
		wantStatus int
		wantCycled bool
	}{
		{name: "disabled", cfg: config.ConnectionLimitConfig{MaxPerIP: 0}, live: 100, wantStatus: http.StatusNoContent},
		{name: "under limit", cfg: config.ConnectionLimitConfig{MaxPerIP: 2, Mode: config.LimitModeReject}, live: 1, wantStatus: http.StatusNoContent},
		{name: "reject", cfg: config.ConnectionLimitConfig{MaxPerIP: 2, Mode: config.LimitModeReject}, live: 2, wantStatus: http.StatusTooManyRequests},
		{name: "cycle", cfg: config.ConnectionLimitConfig{MaxPerIP: 2, Mode: config.LimitModeCycle}, live: 2, wantStatus: http.StatusNoContent, wantCycled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cycledIP string
			counter := func(ip string) int {
				assert.Equal(t, "10.1.2.3", ip)
				return tt.live
			}
			cycler := func(ip string) { cycledIP = ip }

			var seen *RequestMetadata
			h := Chain(captureHandler(&seen),
				RequestMetadataMiddleware(),
				NewConnectionLimiter(logging.Discard(), counter, cycler, tt.cfg),
			)

			rec := serve(h, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCycled, cycledIP == "10.1.2.3")
		})
	}
}
