package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testJWT = utils.JWTConfig{Secret: "test-secret", Issuer: "hotel-accounts"}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(id uuid.UUID, role string) Claims {
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			Issuer:    testJWT.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

type stubUsers struct {
	users map[uuid.UUID]*entity.User
}

func (s stubUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}

func actorEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := utils.GetActorFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("X-Actor", actor.ID.String()+"/"+string(actor.Role))
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	active := uuid.New()
	inactive := uuid.New()
	users := stubUsers{users: map[uuid.UUID]*entity.User{
		active:   {Base: entity.Base{ID: active}, Role: entity.RoleGuest, IsActive: true},
		inactive: {Base: entity.Base{ID: inactive}, Role: entity.RoleGuest, IsActive: false},
	}}
	handler := Auth(testJWT, users, zap.NewNop())(actorEcho())

	expired := validClaims(active, "guest")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := validClaims(active, "guest")
	wrongIssuer.Issuer = "someone-else"
	unknown := uuid.New()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", validClaims(active, "guest")), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testJWT.Secret, expired), http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + signToken(t, testJWT.Secret, wrongIssuer), http.StatusUnauthorized},
		{"unknown role", "Bearer " + signToken(t, testJWT.Secret, validClaims(active, "owner")), http.StatusUnauthorized},
		{"inactive account", "Bearer " + signToken(t, testJWT.Secret, validClaims(inactive, "guest")), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, testJWT.Secret, validClaims(active, "guest")), http.StatusNoContent},
		{"account owned elsewhere", "Bearer " + signToken(t, testJWT.Secret, validClaims(unknown, "staff")), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testJWT.Secret, validClaims(active, "Guest")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, active.String()+"/guest", rec.Header().Get("X-Actor"))
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := validClaims(uuid.New(), "admin")
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(token, testJWT)
	assert.Error(t, err)
}

func TestRequireRoles(t *testing.T) {
	handler := RequireRoles(zap.NewNop(), entity.RoleStaff, entity.RoleAdmin)(actorEcho())

	serve := func(ctx context.Context) int {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/arrivals", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(context.Background()))
	assert.Equal(t, http.StatusForbidden, serve(utils.SetUserContext(context.Background(), uuid.New(), entity.RoleGuest)))
	assert.Equal(t, http.StatusNoContent, serve(utils.SetUserContext(context.Background(), uuid.New(), entity.RoleStaff)))
	assert.Equal(t, http.StatusNoContent, serve(utils.SetUserContext(context.Background(), uuid.New(), entity.RoleAdmin)))
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(utils.RateLimitConfig{RPS: 0.001, Burst: 2})
	handler := rl.Limit(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.2:1111"))
}

func TestRateLimiterForgetsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(utils.RateLimitConfig{RPS: 1, Burst: 1})
	current := time.Now()
	rl.now = func() time.Time { return current }

	rl.getLimiter("10.0.0.1")
	current = current.Add(visitorTTL + time.Second)
	rl.getLimiter("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimiterSweepsAtMostOncePerTTL(t *testing.T) {
	rl := NewRateLimiter(utils.RateLimitConfig{RPS: 1, Burst: 1})
	start := time.Now()
	current := start
	rl.now = func() time.Time { return current }

	rl.getLimiter("10.0.0.1")
	current = start.Add(visitorTTL)
	rl.getLimiter("10.0.0.2")

	// idle past the TTL, but the last sweep was a second ago
	current = start.Add(visitorTTL + time.Second)
	rl.getLimiter("10.0.0.3")
	rl.mu.Lock()
	assert.Contains(t, rl.visitors, "10.0.0.1")
	assert.Equal(t, start.Add(visitorTTL), rl.lastSweep)
	rl.mu.Unlock()

	current = start.Add(2 * visitorTTL)
	rl.getLimiter("10.0.0.3")
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
	assert.Equal(t, start.Add(2*visitorTTL), rl.lastSweep)
}

func TestRecoverAnswersInternalError(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":false,"message":"Internal server error"}`, rec.Body.String())
}

func TestLoggerKeepsStatus(t *testing.T) {
	handler := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rooms", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(utils.CORSConfig{AllowedOrigins: []string{"https://front.example"}})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/rooms", nil)
	req.Header.Set("Origin", "https://front.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://front.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
