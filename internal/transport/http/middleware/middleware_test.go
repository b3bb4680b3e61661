package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/baechuer/theatre-listing/internal/metrics"
	appCtx "github.com/baechuer/theatre-listing/internal/pkg/context"
)

func signToken(t *testing.T, uid, role, iss, secret string, expired bool) string {
	t.Helper()
	exp := time.Now().Add(time.Hour)
	if expired {
		exp = time.Now().Add(-time.Hour)
	}
	claims := Claims{
		UserID: uid,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    iss,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return ss
}

func TestAuthMiddleware(t *testing.T) {
	const secret, issuer = "test-secret", "test-issuer"
	auth := NewAuth(secret, issuer)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	serve := func(h http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/admin/v1/cache", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	t.Run("valid_token_sets_context", func(t *testing.T) {
		token := signToken(t, "user-123", "admin", issuer, secret, false)
		h := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "user-123", UserID(r))
			assert.Equal(t, "admin", Role(r))
			w.WriteHeader(http.StatusOK)
		}))
		assert.Equal(t, http.StatusOK, serve(h, token).Code)
	})

	t.Run("missing_token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(auth.Require(ok), "").Code)
	})

	t.Run("expired_token", func(t *testing.T) {
		token := signToken(t, "u", "admin", issuer, secret, true)
		assert.Equal(t, http.StatusUnauthorized, serve(auth.Require(ok), token).Code)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		token := signToken(t, "u", "admin", issuer, "other", false)
		assert.Equal(t, http.StatusUnauthorized, serve(auth.Require(ok), token).Code)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		token := signToken(t, "u", "admin", "someone-else", secret, false)
		assert.Equal(t, http.StatusUnauthorized, serve(auth.Require(ok), token).Code)
	})

	t.Run("admin_required", func(t *testing.T) {
		user := signToken(t, "u", "", issuer, secret, false)
		assert.Equal(t, http.StatusForbidden, serve(auth.RequireAdmin(ok), user).Code)

		admin := signToken(t, "u", "admin", issuer, secret, false)
		assert.Equal(t, http.StatusNoContent, serve(auth.RequireAdmin(ok), admin).Code)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = appCtx.GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rr.Header().Get(HeaderXRequestID))
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "frame-ancestors 'self'")
}

func TestAccessLog(t *testing.T) {
	rr := httptest.NewRecorder()
	AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test-path", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())
}

func TestMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/events/{kind}", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/events/{kind}", "200")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/months", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
