package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/unrolled/render"
)

func TestIPRateLimiterPerClient(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(3)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "buckets are per address")

	now = now.Add(20 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "one token refills every 20s at 3/min")
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestIPRateLimiterSweepsIdleVisitors(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(3)
	l.now = func() time.Time { return now }

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")
	assert.Len(t, l.visitors, 2)

	now = now.Add(11 * time.Minute)
	l.Allow("10.0.0.3")
	assert.Len(t, l.visitors, 1)
}

func TestRateLimitMiddlewareResponds429(t *testing.T) {
	l := NewIPRateLimiter(1)
	h := l.Middleware(render.New())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, want := range []int{http.StatusNoContent, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "192.0.2.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
	}
}

func TestMethodOverrideMiddleware(t *testing.T) {
	var got string
	h := MethodOverrideMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Method
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/categories/1", strings.NewReader("_method=delete"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodDelete, got)

	req = httptest.NewRequest(http.MethodPost, "/admin/categories/1", strings.NewReader("_method=TRACE"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodPost, got)

	req = httptest.NewRequest(http.MethodPost, "/api/products/?_method=DELETE", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, http.MethodPost, got)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"valid":        {"Bearer abc.def", "abc.def", true},
		"lowercase":    {"bearer abc", "abc", true},
		"missing":      {"", "", false},
		"basic scheme": {"Basic dXNlcg==", "", false},
		"empty token":  {"Bearer   ", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			token, ok := bearerToken(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}

func TestRecovererWritesJSON(t *testing.T) {
	h := Recoverer(render.New())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Internal server error."}`, rec.Body.String())
}
