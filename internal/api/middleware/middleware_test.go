package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orion-ad/guardian/internal/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generates id", incoming: ""},
		{name: "keeps incoming id", incoming: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if seen == "" {
				t.Fatal("request id missing from context")
			}
			if tt.incoming != "" && seen != tt.incoming {
				t.Errorf("id = %s, want %s", seen, tt.incoming)
			}
			if rr.Header().Get(RequestIDHeader) != seen {
				t.Errorf("response header = %s, want %s", rr.Header().Get(RequestIDHeader), seen)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(0.0001, 2)
	h := RateLimit(limiter)(okHandler())

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.RemoteAddr = "192.0.2.1:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("first post = %d", code)
	}
	if code := post(); code != http.StatusOK {
		t.Fatalf("second post = %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("third post = %d, want 429", code)
	}

	// Reads are never limited.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("get = %d, want 200", rr.Code)
	}

	// Other clients have their own bucket.
	req = httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.RemoteAddr = "192.0.2.2:5000"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("other client = %d, want 200", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, h := range []string{"X-Frame-Options", "X-Content-Type-Options", "Content-Security-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("header %s missing", h)
		}
	}
}

func TestDevelopmentOrigins(t *testing.T) {
	got := DevelopmentOrigins([]string{"http://localhost:3180", "https://soc.example"})
	want := []string{"http://localhost:3180", "https://soc.example", "http://127.0.0.1:3180"}
	if len(got) != len(want) {
		t.Fatalf("origins = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("origins[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
