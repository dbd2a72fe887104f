package handler

import (
	"net/http/httptest"
	"testing"
)

func TestParseListOptions(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/api/photos", defaultPageSize, 0},
		{"page two", "/api/photos?page=2", defaultPageSize, defaultPageSize},
		{"custom limit", "/api/photos?page=3&limit=10", 10, 20},
		{"limit clamped", "/api/photos?limit=9999", maxPageSize, 0},
		{"garbage falls back", "/api/photos?page=abc&limit=-5", defaultPageSize, 0},
		{"page zero falls back", "/api/photos?page=0", defaultPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			opts := parseListOptions(r)
			if opts.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", opts.Limit, tt.wantLimit)
			}
			if opts.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", opts.Offset, tt.wantOffset)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.9:54321"
	if got := clientIP(r); got != "203.0.113.9" {
		t.Errorf("clientIP = %q, want %q", got, "203.0.113.9")
	}

	// RealIP middleware may leave a bare address with no port.
	r.RemoteAddr = "203.0.113.9"
	if got := clientIP(r); got != "203.0.113.9" {
		t.Errorf("clientIP without port = %q, want %q", got, "203.0.113.9")
	}
}
