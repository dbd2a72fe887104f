package handler

import (
	"net"
	"net/http"
	"strconv"

	"github.com/lenb209/PhotoApp/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parseListOptions reads ?page= and ?limit= query parameters.
//
// The API is 1-based ("page 1" is the first page) because that is what
// frontends render; the repository layer wants a row offset. Bad or
// missing values fall back to defaults rather than erroring, so a typo'd
// URL still renders something.
func parseListOptions(r *http.Request) repository.ListOptions {
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}

	limit := defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxPageSize)
	}

	return repository.ListOptions{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// clientIP returns the caller's address for anonymous like/comment
// identity. chi's RealIP middleware has already rewritten RemoteAddr
// from X-Forwarded-For when behind a proxy, so RemoteAddr is the right
// field here.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
