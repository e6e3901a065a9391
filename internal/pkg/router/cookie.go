package router

import "net/http"

type cookieResponse struct {
	resp    any
	cookies []*http.Cookie
}

// WithCookies wraps a handler response so the listed cookies are set on the
// HTTP response before the payload is encoded.
func WithCookies(resp any, cookies ...*http.Cookie) any {
	return &cookieResponse{resp: resp, cookies: cookies}
}
