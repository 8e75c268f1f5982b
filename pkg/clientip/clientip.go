package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// defaultHeaders is the trust order for proxy-forwarded addresses. Comma
// lists (X-Forwarded-For) are walked left to right.
var defaultHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// FromRequest resolves the request's origin IP: the first valid address
// among the default proxy headers, falling back to RemoteAddr. Returns an
// empty string when nothing parses.
func FromRequest(r *http.Request) string {
	return Resolver(defaultHeaders...)(r)
}

// Resolver returns a resolution function that consults the given headers in
// order before falling back to RemoteAddr. Use it when the deployment's
// proxy chain sets a header the default order does not trust.
func Resolver(headers ...string) func(*http.Request) string {
	return func(r *http.Request) string {
		for _, h := range headers {
			value := r.Header.Get(h)
			if value == "" {
				continue
			}
			for part := range strings.SplitSeq(value, ",") {
				if ip := normalize(part); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// RemoteAddr may already be a bare IP in tests and unusual listeners.
			return normalize(r.RemoteAddr)
		}
		return normalize(host)
	}
}

// normalize validates an address candidate and returns its canonical string
// form, stripping IPv6 zone identifiers. Empty on anything unparsable.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	addr, err := netip.ParseAddr(s)
	if err != nil {
		return ""
	}
	return addr.WithZone("").String()
}
