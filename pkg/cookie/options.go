package cookie

import "net/http"

// Options is the attribute set applied to written cookies.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// Option mutates the attribute set for a manager or a single write.
type Option func(*Options)

func applyOptions(base Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithMaxAge sets the cookie lifetime in seconds.
func WithMaxAge(seconds int) Option {
	return func(o *Options) { o.MaxAge = seconds }
}

// WithSecure restricts the cookie to HTTPS.
func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

// WithHTTPOnly hides the cookie from client-side scripts.
func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) { o.HTTPOnly = httpOnly }
}

// WithSameSite sets the SameSite policy.
func WithSameSite(mode http.SameSite) Option {
	return func(o *Options) { o.SameSite = mode }
}
