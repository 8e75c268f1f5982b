// Package clientip resolves the origin IP address of an HTTP request behind
// reverse proxies and CDNs.
//
// FromRequest walks a default header trust order (CF-Connecting-IP,
// X-Forwarded-For, X-Real-IP) and falls back to the connection's RemoteAddr.
// Every candidate is validated with net/netip and returned in canonical
// form, so "::ffff:10.0.0.1" and zone-tagged IPv6 addresses compare stably.
//
// Deployments whose proxy chain uses different headers build their own
// resolution order with Resolver:
//
//	resolve := clientip.Resolver("DO-Connecting-IP", "X-Forwarded-For")
//	ip := resolve(r)
//
// Note that any client can send these headers; only deploy header-based
// resolution behind a proxy that strips or overwrites them.
package clientip
