// Package cookie provides an HMAC-signed cookie manager for values that must
// not be forged client-side, such as session tokens.
//
// Every write signs the value with HMAC-SHA256 under the first configured
// secret and encodes it as base64url("value") + "." + base64url(signature).
// Reads verify against every configured secret in order, so adding a new
// secret at the front rotates the signing key while cookies issued under the
// old key keep verifying until they expire.
//
//	mgr, err := cookie.New(
//	    []string{os.Getenv("COOKIE_SECRET")},
//	    cookie.WithSecure(true),
//	)
//	if err != nil { ... }
//
//	mgr.Set(w, "sid", token, cookie.WithMaxAge(3600))
//	token, err := mgr.Get(r, "sid")
//	mgr.Clear(w, "sid")
//
// Clearing writes an empty value with MaxAge -1 and an epoch expiry using
// the manager's default attribute set, so the deletion matches the scope of
// the original cookie.
package cookie
