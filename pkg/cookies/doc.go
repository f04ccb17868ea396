// Package cookies implements tamper-evident HTTP cookies.
//
// A signed cookie is stored as two cookies: the value itself under its name,
// and a companion "<name>_hash" cookie holding the lowercase hex HMAC-SHA1 of
// name+value keyed by the configured secret.
//
// A Reader parses one request's Cookie header and verifies signed values. A
// Writer accumulates the Set-Cookie header values of one response, in the
// order they were added. Neither performs I/O and neither should be shared
// between requests.
//
//	cfg := cookies.Config{Secret: []byte(os.Getenv("COOKIE_SECRET"))}
//
//	w := cookies.NewWriter(cfg)
//	if err := w.AddCookie("session", token, cookies.WithExpires(exp)); err != nil {
//		return err
//	}
//	w.Apply(rw.Header())
//
//	r := cookies.FromRequest(cfg, req)
//	token, ok, err := r.GetSigned("session")
//
// Message bytes are the UTF-8 encoding of name+value. Errors are the sentinels
// ErrSecretMissing, ErrHashMissing and ErrHashInvalid; the latter two are
// wrapped in a *HashError that names the cookie.
package cookies
