package cookies

import (
	"net/http"
	"strings"
	"time"
)

const (
	// SetCookieHeader is the name of every header produced by a Writer.
	SetCookieHeader = "Set-Cookie"

	// ExpiresLayout renders the expires attribute, always in GMT.
	ExpiresLayout = "Mon, 02-Jan-2006 15:04:05 GMT"

	deletedValue   = "null"
	deletedExpires = "Thu, 01-Jan-1970 00:00:01 GMT"
)

// Header is one outgoing response header.
type Header struct {
	Name  string
	Value string
}

type options struct {
	expires time.Time
	path    *string
	sign    bool
}

// Option changes how AddCookie formats a cookie.
type Option func(*options)

// WithExpires sets the expires attribute. The time is converted to UTC.
func WithExpires(t time.Time) Option {
	return func(o *options) {
		o.expires = t
	}
}

// WithPath sets the path attribute. An empty path omits the attribute.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = &path
	}
}

// WithoutPath omits the path attribute, leaving the browser default.
func WithoutPath() Option {
	return WithPath("")
}

// Unsigned skips the "_hash" companion cookie.
func Unsigned() Option {
	return func(o *options) {
		o.sign = false
	}
}

// Writer accumulates the Set-Cookie headers of one response.
type Writer struct {
	cfg     Config
	headers []Header
}

// NewWriter returns an empty Writer.
func NewWriter(cfg Config) *Writer {
	return &Writer{cfg: cfg}
}

// AddCookie adds name=value followed by its signature cookie. Without a
// secret it returns ErrSecretMissing and adds nothing.
func (w *Writer) AddCookie(name, value string, opts ...Option) error {
	o := options{sign: true}
	for _, opt := range opts {
		opt(&o)
	}

	if o.sign && !w.cfg.HasSecret() {
		return ErrSecretMissing
	}

	path := w.cfg.defaultPath()
	if o.path != nil {
		path = *o.path
	}

	var expires string
	if !o.expires.IsZero() {
		expires = o.expires.UTC().Format(ExpiresLayout)
	}

	w.add(format(name, value, expires, path))
	if o.sign {
		w.add(format(hashName(name), Sign(w.cfg.Secret, name+value), expires, path))
	}
	return nil
}

// AddUnsignedCookie adds name=value without a signature.
func (w *Writer) AddUnsignedCookie(name, value string, opts ...Option) {
	// Unsigned cookies never need the secret, so the error is always nil.
	_ = w.AddCookie(name, value, append(opts[:len(opts):len(opts)], Unsigned())...)
}

// DeleteCookie expires name and its "_hash" companion. No path attribute is
// written.
func (w *Writer) DeleteCookie(name string) {
	w.add(format(name, deletedValue, deletedExpires, ""))
	w.add(format(hashName(name), deletedValue, deletedExpires, ""))
}

// Headers returns the accumulated headers in insertion order.
func (w *Writer) Headers() []Header {
	return append([]Header(nil), w.headers...)
}

// Apply appends the accumulated Set-Cookie values to h.
func (w *Writer) Apply(h http.Header) {
	for _, header := range w.headers {
		h.Add(header.Name, header.Value)
	}
}

func (w *Writer) add(value string) {
	w.headers = append(w.headers, Header{Name: SetCookieHeader, Value: value})
}

func format(name, value, expires, path string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)
	if expires != "" {
		b.WriteString("; expires=")
		b.WriteString(expires)
	}
	if path != "" {
		b.WriteString("; path=")
		b.WriteString(path)
	}
	return b.String()
}
