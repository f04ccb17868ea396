package main

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/caido/cookie-auth-proxy/pkg/cookies"
	"github.com/caido/cookie-auth-proxy/pkg/extraction"
	"github.com/caido/cookie-auth-proxy/pkg/identity"
	"github.com/caido/cookie-auth-proxy/pkg/requestid"
	"github.com/caido/cookie-auth-proxy/pkg/session"
	"github.com/caido/cookie-auth-proxy/pkg/validation"
	"github.com/go-chi/chi/v5"
)

const (
	grafanaAuthHeader = "X-WEBAUTH-USER"
)

type RequestsHandler struct {
	ServedUrl        *url.URL
	CookieConfig     cookies.Config
	TokenExtractor   *extraction.TokenExtractor
	TokenValidator   validation.Validator
	IdentityProvider identity.Provider
	Sessions         *session.Manager
	Logger           *slog.Logger
}

// Router mounts the session endpoints and the authenticated proxy.
func (rh *RequestsHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(rh.logMalformedCookies)

	upstream := rh.newProxy()

	// Allow free access to the health API used by load balancers
	r.Get("/api/health", upstream.ServeHTTP)
	r.Post("/auth/session", rh.Sessions.Login)
	r.Post("/auth/logout", rh.Sessions.Logout)
	r.Handle("/*", rh.authenticate(upstream))

	return r
}

// authenticate forwards to next only when the request carries a valid token.
func (rh *RequestsHandler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rh.serveAuthenticated(next, w, r)
	})
}

func (rh *RequestsHandler) serveAuthenticated(next http.Handler, w http.ResponseWriter, r *http.Request) {
	rawToken, err := rh.TokenExtractor.Extract(r)
	if err != nil {
		rh.rejectExtraction(w, r, err)
		return
	}

	token, err := rh.TokenValidator.Validate(rawToken)
	if err != nil {
		if code, ok := validation.CodeOf(err); ok {
			rh.Logger.InfoContext(r.Context(), "token rejected", "code", code.String(), "error", err)
		} else {
			rh.Logger.InfoContext(r.Context(), "token rejected", "error", err)
		}
		rh.unauthorizedHandler(w, r)
		return
	}

	userId, err := identity.IdentifyToken(rh.IdentityProvider, token)
	if err != nil {
		rh.Logger.InfoContext(r.Context(), "identity rejected", "error", err)
		rh.unauthorizedHandler(w, r)
		return
	}

	// Update the headers to allow for SSL redirection
	r.URL.Host = rh.ServedUrl.Host
	r.URL.Scheme = rh.ServedUrl.Scheme
	r.Header.Set("X-Forwarded-Host", r.Host)
	r.Header.Set(grafanaAuthHeader, userId)
	r.Host = rh.ServedUrl.Host

	next.ServeHTTP(w, r)
}

func (rh *RequestsHandler) rejectExtraction(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, extraction.ErrNoToken):
	case errors.Is(err, cookies.ErrSecretMissing):
		rh.Logger.ErrorContext(r.Context(), "cookie secret is not configured")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	default:
		var hashErr *cookies.HashError
		if errors.As(err, &hashErr) {
			rh.Logger.WarnContext(r.Context(), "cookie signature rejected", "cookie", hashErr.Name, "error", err)
		} else {
			rh.Logger.InfoContext(r.Context(), "token extraction failed", "error", err)
		}
	}
	rh.unauthorizedHandler(w, r)
}

func (rh *RequestsHandler) logMalformedCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reader := cookies.FromRequest(rh.CookieConfig, r)
		if malformed := reader.Malformed(); len(malformed) > 0 {
			rh.Logger.DebugContext(r.Context(), "skipped malformed cookies",
				"count", len(malformed), "cookies", reader.String())
		}
		next.ServeHTTP(w, r)
	})
}

func (rh *RequestsHandler) newProxy() *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(rh.ServedUrl)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		rh.Logger.ErrorContext(r.Context(), "upstream unavailable", "error", err)
		w.WriteHeader(http.StatusBadGateway)
	}
	return proxy
}

func (rh *RequestsHandler) unauthorizedHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
