// Package session exchanges a bearer token for a signed session cookie and
// revokes it again.
package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/caido/cookie-auth-proxy/pkg/cookies"
	"github.com/caido/cookie-auth-proxy/pkg/extraction"
	"github.com/caido/cookie-auth-proxy/pkg/validation"
)

type Manager struct {
	config     cookies.Config
	cookieName string
	extractor  extraction.Extractor
	validator  validation.Validator
	logger     *slog.Logger
}

func NewManager(
	config cookies.Config,
	cookieName string,
	extractor extraction.Extractor,
	validator validation.Validator,
	logger *slog.Logger,
) *Manager {
	return &Manager{
		config:     config,
		cookieName: cookieName,
		extractor:  extractor,
		validator:  validator,
		logger:     logger,
	}
}

// Login validates the presented token and stores it in a signed cookie that
// expires with the token.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request) {
	rawToken, err := m.extractor.Extract(r)
	if err != nil {
		m.logger.InfoContext(r.Context(), "login without token", "error", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := m.validator.Validate(rawToken)
	if err != nil {
		m.logger.InfoContext(r.Context(), "login with invalid token", "error", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var opts []cookies.Option
	if expiresAt, ok := validation.ExpiresAt(token); ok {
		opts = append(opts, cookies.WithExpires(expiresAt))
	}

	writer := cookies.NewWriter(m.config)
	if err := writer.AddCookie(m.cookieName, rawToken, opts...); err != nil {
		if errors.Is(err, cookies.ErrSecretMissing) {
			m.logger.ErrorContext(r.Context(), "cookie secret is not configured")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writer.Apply(w.Header())
	w.WriteHeader(http.StatusNoContent)
}

// Logout expires the session cookie pair.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) {
	writer := cookies.NewWriter(m.config)
	writer.DeleteCookie(m.cookieName)
	writer.Apply(w.Header())
	w.WriteHeader(http.StatusNoContent)
}
