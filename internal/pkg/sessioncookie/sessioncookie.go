// Package sessioncookie issues and reads the opaque session token cookie.
package sessioncookie

import (
	"net/http"

	"github.com/google/uuid"
)

type Manager struct {
	name   string
	secure bool
}

func NewManager(name string, secure bool) *Manager {
	return &Manager{name: name, secure: secure}
}

// Read returns the session token carried by the request, if any. Tokens
// are canonical UUIDs; anything else is treated as absent because the token
// ends up in upload file names.
func (m *Manager) Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.name)
	if err != nil || !Valid(c.Value) {
		return "", false
	}
	return c.Value, true
}

// Valid reports whether id has the form of an issued token.
func Valid(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.String() == id
}

// Ensure returns the request's session token, issuing a new one on w when
// the request has none or an invalid one. The bool reports whether a token was issued.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (string, bool) {
	if id, ok := m.Read(r); ok {
		return id, false
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, true
}
