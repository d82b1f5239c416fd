package auth

import (
	"context"
	"net/http"

	"github.com/opencube/cube-draft-api/internal/logger"
)

// MockAuth is a development authentication provider: every request is
// treated as the same local user, no identity server required.
type MockAuth struct {
	user *User
}

// NewMockAuth creates a mock auth provider.
func NewMockAuth() *MockAuth {
	logger.Info("Using mock authentication for local development")
	return &MockAuth{
		user: &User{
			ID:       "dev-user",
			Email:    "dev@localhost",
			Name:     "Dev User",
			Username: "dev",
		},
	}
}

// LoginHandler redirects straight back to the app.
func (m *MockAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CallbackHandler redirects straight back to the app.
func (m *MockAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LogoutHandler redirects straight back to the app.
func (m *MockAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Middleware injects the fixed development user into every request.
func (m *MockAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), userContextKey, m.user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
