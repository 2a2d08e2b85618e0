package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/what2pick/internal/services/user"
)

const (
	uidCookie    = "uid"
	secretCookie = "pwd"
	cookieMaxAge = 90 * 24 * time.Hour
)

// currentUser resolves the visitor from the credential cookies. Missing,
// stale, or forged cookies fall through to a fresh identity rather than
// an error.
func (s *Server) currentUser(r *http.Request) (user.User, error) {
	var uid, secret string
	if c, err := r.Cookie(uidCookie); err == nil {
		uid = c.Value
	}
	if c, err := r.Cookie(secretCookie); err == nil {
		secret = c.Value
	}
	return s.users.Login(r.Context(), uid, secret)
}

// persistLogin re-issues the credential cookies so active visitors keep
// their identity across the login TTL.
func (s *Server) persistLogin(w http.ResponseWriter, u user.User) {
	expires := time.Now().Add(cookieMaxAge)
	http.SetCookie(w, &http.Cookie{
		Name:     uidCookie,
		Value:    u.UID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     secretCookie,
		Value:    u.Secret,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// isInAppBrowser detects Facebook and Messenger webviews, which drop
// cookies and break the session flow.
func isInAppBrowser(r *http.Request) bool {
	agent := r.UserAgent()
	return strings.Contains(agent, "FB") ||
		strings.Contains(agent, "Messenger") ||
		strings.Contains(agent, "facebook")
}
