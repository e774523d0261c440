package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// Store is the global session store for browser clients. It carries the
// access token so web sessions survive without an Authorization header.
var Store *sessions.CookieStore

// SessionName is the name of the brewlog session cookie.
const SessionName = "brewlog-session"

// SessionKeyToken is the session value holding the access token.
const SessionKeyToken = "token"

// InitSessionStore initializes the cookie-based session store.
//
// The secret parameter signs session cookies. It can be any passphrase -
// it will be SHA-256 hashed to derive a 32-byte key. The secret must be
// consistent across server restarts and multiple servers behind a load
// balancer.
func InitSessionStore(secret string, maxAge int) {
	// Hash the secret to get a consistent 32-byte key
	key := sha256.Sum256([]byte(secret))

	Store = sessions.NewCookieStore(key[:])
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true, // HTTPS only
		SameSite: http.SameSiteStrictMode,
	}
}

// GetSession retrieves the brewlog session from the request.
// Creates a new session if one doesn't exist.
func GetSession(r *http.Request) (*sessions.Session, error) {
	return Store.Get(r, SessionName)
}

// SaveSession saves the session to the response.
func SaveSession(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	return session.Save(r, w)
}

// ClearSession drops the token and expires the cookie. Called on logout.
func ClearSession(session *sessions.Session) {
	delete(session.Values, SessionKeyToken)
	session.Options.MaxAge = -1
}
