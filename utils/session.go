package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sessionCookieMaxAge keeps the anonymous id around long enough that the
// daily window resets several times before the cookie does.
const sessionCookieMaxAge = 400 * 24 * 60 * 60

// SessionStore abstracts how the anonymous session identifier travels with a
// request, so handlers never touch cookies directly and tests can substitute
// a fixed identity.
type SessionStore interface {
	// Get returns the session id carried by the request, if any.
	Get(c *gin.Context) (string, bool)
	// Set attaches the session id to the response.
	Set(c *gin.Context, id string)
}

// CookieSessionStore persists the anonymous session id in a long-lived cookie
// named by configuration (default "anonymous_session_id").
type CookieSessionStore struct {
	CookieName string
}

// NewCookieSessionStore builds a cookie-backed session store.
func NewCookieSessionStore(cookieName string) *CookieSessionStore {
	return &CookieSessionStore{CookieName: cookieName}
}

func (s *CookieSessionStore) Get(c *gin.Context) (string, bool) {
	v, err := c.Cookie(s.CookieName)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (s *CookieSessionStore) Set(c *gin.Context, id string) {
	c.SetCookie(s.CookieName, id, sessionCookieMaxAge, "/", "", false, true)
}

// CurrentSession returns the request's anonymous session id, minting a fresh
// UUID and storing it when none exists yet. The id is created lazily so
// clients that never read an article never receive one.
func CurrentSession(c *gin.Context, store SessionStore) string {
	if id, ok := store.Get(c); ok {
		return id
	}
	id := uuid.NewString()
	store.Set(c, id)
	return id
}
