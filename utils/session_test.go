package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionContext(cookie *http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		c.Request.AddCookie(cookie)
	}
	return c, w
}

func TestCookieSessionStoreRoundTrip(t *testing.T) {
	store := NewCookieSessionStore("anonymous_session_id")

	c, _ := newSessionContext(nil)
	_, ok := store.Get(c)
	assert.False(t, ok)

	c, w := newSessionContext(nil)
	store.Set(c, "abc-123")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "anonymous_session_id", cookies[0].Name)
	assert.Equal(t, "abc-123", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	c, _ = newSessionContext(&http.Cookie{Name: "anonymous_session_id", Value: "abc-123"})
	got, ok := store.Get(c)
	assert.True(t, ok)
	assert.Equal(t, "abc-123", got)
}

func TestCurrentSessionMintsLazily(t *testing.T) {
	store := NewCookieSessionStore("anonymous_session_id")

	// Existing id is reused untouched.
	c, w := newSessionContext(&http.Cookie{Name: "anonymous_session_id", Value: "existing-id"})
	assert.Equal(t, "existing-id", CurrentSession(c, store))
	assert.Empty(t, w.Result().Cookies(), "no new cookie when one already exists")

	// Missing id gets a fresh UUID, set on the response.
	c, w = newSessionContext(nil)
	id := CurrentSession(c, store)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, id, cookies[0].Value)
}
