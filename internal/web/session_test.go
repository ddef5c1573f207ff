package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elderkiyo/lyricmood/internal/sentiment"
)

func TestSessionStoreCreateAndGet(t *testing.T) {
	store := NewSessionStore()
	filter := sentiment.Filter{Artists: []string{"Deep Purple"}, PolarityMin: -1, PolarityMax: 1}

	session := store.Create(filter)
	require.NotEmpty(t, session.ID)

	got := store.Get(session.ID)
	require.NotNil(t, got)
	assert.Equal(t, filter, got.Filter)
}

func TestSessionStoreSetFilter(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(sentiment.Filter{PolarityMin: -1, PolarityMax: 1})

	updated := sentiment.Filter{Languages: []string{"pt"}, PolarityMin: 0, PolarityMax: 1}
	store.SetFilter(session.ID, updated)

	assert.Equal(t, updated, store.Get(session.ID).Filter)
}

func TestSessionStoreDelete(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(sentiment.Filter{})

	store.Delete(session.ID)
	assert.Nil(t, store.Get(session.ID))
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(sentiment.Filter{})

	// Backdate past the TTL.
	store.mu.Lock()
	store.sessions[session.ID].CreatedAt = time.Now().Add(-sessionTTL - time.Minute)
	store.mu.Unlock()

	assert.Nil(t, store.Get(session.ID))
}

func TestSessionStoreUnknownID(t *testing.T) {
	store := NewSessionStore()
	assert.Nil(t, store.Get("nope"))
}

func TestSessionCookieRoundTrip(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(sentiment.Filter{PolarityMin: -0.5, PolarityMax: 0.5})

	rec := httptest.NewRecorder()
	store.SetCookie(rec, session)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	got := store.GetFromRequest(req)
	require.NotNil(t, got)
	assert.Equal(t, session.ID, got.ID)
}

func TestClearCookie(t *testing.T) {
	store := NewSessionStore()

	rec := httptest.NewRecorder()
	store.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestGetFromRequestWithoutCookie(t *testing.T) {
	store := NewSessionStore()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, store.GetFromRequest(req))
}
