package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/dietrec/backend/internal/service"
	"github.com/pageza/dietrec/backend/internal/types"
)

type memorySessions struct {
	sessions map[string]*types.Session
	next     int
	failNew  bool
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]*types.Session{}}
}

func (m *memorySessions) New(ctx context.Context) (*types.Session, error) {
	if m.failNew {
		return nil, errors.New("redis down")
	}
	m.next++
	s := &types.Session{ID: "sid-" + string(rune('0'+m.next))}
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memorySessions) Get(ctx context.Context, id string) (*types.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	return s, nil
}

func sessionRouter(tokens TokenValidator, store SessionLoader) *gin.Engine {
	router := gin.New()
	router.Use(Session(tokens, store, SessionOptions{MaxAge: 3600}, zap.NewNop()))
	router.GET("/whoami", func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, session.ID)
	})
	return router
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSessionMiddleware(t *testing.T) {
	tokens := service.NewSessionTokenService("test-secret", time.Hour)

	t.Run("should create a session on first contact and reuse it", func(t *testing.T) {
		store := newMemorySessions()
		router := sessionRouter(tokens, store)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sid-1", w.Body.String())
		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(cookie)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "sid-1", w.Body.String())
		assert.Nil(t, sessionCookie(w), "valid cookie must not be reissued")
	})

	t.Run("should replace a forged cookie", func(t *testing.T) {
		store := newMemorySessions()
		router := sessionRouter(tokens, store)

		forged, err := service.NewSessionTokenService("attacker", time.Hour).GenerateToken("sid-9")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: forged})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "sid-1", w.Body.String())
		assert.NotNil(t, sessionCookie(w))
	})

	t.Run("should start over when the stored session expired", func(t *testing.T) {
		store := newMemorySessions()
		router := sessionRouter(tokens, store)

		token, err := tokens.GenerateToken("gone")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "sid-1", w.Body.String())
	})

	t.Run("should fail when the store is down", func(t *testing.T) {
		store := newMemorySessions()
		store.failNew = true
		router := sessionRouter(tokens, store)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
