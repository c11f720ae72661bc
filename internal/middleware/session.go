package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/dietrec/backend/internal/types"
)

// Context keys set by the session middleware
const (
	SessionIDKey = "session_id"
	SessionKey   = "session"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "dietrec_session"

// TokenValidator signs and validates session tokens
type TokenValidator interface {
	GenerateToken(sessionID string) (string, error)
	ValidateToken(token string) (*types.SessionClaims, error)
}

// SessionLoader loads or creates sessions
type SessionLoader interface {
	New(ctx context.Context) (*types.Session, error)
	Get(ctx context.Context, id string) (*types.Session, error)
}

// SessionOptions configures the session cookie
type SessionOptions struct {
	MaxAge int
	Secure bool
}

// Session resolves the visitor's session from the signed cookie, creating
// one on first contact or when the cookie is invalid or expired.
func Session(tokens TokenValidator, store SessionLoader, opts SessionOptions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if raw, err := c.Cookie(SessionCookieName); err == nil && raw != "" {
			claims, err := tokens.ValidateToken(raw)
			if err == nil {
				session, err := store.Get(ctx, claims.SessionID)
				if err == nil {
					setSession(c, session)
					c.Next()
					return
				}
				logger.Debug("[Session] stored session unavailable, starting a new one",
					zap.String("session_id", claims.SessionID), zap.Error(err))
			} else {
				logger.Debug("[Session] rejected session cookie", zap.Error(err))
			}
		}

		session, err := store.New(ctx)
		if err != nil {
			logger.Error("[Session] failed to create session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
			return
		}

		token, err := tokens.GenerateToken(session.ID)
		if err != nil {
			logger.Error("[Session] failed to sign session token", zap.Error(err))
			_ = c.Error(errors.New("failed to sign session token"))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, token, opts.MaxAge, "/", "", opts.Secure, true)
		setSession(c, session)
		c.Next()
	}
}

func setSession(c *gin.Context, session *types.Session) {
	c.Set(SessionIDKey, session.ID)
	c.Set(SessionKey, session)
}

// CurrentSession returns the session stored by the Session middleware
func CurrentSession(c *gin.Context) (*types.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*types.Session)
	return session, ok
}
