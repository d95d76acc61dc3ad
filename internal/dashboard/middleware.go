package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"distris/internal/backend"
	"distris/internal/session"
)

const sessionKey = "session"

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

// requireSession loads the cookie session and renews the cookie so the
// expiration slides with activity.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(session.CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": backend.ErrUnauthorized.Error()})
			return
		}

		sess, err := s.sessions.Get(c.Request.Context(), id)
		if errors.Is(err, session.ErrNoSession) {
			s.clearCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": backend.ErrUnauthorized.Error()})
			return
		}
		if err != nil {
			s.fail(c, err)
			return
		}

		ctx := c.Request.Context()
		if err := s.carts.Touch(ctx, sess.ID); err != nil {
			s.log.Warn().Err(err).Msg("touch cart")
		}
		if err := s.workspace.Touch(ctx, sess.ID); err != nil {
			s.log.Warn().Err(err).Msg("touch batch")
		}

		s.setCookie(c, sess.ID)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil || !sess.User.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "solo un administrador puede gestionar usuarios"})
			return
		}
		c.Next()
	}
}

// endSession drops everything kept for a session: the session itself, its
// search batch and its cart.
func (s *Server) endSession(ctx context.Context, id string) {
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Msg("delete session")
	}
	if err := s.workspace.Forget(ctx, id); err != nil {
		s.log.Error().Err(err).Msg("forget search batch")
	}
	if err := s.carts.Clear(ctx, id); err != nil {
		s.log.Error().Err(err).Msg("clear cart")
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// clientFor returns a backend client authenticated as the session user.
func (s *Server) clientFor(c *gin.Context) *backend.Client {
	return s.api.WithToken(currentSession(c).Token)
}

func (s *Server) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, id, int(s.sessions.TTL().Seconds()), "/", "", false, true)
}

func (s *Server) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}
