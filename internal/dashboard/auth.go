package dashboard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"distris/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, errBadRequest)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		req.Password = strings.TrimSpace(req.Password)
		if req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Completá email y contraseña."})
			return
		}

		ctx := c.Request.Context()
		res, err := s.api.Login(ctx, req.Email, req.Password)
		if err != nil {
			s.log.Warn().Err(err).Str("email", req.Email).Msg("login failed")
			s.fail(c, err)
			return
		}

		sess, err := s.sessions.Create(ctx, res.Token, res.User)
		if err != nil {
			s.fail(c, err)
			return
		}
		s.setCookie(c, sess.ID)

		s.log.Info().Str("email", res.User.Email).Str("endpoint", res.Endpoint).Msg("login")
		c.JSON(http.StatusOK, gin.H{"user": res.User})
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(session.CookieName); err == nil && id != "" {
			s.endSession(c.Request.Context(), id)
		}
		s.clearCookie(c)
		c.Status(http.StatusNoContent)
	}
}

// handleMe asks the backend who the token belongs to and refreshes the
// cached user, so role changes apply without a new login.
func (s *Server) handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		u, err := s.clientFor(c).Me(ctx)
		if err != nil {
			s.fail(c, err)
			return
		}
		if err := s.sessions.UpdateUser(ctx, currentSession(c), *u); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	}
}
