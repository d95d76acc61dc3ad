package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"distris/internal/backend"
	"distris/internal/model"
	"distris/internal/providers"
	"distris/internal/users"
)

var errBadRequest = errors.New("solicitud inválida")

var validationErrors = []error{
	errBadRequest,
	model.ErrUnknownSource,
	providers.ErrInvalidColor,
	users.ErrEmailRequired,
	users.ErrPasswordRequired,
	users.ErrPasswordMismatch,
	users.ErrInvalidRole,
}

// fail maps an error to a JSON response. A backend 401 also ends the
// dashboard session.
func (s *Server) fail(c *gin.Context, err error) {
	var (
		apiErr       *backend.APIError
		transportErr *backend.TransportError
	)

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		if sess := currentSession(c); sess != nil {
			s.endSession(c.Request.Context(), sess.ID)
		}
		s.clearCookie(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, users.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case isValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		c.AbortWithStatusJSON(status, gin.H{"error": apiErr.Message})
	case errors.Is(err, backend.ErrInvalidLoginResponse), errors.Is(err, backend.ErrInvalidResponse):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &transportErr):
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("backend unreachable")
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Error de conexión con el servidor."})
	default:
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
	}
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
