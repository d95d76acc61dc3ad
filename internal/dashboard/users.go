package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"distris/internal/users"
)

func (s *Server) usersService(c *gin.Context) *users.Service {
	return users.NewService(s.clientFor(c))
}

func (s *Server) handleUsersList() gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := s.usersService(c).List(c.Request.Context(), currentSession(c).User)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func (s *Server) handleUserCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var form users.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			s.fail(c, errBadRequest)
			return
		}
		form.ID = 0
		s.saveUser(c, form, http.StatusCreated)
	}
}

func (s *Server) handleUserUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			s.fail(c, errBadRequest)
			return
		}
		var form users.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			s.fail(c, errBadRequest)
			return
		}
		form.ID = id
		s.saveUser(c, form, http.StatusOK)
	}
}

func (s *Server) saveUser(c *gin.Context, form users.Form, status int) {
	u, err := s.usersService(c).Save(c.Request.Context(), currentSession(c).User, form)
	if err != nil {
		s.fail(c, err)
		return
	}
	if u == nil {
		c.Status(status)
		return
	}
	c.JSON(status, u)
}

func (s *Server) handleUserDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			s.fail(c, errBadRequest)
			return
		}
		if err := s.usersService(c).Delete(c.Request.Context(), currentSession(c).User, id); err != nil {
			s.fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
