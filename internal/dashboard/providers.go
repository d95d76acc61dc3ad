package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"distris/internal/model"
)

func (s *Server) handleProviders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		list, err := s.providers.List(ctx)
		if err != nil {
			s.fail(c, err)
			return
		}
		last, err := s.providers.LastSync(ctx)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"providers": list, "lastSync": last})
	}
}

func (s *Server) handleSetColor() gin.HandlerFunc {
	return func(c *gin.Context) {
		src, err := model.ParseSourceID(c.Param("provider"))
		if err != nil {
			s.fail(c, err)
			return
		}
		var req struct {
			Color string `json:"color"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, errBadRequest)
			return
		}

		cfg, err := s.providers.SetColor(c.Request.Context(), src, req.Color)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
	}
}

func (s *Server) handleSync() gin.HandlerFunc {
	return func(c *gin.Context) {
		src, err := model.ParseSourceID(c.Param("provider"))
		if err != nil {
			s.fail(c, err)
			return
		}

		run, err := s.sync.Run(c.Request.Context(), s.clientFor(c), src)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

func (s *Server) handleSyncRuns() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.runs == nil {
			c.JSON(http.StatusOK, []model.SyncRun{})
			return
		}

		var src model.SourceID
		if p := c.Query("provider"); p != "" {
			parsed, err := model.ParseSourceID(p)
			if err != nil {
				s.fail(c, err)
				return
			}
			src = parsed
		}
		limit, _ := strconv.Atoi(c.Query("limit"))

		runs, err := s.runs.Recent(c.Request.Context(), src, limit)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, runs)
	}
}
