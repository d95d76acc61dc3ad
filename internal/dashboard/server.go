// Package dashboard is the JSON API behind the distributor marketplace
// dashboard. It keeps the session state (backend token, search batch, cart)
// server side and delegates catalog work to the backend.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"distris/internal/backend"
	"distris/internal/cart"
	"distris/internal/catalog"
	"distris/internal/config"
	"distris/internal/model"
	"distris/internal/observability"
	"distris/internal/providers"
	"distris/internal/session"
	"distris/internal/store"
	"distris/internal/syncjob"
)

// RunLog is the sync history; repository.SyncRepository implements it.
type RunLog interface {
	Save(ctx context.Context, run model.SyncRun) error
	Recent(ctx context.Context, source model.SourceID, limit int) ([]model.SyncRun, error)
}

type SearchLog interface {
	Save(ctx context.Context, l model.SearchLog) error
}

// Deps wires a Server. Runs and Searches are optional.
type Deps struct {
	Config    *config.Config
	API       *backend.Client
	KV        store.KV
	Providers *providers.Registry
	Runs      RunLog
	Searches  SearchLog
	Log       zerolog.Logger
}

type Server struct {
	cfg        *config.Config
	api        *backend.Client
	sessions   *session.Store
	carts      *cart.Repository
	providers  *providers.Registry
	workspace  *Workspace
	normalizer *catalog.Normalizer
	sync       *syncjob.Runner
	runs       RunLog
	searches   SearchLog
	log        zerolog.Logger
}

func NewServer(d Deps) *Server {
	s := &Server{
		cfg:        d.Config,
		api:        d.API,
		sessions:   session.NewStore(d.KV, d.Config.SessionTTL),
		carts:      cart.NewRepository(d.KV, d.Config.SessionTTL),
		providers:  d.Providers,
		workspace:  NewWorkspace(d.KV, d.Config.SessionTTL),
		normalizer: d.Providers.Normalizer(),
		runs:       d.Runs,
		searches:   d.Searches,
		log:        d.Log,
	}
	s.sync = &syncjob.Runner{LastSync: d.Providers, Log: d.Log}
	if d.Runs != nil {
		s.sync.Runs = d.Runs
	}
	return s
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(observability.Handler()))

	api := r.Group("/api")
	api.POST("/login", s.handleLogin())
	api.POST("/logout", s.handleLogout())

	authed := api.Group("", s.requireSession())
	authed.GET("/me", s.handleMe())

	authed.GET("/providers", s.handleProviders())
	authed.PUT("/providers/:provider/color", s.handleSetColor())
	authed.POST("/sync/:provider", s.handleSync())
	authed.GET("/sync/runs", s.handleSyncRuns())

	authed.GET("/catalog/:provider", s.handleCatalog())
	authed.GET("/search", s.handleSearch())
	authed.GET("/marketplace", s.handleMarketplace())

	authed.GET("/cart", s.handleCart())
	authed.POST("/cart", s.handleCartAdd())
	authed.DELETE("/cart", s.handleCartRemove())
	authed.GET("/cart/summary", s.handleCartSummary())

	admin := authed.Group("/users", requireAdmin())
	admin.GET("", s.handleUsersList())
	admin.POST("", s.handleUserCreate())
	admin.PATCH("/:id", s.handleUserUpdate())
	admin.DELETE("/:id", s.handleUserDelete())

	return r
}
