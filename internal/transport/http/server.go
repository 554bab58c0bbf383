package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taubey/fakester-server/internal/auth"
	"github.com/taubey/fakester-server/internal/config"
	"github.com/taubey/fakester-server/internal/core"
	"github.com/taubey/fakester-server/internal/store"
)

// NewServer builds the HTTP server: REST auth endpoints plus the /ws upgrade.
func NewServer(manager *core.Manager, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	api := NewAPIHandlers(authService, st, logger)
	router.POST("/api/auth/guest", api.GuestLogin)
	router.POST("/api/auth/register", api.Register)
	router.POST("/api/auth/login", api.Login)
	router.GET("/api/profile", AuthMiddleware(authService, logger), api.Profile)

	ws := NewWSHandler(manager, authService, logger)
	router.GET("/ws", gin.WrapH(ws))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
