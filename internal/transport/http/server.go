package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coderoom/coderoom-server/internal/config"
	"github.com/coderoom/coderoom-server/internal/core"
	"github.com/coderoom/coderoom-server/internal/executor"
)

// NewServer builds an HTTP server exposing the WebSocket endpoint and the
// REST surface.
func NewServer(hub *core.Hub, registry *executor.Registry, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(hub, registry, logger)
	router.GET("/api/languages", api.Languages)
	router.GET("/api/rooms/:id", api.RoomSnapshot)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
