package http

import (
	"context"
	"net/http"

	"github.com/dkeye/CodeCurrent/internal/adapters/signal"
	"github.com/dkeye/CodeCurrent/internal/app/orch"
	"github.com/dkeye/CodeCurrent/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const sessionDisplayName = "display_name"

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// DisplayNameMiddleware exposes the session's preferred name to the WS handler.
func DisplayNameMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if name, ok := sessions.Default(c).Get(sessionDisplayName).(string); ok {
			c.Set("display_name", name)
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, hub *orch.Orchestrator, ctrl *signal.SignalWSController) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 30, HttpOnly: true})
	r.Use(sessions.Sessions("CodeCurrentSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &handlers{hub: hub, cfg: cfg}
	api := r.Group("/api")
	api.GET("/health", h.health)
	api.GET("/rooms", h.listRooms)
	api.GET("/rooms/:id", h.getRoom)
	api.GET("/rooms/:id/files", h.getFiles)
	api.GET("/ice-servers", h.iceServers)
	api.GET("/session", h.getSession)
	api.POST("/session", h.setSession)

	api.GET("/ws", DisplayNameMiddleware(), func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
