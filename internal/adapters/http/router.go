package http

import (
	"context"

	"github.com/dkeye/peerview/internal/adapters/signal"
	"github.com/dkeye/peerview/internal/app/orch"
	"github.com/dkeye/peerview/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, ice []webrtc.ICEServer) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	debug := cfg.Mode == "debug"

	r := gin.New()
	if debug {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true})
	r.Use(sessions.Sessions("PeerviewSession", store))

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
	}
	h := &handlers{
		ctx:  ctx,
		orch: o,
		ws: signal.NewSignalWSController(o, signal.Config{
			ReadLimit:   cfg.ReadLimit,
			PingPeriod:  cfg.PingPeriod,
			SendBuffer:  cfg.SendBuffer,
			SignalRate:  cfg.SignalRate,
			SignalBurst: cfg.SignalBurst,
			ICEServers:  ice,
		}),
		verifier: NewVerifier(cfg.Secret),
		ice:      ice,
		debug:    debug,
	}

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Bool("debug", debug).Msg("router setup")

	r.GET("/health", h.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/session", h.handleLogin)
	api.DELETE("/session", h.handleLogout)
	api.GET("/ice", h.handleICE)

	authed := api.Group("", RequireUser(h.verifier, debug))
	authed.GET("/ws", h.handleWS)

	authed.POST("/rooms", h.handleCreateRoom)
	authed.GET("/rooms/:id", h.handleGetRoom)
	authed.POST("/rooms/:id/end", h.handleEndRoom)
	authed.POST("/rooms/:id/feedback", h.handleFeedback)
	authed.POST("/rooms/:id/reports", h.handleReport)

	authed.POST("/invitations", h.handlePropose)
	authed.GET("/invitations/:id", h.handleGetInvitation)
	authed.POST("/invitations/:id/respond", h.handleRespond)
	authed.POST("/invitations/:id/cancel", h.handleCancel)

	return r
}
