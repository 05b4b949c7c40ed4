package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dkeye/Chat/internal/adapters/signal"
	"github.com/dkeye/Chat/internal/app/orch"
	"github.com/dkeye/Chat/internal/config"
	"github.com/dkeye/Chat/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const lastRoomKey = "room"

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

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	secret := cfg.Secret
	if secret == "" {
		// Sessions then only survive until restart.
		secret = genClientToken()
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 3600,
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("ChatSessions", store))
	r.Use(ClientTokenMiddleware())

	ctrl := signal.NewSignalWSController(o, cfg)

	// The page and the websocket share "/": the browser client connects
	// back to the address it was served from.
	r.GET("/", func(c *gin.Context) {
		if websocket.IsWebSocketUpgrade(c.Request) {
			ctrl.HandleSignal(ctx, c)
			return
		}
		serveIndex(c, cfg)
	})
	r.GET("/ws", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")

	// GET /api/rooms: live rooms
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": o.Registry.List()})
	})

	// GET /api/rooms/:name/members: nicknames in join order
	api.GET("/rooms/:name/members", func(c *gin.Context) {
		name := domain.RoomID(c.Param("name"))
		c.JSON(http.StatusOK, gin.H{"nicks": o.Registry.MembersOf(name)})
	})

	r.NoRoute(gin.WrapH(http.FileServer(gin.Dir(cfg.StaticPath, false))))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}

// serveIndex rewrites a bare "/" to "/?<room>" (last visited room, else the
// default) and serves the page otherwise.
func serveIndex(c *gin.Context, cfg *config.Config) {
	session := sessions.Default(c)
	room := c.Request.URL.RawQuery
	if room == "" {
		room = cfg.DefaultRoom
		if last, ok := session.Get(lastRoomKey).(string); ok && last != "" {
			room = last
		}
		c.Redirect(http.StatusFound, "/?"+url.QueryEscape(room))
		return
	}

	if name, err := url.QueryUnescape(room); err == nil {
		session.Set(lastRoomKey, name)
		if err := session.Save(); err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
		}
	}
	c.File(cfg.StaticPath + "/index.html")
}
