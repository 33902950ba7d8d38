package app

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guyghost/wakeve-auth/internal/config"
	httpx "github.com/guyghost/wakeve-auth/internal/http"
	"github.com/guyghost/wakeve-auth/internal/http/handlers"
	"github.com/guyghost/wakeve-auth/internal/http/middleware"
	"github.com/guyghost/wakeve-auth/internal/metrics"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	authH := handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc, c.UserRepo, c.SessionRepo, c.SessionMgr)
	sessH := handlers.NewSessionHandlers(c.SessionMgr)

	authMW := middleware.AuthMiddleware(c.TokenSvc, c.SessionMgr)

	r := httpx.BuildRouter(authH, sessH, authMW, metrics.Handler(c.Registry))

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
