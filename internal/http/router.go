package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guyghost/wakeve-auth/internal/http/handlers"
)

func BuildRouter(ah *handlers.AuthHandlers, sh *handlers.SessionHandlers, authMW gin.HandlerFunc, metricsHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(metricsHandler))

	auth := r.Group("/api/auth")
	auth.POST("/login", ah.Login)
	auth.POST("/otp/send", ah.SendOTP)
	auth.POST("/otp/verify", ah.VerifyOTP)
	auth.POST("/refresh", ah.Refresh)

	v := r.Group("/api").Use(authMW)
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)
	v.GET("/sessions", sh.List)
	v.GET("/sessions/:id", sh.Get)
	v.POST("/sessions/:id/revoke", sh.Revoke)

	return r
}
