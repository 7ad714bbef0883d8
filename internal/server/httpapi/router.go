package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the auth endpoints and the metrics endpoint onto a gin
// engine.
func (h *Handler) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/refresh", h.refresh)
		authGroup.POST("/logout", h.logout)
		authGroup.POST("/logout-all", h.authRequired(), h.logoutAll)
		authGroup.GET("/me", h.authRequired(), h.me)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
