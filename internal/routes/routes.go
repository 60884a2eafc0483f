package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"securelogin/internal/handlers"
	"securelogin/internal/middleware"
	"securelogin/internal/ratelimit"
)

func SetupRoutes(
	r *gin.Engine,
	store ratelimit.CounterStore,
	authHandler *handlers.AuthHandler,
	twoFAHandler *handlers.TwoFAHandler,
	protectedHandler *handlers.ProtectedHandler,
) *gin.Engine {

	// общий лимит на весь API
	r.Use(middleware.APILimiter(store))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- public, со своим лимитом на попытки входа
	auth := r.Group("/auth", middleware.AuthLimiter(store))
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// ---- 2FA: setup/verify требуют сессию, login — второй фактор без неё
	twofa := r.Group("/2fa", middleware.TwoFALimiter(store))
	{
		twofa.GET("/setup", middleware.AuthMiddleware(), twoFAHandler.Setup)
		twofa.POST("/verify", middleware.AuthMiddleware(), twoFAHandler.Verify)
		twofa.POST("/login", twoFAHandler.Login)
	}

	// ---- protected
	protected := r.Group("/protected", middleware.AuthMiddleware())
	{
		protected.GET("/me", protectedHandler.Me)
	}

	return r
}
