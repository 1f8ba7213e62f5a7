package http

import (
	"github.com/gin-gonic/gin"

	"github.com/stepup-labs/certauth/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService) *gin.Engine {
	router := gin.Default()

	// Create handlers
	handlers := NewAuthHandlers(authService)

	// Auth routes
	api := router.Group("/api")
	{
		api.POST("/login-challenge", handlers.LoginChallenge)
		api.POST("/verify-login", handlers.VerifyLogin)
	}

	// Protected routes
	user := api.Group("/user")
	user.Use(AuthMiddleware(authService))
	{
		user.GET("/profile", handlers.Profile)
		user.GET("/authorize", handlers.Authorize)
	}

	return router
}
