package controllers

import (
	"GlobalDent/handlers"
	"GlobalDent/middlewares"
	"GlobalDent/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
	tokens  *utils.TokenMaker
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler, tokens *utils.TokenMaker) *AuthController {
	return &AuthController{
		Handler: authHandler,
		tokens:  tokens,
	}
}

// RegisterRoutes initializes all authentication routes under /auth
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public routes: No authentication required
	public := router.Group("/auth")
	{
		public.POST("/login", ac.Handler.Login)
		public.POST("/refresh-token", ac.Handler.RefreshToken)
		public.POST("/send-reset-code", ac.Handler.SendResetCode)
		public.POST("/change-password", ac.Handler.ChangePassword)
	}

	// Protected routes: Requires a valid token
	authGroup := router.Group("/auth").Use(middlewares.TokenAuthMiddleware(ac.tokens))
	{
		authGroup.POST("/logoff", ac.Handler.Logoff)
		authGroup.GET("/user/profile", ac.Handler.GetUserProfile)
	}

	// Only admins create operator accounts
	adminGroup := router.Group("/auth/admin").Use(
		middlewares.TokenAuthMiddleware(ac.tokens),
		middlewares.RoleAuthMiddleware("Admin"),
	)
	{
		adminGroup.POST("/register", ac.Handler.Register)
	}
}
