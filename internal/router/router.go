package router

import (
	"github.com/RazvanGorea/show-and-tell-api/internal/auth"
	"github.com/RazvanGorea/show-and-tell-api/internal/handler"
	"github.com/gin-gonic/gin"
)

// Setup configures the gin engine and routes.
func Setup(api *handler.API, tokens *auth.TokenService) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", api.Signup)
		authGroup.POST("/login", api.Login)
		authGroup.POST("/google", api.GoogleSignIn)
		authGroup.POST("/reset-code", api.SendResetPasswordCode)
		authGroup.POST("/check-reset-code", api.CheckResetPasswordCode)
		authGroup.POST("/reset-password", api.ResetPassword)
	}

	r.GET("/users/:uid", api.GetPublicProfile)
	r.GET("/posts/:slug", api.GetPost)

	// Everything below acts on the authenticated user.
	me := r.Group("")
	me.Use(auth.RequireAuth(tokens))
	{
		me.GET("/profile", api.GetProfile)
		me.PUT("/profile", api.UpdateProfile)
		me.POST("/profile/verification-code", api.SendVerificationCode)

		me.GET("/history", api.GetHistory)
		me.POST("/history", api.AddHistory)
		me.DELETE("/history", api.DeleteHistory)

		me.GET("/saves", api.GetSaves)
		me.POST("/saves", api.SavePost)
		me.DELETE("/saves", api.UnsavePost)

		me.POST("/posts", api.CreatePost)
	}

	return r
}
