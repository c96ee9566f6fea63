package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/OpenMeet-Team/openmeet-api-sub011/controllers"
	"github.com/OpenMeet-Team/openmeet-api-sub011/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLoginHandler)
		}
		protected := api.Group("/")
		protected.Use(middleware.AuthJWT())
		{
			protected.GET("/me", controllers.Me)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/only", func(c *gin.Context) {
				c.JSON(200, gin.H{"ok": true})
			})
		}

		events := api.Group("/events")
		events.Use(middleware.AuthJWT())
		{
			events.POST("", controllers.CreateEvent)
			events.GET("/:slug", controllers.GetEvent)
			events.POST("/:slug/attendees", middleware.CheckEventOwner(), controllers.AddEventAttendee)
		}

		groups := api.Group("/groups")
		groups.Use(middleware.AuthJWT())
		{
			groups.POST("", controllers.CreateGroup)
			groups.GET("/:slug", controllers.GetGroup)
			groups.POST("/:slug/members", middleware.CheckGroupOwner(), controllers.AddGroupMember)
		}

		chat := api.Group("/chat")
		chat.Use(middleware.AuthJWT(), middleware.RateLimitChat())
		{
			chat.POST("/event/:slug", controllers.EnsureEventRoom)
			chat.POST("/event/:slug/member/:userId", controllers.AddEventRoomMember)
			chat.DELETE("/event/:slug/member/:userId", controllers.RemoveEventRoomMember)
			chat.DELETE("/event/:slug", middleware.CheckEventOwner(), controllers.DeleteEventRooms)

			chat.POST("/group/:slug", controllers.EnsureGroupRoom)
			chat.POST("/group/:slug/member/:userId", controllers.AddGroupRoomMember)
			chat.DELETE("/group/:slug/member/:userId", controllers.RemoveGroupRoomMember)
			chat.DELETE("/group/:slug", middleware.CheckGroupOwner(), controllers.DeleteGroupRooms)
		}

		api.POST("/uploads", middleware.AuthJWT(), controllers.UploadFile)
	}
}
