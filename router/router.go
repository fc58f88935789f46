package router

import (
	"fede-agent-backend/controller"
	"fede-agent-backend/middleware"

	"github.com/gin-gonic/gin"
)

func Register() *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/chat", controller.AssistantChat)
			protected.POST("/image", controller.AnalyzeImage)

			protected.POST("/session/new", controller.NewSession)
			protected.POST("/session/end", controller.EndSession)
			protected.GET("/session/status", controller.SessionStatus)
			protected.GET("/session/messages", controller.SessionMessages)
			protected.PUT("/session/context", controller.UpdateSessionContext)

			protected.POST("/action/confirm", controller.ConfirmAction)

			protected.GET("/patterns/suggestions", controller.PatternSuggestions)
			protected.POST("/patterns/confirm", controller.ConfirmPatternDefault)
		}
	}

	return r
}
