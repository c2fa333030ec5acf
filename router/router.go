package router

import (
	"bealive-agent-backend/controller"
	"bealive-agent-backend/middleware"

	"github.com/gin-gonic/gin"
)

func Register() *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	register(r, middleware.AuthMiddleware())
	return r
}

func register(r *gin.Engine, auth gin.HandlerFunc) {
	api := r.Group("/api")
	{
		protected := api.Group("")
		protected.Use(auth)
		{
			protected.POST("/session", controller.CreateSession)
			protected.GET("/sessions", controller.GetSessions)
			protected.DELETE("/session/:id", controller.DeleteSession)
			protected.GET("/session/:id/messages", controller.GetSessionMessages)
			protected.PUT("/session/:id/title", controller.UpdateSessionTitle)
			protected.DELETE("/session/:id/memory", controller.ClearSessionMemory)

			protected.POST("/chat", controller.Chat)

			protected.POST("/activities", controller.CreateActivity)
			protected.GET("/reservations/pending", controller.GetPendingReservations)
			protected.GET("/reviews/pending", controller.GetPendingReviews)

			protected.POST("/kb/ingest", controller.IngestCompanyDocument)
			protected.GET("/kb/documents", controller.GetCompanyDocuments)
		}
	}
}
