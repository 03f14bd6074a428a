package routes

import (
	"github.com/bicepspshop/FINALrealtor-sub001/handlers/clients"
	"github.com/bicepspshop/FINALrealtor-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func ClientsRoutes(r *gin.Engine) {
	clientRoutes := r.Group("/clients")
	clientRoutes.Use(middleware.JWTAuth(), middleware.RequireActiveSubscription())
	{
		clientRoutes.POST("", clients.CreateClient)
		clientRoutes.GET("", clients.GetClients)
		clientRoutes.GET("/:clientId", clients.GetClient)
		clientRoutes.PUT("/:clientId", clients.UpdateClient)
		clientRoutes.DELETE("/:clientId", clients.DeleteClient)
	}
}
