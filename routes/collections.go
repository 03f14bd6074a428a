package routes

import (
	"github.com/bicepspshop/FINALrealtor-sub001/handlers/collections"
	"github.com/bicepspshop/FINALrealtor-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func CollectionsRoutes(r *gin.Engine) {
	collectionRoutes := r.Group("/collections")
	collectionRoutes.Use(middleware.JWTAuth(), middleware.RequireActiveSubscription())
	{
		collectionRoutes.POST("", collections.CreateCollection)
		collectionRoutes.GET("", collections.GetCollections)
		collectionRoutes.GET("/:collectionId", collections.GetCollection)
		collectionRoutes.DELETE("/:collectionId", collections.DeleteCollection)
		collectionRoutes.POST("/:collectionId/properties", collections.AttachProperty)
		collectionRoutes.GET("/:collectionId/share", collections.GetShareLink)
	}
	// public share link, gated by the collection owner's subscription
	r.GET("/s/:token", middleware.SharedCollectionGate(), collections.GetSharedCollection)
}
