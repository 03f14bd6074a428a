package routes

import (
	"github.com/bicepspshop/FINALrealtor-sub001/handlers/properties"
	"github.com/bicepspshop/FINALrealtor-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func PropertiesRoutes(r *gin.Engine) {
	propertyRoutes := r.Group("/properties")
	propertyRoutes.Use(middleware.JWTAuth(), middleware.RequireActiveSubscription())
	{
		propertyRoutes.POST("", properties.CreateProperty)
		propertyRoutes.GET("", properties.GetProperties)
		propertyRoutes.GET("/:propertyId", properties.GetProperty)
		propertyRoutes.PUT("/:propertyId", properties.UpdateProperty)
		propertyRoutes.DELETE("/:propertyId", properties.DeleteProperty)
	}
}
