package routes

import (
	"github.com/bicepspshop/FINALrealtor-sub001/handlers/users"
	"github.com/bicepspshop/FINALrealtor-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func UsersRoutes(r *gin.Engine) {
	userRoutes := r.Group("/users")
	userRoutes.Use(middleware.JWTAuth())
	{
		userRoutes.GET("/me", users.GetProfile)
		userRoutes.PUT("/me", users.UpdateProfile)
	}
}
