package main

import (
	"log"

	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/handlers/subscription"
	"github.com/bicepspshop/FINALrealtor-sub001/queue"
	"github.com/bicepspshop/FINALrealtor-sub001/routes"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"github.com/gin-gonic/gin"
)

// @title РиелторПро API
// @version 1.0
// @description Backend for the РиелторПро real-estate agent workspace
// @host localhost:8080
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter the JWT with the Bearer prefix: Bearer <JWT>
func main() {

	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = utils.LogWriter()

	db.InitDB()

	// webhook events are acknowledged first and processed here
	worker := queue.NewWorker(64, 2)
	defer worker.Stop()
	subscription.Tasks = worker

	r := routes.SetupRouter()

	if err := r.Run(":8080"); err != nil {
		log.Fatal("Error starting the server:", err)
	}
}
