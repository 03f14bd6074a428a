package routes

import (
	"github.com/bicepspshop/FINALrealtor-sub001/handlers/subscription"
	"github.com/bicepspshop/FINALrealtor-sub001/middleware"

	"github.com/gin-gonic/gin"
)

func SubscriptionRoutes(r *gin.Engine) {
	subscriptionRoutes := r.Group("/subscription")
	subscriptionRoutes.Use(middleware.JWTAuth())
	{
		subscriptionRoutes.GET("/status", subscription.GetSubscriptionStatus)
		subscriptionRoutes.POST("/checkout", subscription.CreateCheckout)
		subscriptionRoutes.POST("/cancel", subscription.CancelSubscription)
	}
	// the gateway authenticates with the signature header, not a JWT
	r.POST("/payments/webhook", subscription.PaymentWebhookHandler)
}
