package subscription

import (
	"net/http"
	"time"

	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/payment"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"github.com/gin-gonic/gin"
)

// GetSubscriptionStatus resolves the connected user's access.
// @Summary Subscription status of the connected user
// @Description Resolve whether the user's trial or subscription currently grants access
// @Tags subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "isActive, subscriptionStatus, remainingMinutes"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /subscription/status [get]
func GetSubscriptionStatus(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	res := ResolveUserStatus(c.Request.Context(), userID.(string), time.Now().UTC())

	body := gin.H{
		"isActive":           res.IsActive,
		"subscriptionStatus": res.Status,
	}
	if res.Status == models.SubscriptionTrial {
		body["remainingMinutes"] = res.RemainingMinutes
	}
	c.JSON(http.StatusOK, body)
}

type checkoutRequest struct {
	PlanType string `json:"planType" binding:"required"`
}

// CreateCheckout registers a gateway payment for the chosen plan.
// @Summary Start a subscription payment
// @Description Register a payment with the gateway and return the hosted confirmation page URL
// @Tags subscription
// @Accept json
// @Produce json
// @Param plan body checkoutRequest true "planType: monthly or yearly"
// @Security BearerAuth
// @Success 200 {object} map[string]string "url: confirmation page, paymentId: gateway payment id"
// @Failure 400 {object} map[string]string "error: Unknown plan"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Gateway error"
// @Router /subscription/checkout [post]
func CreateCheckout(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req checkoutRequest
	if !utils.ValidateRequestBody(c, &req) {
		return
	}
	if !models.ValidPlan(req.PlanType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan: " + req.PlanType})
		return
	}

	paymentID, confirmationURL, err := payment.CreatePayment(userID.(string), models.SubscriptionPlan(req.PlanType))
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error creating the gateway payment in CreateCheckout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the payment"})
		return
	}

	utils.LogSuccessWithUser(userID, "Gateway payment "+paymentID+" created in CreateCheckout")
	c.JSON(http.StatusOK, gin.H{"url": confirmationURL, "paymentId": paymentID})
}

// CancelSubscription switches the user to the cancelled status.
// @Summary Cancel the subscription
// @Description Explicit cancellation: the user keeps no access, whatever the previous status was
// @Tags subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Subscription cancelled"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error updating the subscription"
// @Router /subscription/cancel [post]
func CancelSubscription(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	err := db.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("subscription_status", models.SubscriptionCancelled).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error cancelling the subscription in CancelSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the subscription"})
		return
	}

	StatusCache.Invalidate(statusCacheKey(userID.(string)))
	utils.LogSuccessWithUser(userID, "Subscription cancelled in CancelSubscription")
	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
}
