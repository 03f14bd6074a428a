package subscription

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bicepspshop/FINALrealtor-sub001/db"
	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/queue"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// SignatureHeader carries the base64 HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Payment-Signature"

const webhookSecretEnv = "PAYMENT_WEBHOOK_SECRET"

// Tasks runs verified events in the background so the gateway gets its
// response without waiting for our database. main swaps in a real worker.
var Tasks queue.Queue = queue.Inline{}

// PaymentWebhookHandler receives gateway payment notifications.
// @Summary Payment gateway webhook
// @Description Verify the gateway signature and queue the payment event for processing. 200 means accepted for processing, not fully processed.
// @Tags subscription
// @Accept json
// @Produce json
// @Param X-Payment-Signature header string true "base64 HMAC-SHA256 of the raw body"
// @Success 200 {object} map[string]interface{} "success: true"
// @Failure 400 {object} map[string]string "error: Malformed event payload"
// @Failure 401 {object} map[string]string "error: Signature verification failed"
// @Failure 500 {object} map[string]string "error: Internal error"
// @Router /payments/webhook [post]
func PaymentWebhookHandler(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.LogError(err, "Cannot read the webhook request body")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot read the request body"})
		return
	}

	secret := os.Getenv(webhookSecretEnv)
	if secret == "" {
		utils.LogError(nil, "Webhook secret not configured, rejecting notification")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Webhook secret not configured"})
		return
	}

	sig := c.GetHeader(SignatureHeader)
	verified, encoding := VerifyWebhookSignature(payload, sig, secret)
	if !verified {
		utils.LogError(nil, "Webhook signature verification failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Signature verification failed"})
		return
	}
	if encoding == EncodingText {
		utils.LogInfo("Webhook signature matched the re-encoded text form")
	}

	var n Notification
	if err := json.Unmarshal(payload, &n); err != nil || n.Event == "" || n.Object.ID == "" {
		utils.LogError(err, "Malformed webhook payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
		return
	}

	event := models.WebhookEvent{
		EventType:  n.Event,
		PaymentID:  n.Object.ID,
		Payload:    string(payload),
		ReceivedAt: time.Now().UTC(),
	}
	res := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_type"}, {Name: "payment_id"}},
		DoNothing: true,
	}).Create(&event)
	eventID := event.ID
	if res.Error != nil {
		// the event journal is observability, not the source of truth;
		// still hand the event to the worker
		utils.LogError(res.Error, "Cannot journal the webhook event")
		eventID = ""
	} else if res.RowsAffected == 0 {
		// redelivery: short-circuit only when the first delivery went
		// through cleanly, a failed or still-pending event runs again
		var prior models.WebhookEvent
		err := db.DB.Where("event_type = ? AND payment_id = ?", n.Event, n.Object.ID).First(&prior).Error
		if err == nil && prior.ProcessedAt != nil && prior.ProcessingError == "" {
			utils.LogInfo("Webhook event " + n.Event + " for payment " + n.Object.ID + " already processed")
			c.JSON(http.StatusOK, gin.H{"success": true})
			return
		}
		if err != nil {
			utils.LogError(err, "Cannot load the journaled webhook event")
			eventID = ""
		} else {
			utils.LogInfo("Webhook event " + n.Event + " for payment " + n.Object.ID + " redelivered before completing, reprocessing")
			eventID = prior.ID
		}
	}

	accepted := Tasks.Enqueue(func(ctx context.Context) {
		processErr := ProcessEvent(db.DB.WithContext(ctx), n, payload, time.Now().UTC())
		if eventID == "" {
			return
		}
		// processed_at is only set on success, so the journal keeps
		// failed events eligible for the gateway's redelivery
		stamp := map[string]interface{}{}
		if processErr != nil {
			stamp["processing_error"] = processErr.Error()
		} else {
			stamp["processed_at"] = time.Now().UTC()
			stamp["processing_error"] = ""
		}
		if err := db.DB.Model(&models.WebhookEvent{}).Where("id = ?", eventID).Updates(stamp).Error; err != nil {
			utils.LogError(err, "Cannot stamp the webhook event journal")
		}
	})
	if !accepted {
		// the journal row stays unstamped, so the gateway's redelivery
		// will be reprocessed instead of deduplicated
		utils.LogError(nil, "Webhook queue full, asking the gateway to redeliver")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Busy, retry later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
