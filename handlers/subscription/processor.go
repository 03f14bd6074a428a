package subscription

import (
	"time"

	"github.com/bicepspshop/FINALrealtor-sub001/models"
	"github.com/bicepspshop/FINALrealtor-sub001/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway event types the processor understands.
const (
	EventPaymentSucceeded         = "payment.succeeded"
	EventPaymentWaitingForCapture = "payment.waiting_for_capture"
	EventPaymentCanceled          = "payment.canceled"
)

// ProcessEvent applies a verified gateway notification to the user record
// and the payment ledger. Invalid events are logged and dropped without
// partial state; redeliveries of an already-ledgered payment are recognized
// by the payment_id uniqueness constraint and skipped.
func ProcessEvent(gdb *gorm.DB, n Notification, rawPayload []byte, now time.Time) error {
	switch n.Event {
	case EventPaymentSucceeded:
		return processSucceeded(gdb, n, rawPayload, now)
	case EventPaymentWaitingForCapture:
		// capture flow not implemented, the capture confirmation arrives
		// later as payment.succeeded
		utils.LogInfo("Payment " + n.Object.ID + " is waiting for capture, no state change")
		return nil
	case EventPaymentCanceled:
		return processCanceled(gdb, n, rawPayload, now)
	default:
		utils.LogInfo("Ignoring unhandled gateway event type: " + n.Event)
		return nil
	}
}

func processSucceeded(gdb *gorm.DB, n Notification, rawPayload []byte, now time.Time) error {
	userID := n.Object.Metadata.UserID
	planType := n.Object.Metadata.PlanType

	if userID == "" {
		utils.LogError(nil, "payment.succeeded without metadata.userId, event dropped")
		return nil
	}
	if !models.ValidPlan(planType) {
		utils.LogErrorWithUser(userID, nil, "payment.succeeded with missing or unknown planType, event dropped")
		return nil
	}
	plan := models.SubscriptionPlan(planType)

	var endDate time.Time
	if plan == models.PlanYearly {
		endDate = now.AddDate(1, 0, 0)
	} else {
		endDate = now.AddDate(0, 1, 0)
	}

	amount, _ := n.Object.Amount.Value.Float64()
	ledgerRow := models.Payment{
		PaymentID:   n.Object.ID,
		UserID:      userID,
		Amount:      amount,
		Currency:    n.Object.Amount.Currency,
		PlanType:    planType,
		PaymentDate: now,
		Status:      models.PaymentSucceeded,
		Metadata:    string(rawPayload),
	}

	duplicate := false
	err := gdb.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			DoNothing: true,
		}).Create(&ledgerRow)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// gateway redelivery, the ledger and the user record were
			// already settled for this payment
			duplicate = true
			return nil
		}

		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"subscription_status":     models.SubscriptionActive,
			"subscription_plan":       plan,
			"subscription_start_date": now,
			"subscription_end_date":   endDate,
			"last_payment_id":         n.Object.ID,
		}).Error
	})
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Error applying payment.succeeded for payment "+n.Object.ID)
		return err
	}

	if duplicate {
		utils.LogInfo("Duplicate delivery of payment " + n.Object.ID + " ignored")
		return nil
	}

	StatusCache.Invalidate(statusCacheKey(userID))
	utils.LogSuccessWithUser(userID, "Subscription activated until "+endDate.Format(time.RFC3339)+" (plan "+planType+")")
	return nil
}

func processCanceled(gdb *gorm.DB, n Notification, rawPayload []byte, now time.Time) error {
	userID := n.Object.Metadata.UserID
	if userID == "" {
		utils.LogError(nil, "payment.canceled without metadata.userId, event dropped")
		return nil
	}

	reason := "unknown"
	if n.Object.CancellationDetails != nil && n.Object.CancellationDetails.Reason != "" {
		reason = n.Object.CancellationDetails.Reason
	}

	amount, _ := n.Object.Amount.Value.Float64()
	ledgerRow := models.Payment{
		PaymentID:    n.Object.ID,
		UserID:       userID,
		Amount:       amount,
		Currency:     n.Object.Amount.Currency,
		PlanType:     n.Object.Metadata.PlanType,
		PaymentDate:  now,
		Status:       models.PaymentCanceled,
		CancelReason: reason,
		Metadata:     string(rawPayload),
	}

	// a canceled payment attempt never touches subscription_status: an
	// existing active subscription survives a failed renewal attempt
	res := gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}},
		DoNothing: true,
	}).Create(&ledgerRow)
	if res.Error != nil {
		utils.LogErrorWithUser(userID, res.Error, "Error recording payment.canceled for payment "+n.Object.ID)
		return res.Error
	}
	if res.RowsAffected == 0 {
		utils.LogInfo("Duplicate delivery of canceled payment " + n.Object.ID + " ignored")
		return nil
	}

	utils.LogSuccessWithUser(userID, "Canceled payment "+n.Object.ID+" recorded (reason: "+reason+")")
	return nil
}
