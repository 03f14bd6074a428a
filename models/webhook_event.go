package models

import (
	"time"
)

// WebhookEvent stores every verified gateway notification before it is
// handed to the background worker, so processing failures stay observable
// independent of the HTTP response already sent to the gateway. The
// (event_type, payment_id) pair is unique: a redelivered notification is
// recognized instead of re-queued.
type WebhookEvent struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EventType       string     `json:"eventType" gorm:"type:varchar(50);not null;uniqueIndex:ux_webhook_events_type_payment,priority:1"`
	PaymentID       string     `json:"paymentId" gorm:"not null;uniqueIndex:ux_webhook_events_type_payment,priority:2"`
	Payload         string     `json:"payload" gorm:"type:text;not null"`
	ReceivedAt      time.Time  `json:"receivedAt"`
	ProcessedAt     *time.Time `json:"processedAt"`
	ProcessingError string     `json:"processingError" gorm:"type:text"`
}
