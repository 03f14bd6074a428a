package models

import (
	"time"
)

// PaymentStatus mirrors the gateway's terminal payment states. The gateway
// spells it "canceled"; the user-level SubscriptionCancelled keeps the
// double-l spelling.
type PaymentStatus string

const (
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentCanceled  PaymentStatus = "canceled"
)

// Payment is one row of the append-only payment ledger. Rows are inserted
// once per terminal webhook event and never updated or deleted. PaymentID
// carries a uniqueness constraint so gateway redeliveries cannot produce
// duplicate ledger rows.
type Payment struct {
	ID           string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PaymentID    string        `json:"paymentId" gorm:"uniqueIndex;not null"`
	UserID       string        `json:"userId" gorm:"type:uuid;not null;index"`
	Amount       float64       `json:"amount"`
	Currency     string        `json:"currency" gorm:"type:varchar(10)"`
	PlanType     string        `json:"planType" gorm:"type:varchar(20)"`
	PaymentDate  time.Time     `json:"paymentDate"`
	Status       PaymentStatus `json:"status" gorm:"type:varchar(20)"`
	CancelReason string        `json:"cancelReason"`
	Metadata     string        `json:"metadata" gorm:"type:text"`
	CreatedAt    time.Time     `json:"createdAt"`
}
