package subscription

import (
	"encoding/json"
	"time"
)

// Notification is the JSON body of a gateway webhook delivery.
type Notification struct {
	Event  string        `json:"event"`
	Object PaymentObject `json:"object"`
}

type PaymentObject struct {
	ID                  string               `json:"id"`
	Status              string               `json:"status"`
	Amount              Amount               `json:"amount"`
	Metadata            Metadata             `json:"metadata"`
	CreatedAt           time.Time            `json:"created_at"`
	CancellationDetails *CancellationDetails `json:"cancellation_details,omitempty"`
}

// Amount.Value arrives as a number from some gateway versions and as a
// string ("2000.00") from others; json.Number accepts both.
type Amount struct {
	Value    json.Number `json:"value"`
	Currency string      `json:"currency"`
}

// Metadata is set by us at checkout time and echoed back by the gateway.
type Metadata struct {
	UserID   string `json:"userId"`
	PlanType string `json:"planType"`
}

type CancellationDetails struct {
	Party  string `json:"party"`
	Reason string `json:"reason"`
}
