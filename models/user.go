package models

import (
	"time"
)

// SubscriptionStatus is the authoritative access state on the user record.
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	// SubscriptionUnknown is never persisted; it is reported when the user
	// record cannot be read and callers apply their per-route policy.
	SubscriptionUnknown SubscriptionStatus = "unknown"
)

type SubscriptionPlan string

const (
	PlanMonthly SubscriptionPlan = "monthly"
	PlanYearly  SubscriptionPlan = "yearly"
)

// ValidPlan reports whether s names a purchasable plan.
func ValidPlan(s string) bool {
	return s == string(PlanMonthly) || s == string(PlanYearly)
}

type User struct {
	ID                    string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email                 string             `json:"email" gorm:"uniqueIndex" binding:"required,email"`
	Password              string             `json:"password" binding:"required,min=6"`
	Name                  string             `json:"name"`
	Phone                 string             `json:"phone"`
	Agency                string             `json:"agency"`
	TrialStartTime        time.Time          `json:"trialStartTime"`
	TrialDurationMinutes  int                `json:"trialDurationMinutes"`
	SubscriptionStatus    SubscriptionStatus `json:"subscriptionStatus" gorm:"type:varchar(20);default:'trial'"`
	SubscriptionPlan      *SubscriptionPlan  `json:"subscriptionPlan" gorm:"type:varchar(20)"`
	SubscriptionStartDate *time.Time         `json:"subscriptionStartDate"`
	SubscriptionEndDate   *time.Time         `json:"subscriptionEndDate"`
	LastPaymentID         *string            `json:"lastPaymentId"`
	CreatedAt             time.Time          `json:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}

// TrialEndTime is the moment the trial window closes.
func (u *User) TrialEndTime() time.Time {
	return u.TrialStartTime.Add(time.Duration(u.TrialDurationMinutes) * time.Minute)
}
