package models

import (
	"time"
)

// Collection is a named selection of properties an agent shares with a
// client. ShareToken addresses the public read-only view; access through it
// is gated by the owner's subscription status, not the viewer's.
type Collection struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID     string     `json:"userId" gorm:"type:uuid;not null;index"`
	ClientID   *string    `json:"clientId" gorm:"type:uuid"`
	Name       string     `json:"name" binding:"required"`
	ShareToken string     `json:"shareToken" gorm:"type:uuid;uniqueIndex"`
	Properties []Property `json:"properties" gorm:"many2many:collection_properties;"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
