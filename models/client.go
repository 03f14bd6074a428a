package models

import (
	"time"
)

// Client is a buyer or seller managed by one agent.
type Client struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" binding:"required"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
