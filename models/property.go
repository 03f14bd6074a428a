package models

import (
	"time"
)

type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyCommerce  PropertyType = "commerce"
	PropertyLand      PropertyType = "land"
)

type Property struct {
	ID          string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID      string       `json:"userId" gorm:"type:uuid;not null;index"`
	Title       string       `json:"title" binding:"required"`
	Type        PropertyType `json:"type" gorm:"type:varchar(20)"`
	Address     string       `json:"address"`
	Price       float64      `json:"price"`
	Currency    string       `json:"currency" gorm:"type:varchar(10);default:'RUB'"`
	Area        float64      `json:"area"`
	Rooms       int          `json:"rooms"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
