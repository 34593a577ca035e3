package models

import "time"

type CustomerStatus string

const (
	CustomerStatusLead   CustomerStatus = "lead"
	CustomerStatusActive CustomerStatus = "active"
)

type Customer struct {
	ID                 uint `gorm:"primaryKey"`
	StoreID            uint `gorm:"index;not null"`
	Store              Store
	Name               string         `gorm:"size:150;not null"`
	Whatsapp           string         `gorm:"size:30"`
	CurrentDeviceModel string         `gorm:"size:100"`
	Notes              string         `gorm:"size:500"`
	Status             CustomerStatus `gorm:"size:20;not null;default:'active'"`
	Source             string         `gorm:"size:50"` // origem do lead (ex: "system", "instagram")
	LastPurchaseDate   *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
