package models

import "time"

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusApproved QuoteStatus = "approved"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

type Quote struct {
	ID          uint `gorm:"primaryKey"`
	StoreID     uint `gorm:"index;not null"`
	Store       Store
	DealID      *uint
	Deal        *Deal
	CustomerID  uint `gorm:"index;not null"`
	Customer    Customer
	QuoteNumber int         `gorm:"index;not null"` // sequencial por loja
	Status      QuoteStatus `gorm:"size:20;not null;default:'draft'"`
	// Totais recalculados a cada mudança de item/desconto
	Subtotal        float64 `gorm:"not null;default:0"`
	DiscountPercent float64 `gorm:"not null;default:0"`
	DiscountAmount  float64 `gorm:"not null;default:0"`
	Total           float64 `gorm:"not null;default:0"`
	Notes           string  `gorm:"size:1000"`
	ValidUntil      *time.Time
	SentAt          *time.Time
	ApprovedAt      *time.Time
	CreatedByID     uint `gorm:"not null"`
	CreatedBy       User `gorm:"foreignKey:CreatedByID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []QuoteItem
}

type QuoteItem struct {
	ID          uint `gorm:"primaryKey"`
	QuoteID     uint `gorm:"index;not null"`
	ProductID   *uint
	Product     *Product
	Description string  `gorm:"size:200;not null"`
	Quantity    int     `gorm:"not null"`
	UnitPrice   float64 `gorm:"not null"`
	Total       float64 `gorm:"not null"`
	CreatedAt   time.Time
}
