package models

import "time"

type CashFlowCategory string

const (
	CashFlowCategorySale       CashFlowCategory = "sale"
	CashFlowCategoryPurchase   CashFlowCategory = "purchase"
	CashFlowCategoryExpense    CashFlowCategory = "expense"
	CashFlowCategoryAdjustment CashFlowCategory = "adjustment"
)

type CashFlowDirection string

const (
	CashFlowIn  CashFlowDirection = "in"
	CashFlowOut CashFlowDirection = "out"
)

type CashFlowEntry struct {
	ID          uint `gorm:"primaryKey"`
	StoreID     uint `gorm:"index;not null"`
	Store       Store
	Date        time.Time         `gorm:"index;not null"` // dia do lançamento
	Category    CashFlowCategory  `gorm:"size:20;not null"`
	Direction   CashFlowDirection `gorm:"size:5;not null"`
	Amount      float64           `gorm:"not null"` // sempre positivo; o sinal vem de Direction
	Description string            `gorm:"size:255"`
	CreatedByID uint              `gorm:"not null"`
	CreatedBy   User              `gorm:"foreignKey:CreatedByID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
