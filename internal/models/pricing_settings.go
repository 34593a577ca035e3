package models

import "time"

// PricingSettings: percentuais de precificação da loja (frações de PREÇO DE VENDA,
// não de custo). A soma das três precisa ficar abaixo de 1 — validado na gravação.
type PricingSettings struct {
	ID                  uint    `gorm:"primaryKey"`
	StoreID             uint    `gorm:"uniqueIndex;not null"`
	TargetMargin        float64 `gorm:"not null"`
	SalesTaxRate        float64 `gorm:"not null"`
	LaborCommissionRate float64 `gorm:"not null"`
	UpdatedByID         uint
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
