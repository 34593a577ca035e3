package models

import "time"

// Purchase: cabeçalho de uma entrada de compra. Imutável depois de gravado —
// não existe update/delete de compra, só novas entradas.
type Purchase struct {
	ID            uint `gorm:"primaryKey"`
	StoreID       uint `gorm:"index;not null"`
	Store         Store
	SupplierName  string `gorm:"size:150;not null"`
	InvoiceNumber string `gorm:"size:50"`
	// Totais calculados na entrada
	TotalProductsAmount float64 `gorm:"not null"` // soma dos subtotais (qtd x preço de nota)
	FreightCost         float64 `gorm:"not null;default:0"`
	TaxCost             float64 `gorm:"not null;default:0"`
	OtherCosts          float64 `gorm:"not null;default:0"`
	TotalPurchaseAmount float64 `gorm:"not null"` // produtos + frete + impostos + outros
	CreatedByID         uint    `gorm:"not null"`
	CreatedBy           User    `gorm:"foreignKey:CreatedByID"`
	CreatedAt           time.Time

	Items []PurchaseItem
}

type PurchaseItem struct {
	ID         uint `gorm:"primaryKey"`
	PurchaseID uint `gorm:"index;not null"`
	ProductID  uint `gorm:"index;not null"`
	Product    Product
	Quantity   int     `gorm:"not null"`
	UnitPrice  float64 `gorm:"not null"` // preço unitário da nota, antes do rateio
	// Custo unitário efetivo = preço da nota + rateio proporcional dos custos extras
	EffectiveUnitCost float64 `gorm:"not null"`
	TotalLineAmount   float64 `gorm:"not null"`
	CreatedAt         time.Time
}
