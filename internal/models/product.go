package models

import "time"

type Product struct {
	ID      uint `gorm:"primaryKey"`
	StoreID uint `gorm:"index;not null"`
	Store   Store
	SKU     string `gorm:"size:50;index"` // opcional, mas único quando preenchido
	Name    string `gorm:"size:150;not null"`
	// Categoria livre (ex: "Capas", "Películas", "Acessórios")
	Category         string  `gorm:"size:50;not null;default:'Acessórios'"`
	CostPrice        float64 `gorm:"not null;default:0"` // custo efetivo (última entrada)
	SalePrice        float64 `gorm:"not null;default:0"`
	CurrentStock     int     `gorm:"not null;default:0"`
	MinStock         int     `gorm:"not null;default:5"`
	CompatibleModels string  `gorm:"size:500"` // lista separada por vírgula (ex: "iPhone 13, iPhone 14")
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
