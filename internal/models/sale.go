package models

import "time"

type Sale struct {
	ID            uint `gorm:"primaryKey"`
	StoreID       uint `gorm:"index;not null"`
	Store         Store
	SellerID      uint `gorm:"index;not null"`
	Seller        User `gorm:"foreignKey:SellerID"`
	CustomerID    *uint
	Customer      *Customer
	TotalGross    float64 `gorm:"not null"`
	TotalNet      float64 `gorm:"not null"`
	PaymentMethod string  `gorm:"size:30;not null"` // pix / dinheiro / cartao / pending
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []SaleItem
}

type SaleItem struct {
	ID              uint `gorm:"primaryKey"`
	SaleID          uint `gorm:"index;not null"`
	ProductID       uint `gorm:"index;not null"`
	Product         Product
	Quantity        int     `gorm:"not null"`
	UnitPriceAtSale float64 `gorm:"not null"` // preço congelado no momento da venda
	CreatedAt       time.Time
}
