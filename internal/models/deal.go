package models

import "time"

type DealPriority string

const (
	DealPriorityLow    DealPriority = "low"
	DealPriorityMedium DealPriority = "medium"
	DealPriorityHigh   DealPriority = "high"
)

// DealStage: coluna do funil. Seedado no boot (novo-lead ... won/lost).
type DealStage struct {
	ID            uint `gorm:"primaryKey"`
	StoreID       uint `gorm:"index;not null"`
	Name          string `gorm:"size:50;not null"`
	Slug          string `gorm:"size:50;index;not null"`
	OrderPosition int    `gorm:"not null"`
	Color         string `gorm:"size:10;not null"`
	CreatedAt     time.Time
}

type Deal struct {
	ID         uint `gorm:"primaryKey"`
	StoreID    uint `gorm:"index;not null"`
	Store      Store
	CustomerID *uint
	Customer   *Customer
	StageID    uint `gorm:"index;not null"`
	Stage      DealStage
	Title      string       `gorm:"size:150;not null"`
	Value      float64      `gorm:"not null;default:0"`
	Notes      string       `gorm:"size:1000"`
	Priority   DealPriority `gorm:"size:10;not null;default:'medium'"`
	AssignedToID      *uint
	AssignedTo        *User `gorm:"foreignKey:AssignedToID"`
	ExpectedCloseDate *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DealHistory: registro de movimentação entre estágios (quem moveu, de onde, para onde).
type DealHistory struct {
	ID          uint `gorm:"primaryKey"`
	DealID      uint `gorm:"index;not null"`
	FromStageID uint `gorm:"not null"`
	FromStage   DealStage `gorm:"foreignKey:FromStageID"`
	ToStageID   uint      `gorm:"not null"`
	ToStage     DealStage `gorm:"foreignKey:ToStageID"`
	ChangedByID uint      `gorm:"not null"`
	ChangedBy   User      `gorm:"foreignKey:ChangedByID"`
	Notes       string    `gorm:"size:500"`
	ChangedAt   time.Time `gorm:"autoCreateTime"`
}
