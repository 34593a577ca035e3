package models

import "time"

// Store: a loja. O app é single-store (criada junto com o owner no registro),
// mas todos os registros carregam store_id para manter o escopo explícito.
type Store struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
