package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimentoEstoque registers every stock change on a product. Created
// automatically when a comanda item is added/removed, a mensalista charge
// lands, or stock is adjusted by hand. Movements are never modified or
// deleted — corrections create inverse entries.
type MovimentoEstoque struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProdutoID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Tipo            string     `gorm:"not null"` // "venda" | "estorno" | "consumo_mensal" | "ajuste_manual"
	Quantidade      int        `gorm:"not null"` // positive = entrada, negative = saída
	EstoqueAnterior int        `gorm:"not null"`
	EstoqueNovo     int        `gorm:"not null"`
	Motivo          string
	ReferenciaID    *uuid.UUID `gorm:"type:uuid"` // comanda_id or conta_mensal_id when applicable
	CreatedAt       time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

// TableName overrides GORM's pluralization.
func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }
