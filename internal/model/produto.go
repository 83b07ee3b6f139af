package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a catalog entry sold at the bar. Fracionado products are sold
// by dose (e.g. a bottle poured in shots); their stock still counts units.
type Produto struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras  *string         `gorm:"uniqueIndex"`
	Nome          string          `gorm:"index;not null"`
	Categoria     string          `gorm:"not null"`
	PrecoCusto    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecoVenda    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EstoqueAtual  int             `gorm:"not null;default:0"`
	EstoqueMinimo int             `gorm:"not null;default:5"`
	Fracionado    bool            `gorm:"not null;default:false"`
	Ativo         bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Disponivel reports whether the product can be added to a comanda or
// conta mensal: active and with at least one unit on hand.
func (p *Produto) Disponivel() bool {
	return p.Ativo && p.EstoqueAtual > 0
}
