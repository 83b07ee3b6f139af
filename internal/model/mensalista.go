package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContaMensal is the running monthly credit ledger of a mensalista.
// Saldo is derived from Itens minus Pagamentos; any stored balance elsewhere
// is a cache, never the source of truth.
//
// InicioCiclo marks the start of the current billing cycle. It resets to the
// settling payment's timestamp whenever the balance reaches zero or below,
// which also clears AtrasoDesbloqueado for the fresh cycle.
type ContaMensal struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID   uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Limite      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	InicioCiclo time.Time       `gorm:"not null"`
	// AtrasoDesbloqueado is the sticky unlock flag: once a qualifying payment
	// unlocks a blocked account it stays set for the rest of the overdue
	// period. Only a cycle reset clears it.
	AtrasoDesbloqueado bool `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Cliente    *Cliente          `gorm:"foreignKey:ClienteID"`
	Itens      []ItemMensal      `gorm:"foreignKey:ContaID"`
	Pagamentos []PagamentoMensal `gorm:"foreignKey:ContaID"`
}

// ItemMensal is one charge within a billing cycle. Append-only; PrecoVenda
// is a snapshot of the product price at charge time.
type ItemMensal struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContaID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantidade int             `gorm:"not null"`
	PrecoVenda decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

// TableName overrides GORM's pluralization (item_mensals → itens_mensais).
func (ItemMensal) TableName() string { return "itens_mensais" }

// PagamentoMensal is an append-only payment against a conta mensal.
// DesbloqueioAplicado is recorded at creation time: true when this payment
// satisfied the 50%-of-balance unlock rule while the account was blocked.
type PagamentoMensal struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ContaID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Valor               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Metodo              string          `gorm:"type:varchar(20);not null"`
	DesbloqueioAplicado bool            `gorm:"not null;default:false"`
	CreatedAt           time.Time
}

// TableName overrides GORM's pluralization.
func (PagamentoMensal) TableName() string { return "pagamentos_mensais" }
