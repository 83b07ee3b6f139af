package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Comanda status values. "pagamento" is reserved for a partial-payment UI
// state and is never set by the ledger itself.
const (
	ComandaAberta      = "aberta"
	ComandaEmPagamento = "pagamento"
	ComandaFechada     = "fechada"
)

// Payment methods accepted at the bar.
const (
	MetodoPix      = "pix"
	MetodoDinheiro = "dinheiro"
	MetodoCartao   = "cartao"
)

// Comanda is an open tab for one customer during a visit.
// Consumption and balance are always derived from Itens/Pagamentos —
// never stored.
type Comanda struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero    int       `gorm:"uniqueIndex;not null"`
	ClienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	Estado    string    `gorm:"type:varchar(20);not null;default:'aberta'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente    *Cliente           `gorm:"foreignKey:ClienteID"`
	Itens      []ComandaItem      `gorm:"foreignKey:ComandaID"`
	Pagamentos []ComandaPagamento `gorm:"foreignKey:ComandaID"`
}

// ComandaItem is one consumption line. PrecoVenda is snapshotted from the
// product at the moment the item is added; later catalog price changes must
// never alter past charges.
type ComandaItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComandaID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantidade int             `gorm:"not null"`
	PrecoVenda decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

// ComandaPagamento is an insertion-ordered payment against a comanda.
type ComandaPagamento struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComandaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Metodo    string          `gorm:"type:varchar(20);not null"`
	Valor     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}
