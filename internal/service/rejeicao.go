package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/ledger"
)

// Rejeicao is returned when a ledger operation was not applied for a
// business reason. Handlers translate it into a 422 with the motivo;
// everything else surfaces as a plain error.
type Rejeicao struct {
	Motivo ledger.Motivo
}

func (r *Rejeicao) Error() string {
	switch r.Motivo {
	case ledger.MotivoProdutoInativo:
		return "produto inativo nao pode ser vendido"
	case ledger.MotivoSemEstoque:
		return "produto sem estoque disponivel"
	case ledger.MotivoItemInexistente:
		return "item nao encontrado na comanda"
	case ledger.MotivoSemPagamentos:
		return "nao ha pagamentos para remover"
	case ledger.MotivoValorInvalido:
		return "valor do pagamento deve ser maior que zero"
	case ledger.MotivoQuantidadeInvalida:
		return "quantidade deve ser maior que zero"
	case ledger.MotivoContaBloqueada:
		return "conta mensal bloqueada por atraso"
	case ledger.MotivoLimiteExcedido:
		return "lancamento excede o limite disponivel"
	default:
		return "operacao rejeitada"
	}
}

func rejeicao(res ledger.Resultado) error {
	return &Rejeicao{Motivo: res.Motivo}
}

// Clock supplies the current time to time-sensitive operations. Production
// wiring passes time.Now; tests pass a fixed instant.
type Clock func() time.Time

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
