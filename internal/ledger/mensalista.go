package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
)

// PrazoCicloDias is the grace period of a billing cycle. An account whose
// cycle started more than this many whole days ago is em atraso.
const PrazoCicloDias = 28

var (
	// fatorSeguranca shrinks the available limit by 10% while any balance is
	// outstanding. It is credit-risk throttling, not a discount, and it
	// disappears entirely once the account settles.
	fatorSeguranca = decimal.NewFromFloat(0.9)

	// fracaoDesbloqueio: a payment of at least this fraction of the balance
	// at payment time unlocks a blocked account for the rest of the cycle.
	fracaoDesbloqueio = decimal.NewFromFloat(0.5)
)

// SaldoConta returns Σ(item preço × quantidade) − Σ(pagamentos), rounded to
// two decimals half-up at the final step only. Rounding once at the end
// instead of per line avoids drift when many small charges accumulate.
func SaldoConta(conta *model.ContaMensal) decimal.Decimal {
	saldo := decimal.Zero
	for _, item := range conta.Itens {
		saldo = saldo.Add(item.PrecoVenda.Mul(decimal.NewFromInt(int64(item.Quantidade))))
	}
	for _, pg := range conta.Pagamentos {
		saldo = saldo.Sub(pg.Valor)
	}
	return saldo.Round(2)
}

// DiasDesdeInicioCiclo returns whole days elapsed since the cycle started,
// floored. It is a pure function of the now it receives — callers control
// the clock.
func DiasDesdeInicioCiclo(conta *model.ContaMensal, now time.Time) int {
	return int(now.Sub(conta.InicioCiclo).Hours() / 24)
}

// EmAtraso reports whether the current cycle is past its grace period.
func EmAtraso(conta *model.ContaMensal, now time.Time) bool {
	return DiasDesdeInicioCiclo(conta, now) > PrazoCicloDias
}

// Bloqueada reports whether new charges must be refused: outstanding
// balance, overdue cycle, and no unlock payment applied yet. An account with
// saldo ≤ 0 is never blocked regardless of age.
func Bloqueada(conta *model.ContaMensal, now time.Time) bool {
	return SaldoConta(conta).IsPositive() &&
		EmAtraso(conta, now) &&
		!conta.AtrasoDesbloqueado
}

// LimiteDisponivel returns the credit still chargeable. A settled account
// (saldo ≤ 0) has its full limit; otherwise max(0, limite − saldo) × 0.9,
// rounded to two decimals.
func LimiteDisponivel(conta *model.ContaMensal) decimal.Decimal {
	saldo := SaldoConta(conta)
	if !saldo.IsPositive() {
		return conta.Limite
	}
	restante := conta.Limite.Sub(saldo)
	if restante.IsNegative() {
		restante = decimal.Zero
	}
	return restante.Mul(fatorSeguranca).Round(2)
}

// LancarConsumo appends a charge with the product price snapshotted at now.
// The guards live here, not in the calling layer: a blocked account or a
// charge beyond the available limit is rejected before anything mutates.
// On success the caller must decrement product stock by quantidade.
//
// Charges already on the books are never re-validated — an account may carry
// a balance above its limit if the limit was lowered afterwards.
func LancarConsumo(conta *model.ContaMensal, p *model.Produto, quantidade int, now time.Time) Resultado {
	if quantidade < 1 {
		return rejeitado(MotivoQuantidadeInvalida)
	}
	if !p.Ativo {
		return rejeitado(MotivoProdutoInativo)
	}
	if Bloqueada(conta, now) {
		return rejeitado(MotivoContaBloqueada)
	}
	valor := p.PrecoVenda.Mul(decimal.NewFromInt(int64(quantidade)))
	if valor.GreaterThan(LimiteDisponivel(conta)) {
		return rejeitado(MotivoLimiteExcedido)
	}
	conta.Itens = append(conta.Itens, model.ItemMensal{
		ContaID:    conta.ID,
		ProdutoID:  p.ID,
		Quantidade: quantidade,
		PrecoVenda: p.PrecoVenda,
		CreatedAt:  now,
	})
	return aplicado(-quantidade)
}

// RegistrarPagamentoMensal appends a payment, applying the unlock and
// cycle-reset rules:
//
//   - The unlock test runs against the balance as it stood immediately
//     before this payment: DesbloqueioAplicado = conta bloqueada AND
//     valor ≥ saldoAnterior × 0.5. The flag is recorded on the payment and
//     OR-ed into the account's sticky AtrasoDesbloqueado.
//   - If the new balance lands at zero or below, the cycle resets:
//     InicioCiclo = now and AtrasoDesbloqueado = false. A cycle reset is
//     the only way the sticky flag is ever cleared.
func RegistrarPagamentoMensal(conta *model.ContaMensal, valor decimal.Decimal, metodo string, now time.Time) Resultado {
	if !valor.IsPositive() {
		return rejeitado(MotivoValorInvalido)
	}

	saldoAnterior := SaldoConta(conta)
	estavaBloqueada := Bloqueada(conta, now)

	desbloqueio := estavaBloqueada && valor.GreaterThanOrEqual(saldoAnterior.Mul(fracaoDesbloqueio))

	conta.Pagamentos = append(conta.Pagamentos, model.PagamentoMensal{
		ContaID:             conta.ID,
		Valor:               valor,
		Metodo:              metodo,
		DesbloqueioAplicado: desbloqueio,
		CreatedAt:           now,
	})
	conta.AtrasoDesbloqueado = conta.AtrasoDesbloqueado || desbloqueio

	if !SaldoConta(conta).IsPositive() {
		conta.InicioCiclo = now
		conta.AtrasoDesbloqueado = false
	}
	return aplicado(0)
}
