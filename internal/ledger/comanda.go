package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
)

// Consumo returns the total charged on the comanda: Σ quantidade × preço
// snapshot. Pure; later catalog price changes never affect it because each
// item carries the price at the moment it was added.
func Consumo(c *model.Comanda) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Itens {
		total = total.Add(item.PrecoVenda.Mul(decimal.NewFromInt(int64(item.Quantidade))))
	}
	return total
}

// TotalPago returns the sum of all payments on the comanda.
func TotalPago(c *model.Comanda) decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Pagamentos {
		total = total.Add(p.Valor)
	}
	return total
}

// Saldo is consumo − pago. It can go negative transiently on overpayment;
// keeping a single payment ≤ saldo is the caller's responsibility — the
// ledger reports whatever balance results.
func Saldo(c *model.Comanda) decimal.Decimal {
	return Consumo(c).Sub(TotalPago(c))
}

// AdicionarItem appends one unit of the product with its price snapshotted.
// Rejected when the product is inactive or out of stock. On success the
// caller must decrement product stock by one (EstoqueDelta = -1) in the same
// transaction as the append.
func AdicionarItem(c *model.Comanda, p *model.Produto, now time.Time) Resultado {
	if !p.Ativo {
		return rejeitado(MotivoProdutoInativo)
	}
	if p.EstoqueAtual <= 0 {
		return rejeitado(MotivoSemEstoque)
	}
	c.Itens = append(c.Itens, model.ComandaItem{
		ComandaID:  c.ID,
		ProdutoID:  p.ID,
		Quantidade: 1,
		PrecoVenda: p.PrecoVenda,
		CreatedAt:  now,
	})
	return aplicado(-1)
}

// RemoverItem removes the item at the given index and signals the caller to
// restore its quantity to product stock. Rejected on an out-of-range index.
func RemoverItem(c *model.Comanda, indice int) Resultado {
	if indice < 0 || indice >= len(c.Itens) {
		return rejeitado(MotivoItemInexistente)
	}
	devolucao := c.Itens[indice].Quantidade
	c.Itens = append(c.Itens[:indice], c.Itens[indice+1:]...)
	return aplicado(devolucao)
}

// RegistrarPagamento appends a payment and closes the comanda once total
// paid covers total consumed. An unsettled comanda keeps its current estado
// — the ledger never forces it back to aberta here.
func RegistrarPagamento(c *model.Comanda, valor decimal.Decimal, metodo string, now time.Time) Resultado {
	if !valor.IsPositive() {
		return rejeitado(MotivoValorInvalido)
	}
	c.Pagamentos = append(c.Pagamentos, model.ComandaPagamento{
		ComandaID: c.ID,
		Metodo:    metodo,
		Valor:     valor,
		CreatedAt: now,
	})
	if TotalPago(c).GreaterThanOrEqual(Consumo(c)) {
		c.Estado = model.ComandaFechada
	}
	return aplicado(0)
}

// RemoverUltimoPagamento removes the most recent payment. This is the only
// operation that can reopen a closed comanda: if the remaining payments no
// longer cover consumption the estado reverts to aberta, otherwise it stays
// fechada. The admin-only gate lives in the router, not here.
func RemoverUltimoPagamento(c *model.Comanda) Resultado {
	if len(c.Pagamentos) == 0 {
		return rejeitado(MotivoSemPagamentos)
	}
	c.Pagamentos = c.Pagamentos[:len(c.Pagamentos)-1]
	if TotalPago(c).GreaterThanOrEqual(Consumo(c)) {
		c.Estado = model.ComandaFechada
	} else {
		c.Estado = model.ComandaAberta
	}
	return aplicado(0)
}

// Fechar transitions the comanda to fechada unconditionally. Callers invoke
// it once saldo ≤ 0.
func Fechar(c *model.Comanda) {
	c.Estado = model.ComandaFechada
}
