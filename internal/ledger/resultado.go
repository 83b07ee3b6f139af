// Package ledger implements the two billing cores of the bar: the comanda
// (open tab) ledger and the conta mensal (monthly account) credit engine.
//
// Every function here is pure computation plus in-memory mutation of the
// aggregate it receives. Nothing touches the database, the clock, or the
// product catalog: time is threaded in as an explicit parameter and stock
// side effects are reported back as deltas for the caller to apply
// atomically with the mutation.
package ledger

// Motivo names the business reason a mutating operation was not applied.
type Motivo string

const (
	MotivoProdutoInativo     Motivo = "produto_inativo"
	MotivoSemEstoque         Motivo = "sem_estoque"
	MotivoItemInexistente    Motivo = "item_inexistente"
	MotivoSemPagamentos      Motivo = "sem_pagamentos"
	MotivoValorInvalido      Motivo = "valor_invalido"
	MotivoQuantidadeInvalida Motivo = "quantidade_invalida"
	MotivoContaBloqueada     Motivo = "conta_bloqueada"
	MotivoLimiteExcedido     Motivo = "limite_excedido"
)

// Resultado is the outcome of a mutating ledger operation. Rejections are
// ordinary data, never errors: nothing in this package is fatal.
//
// EstoqueDelta is the stock adjustment the caller must apply to the product
// together with the mutation (negative = decrement). The aggregate mutation
// and the stock change must land atomically — both or neither.
type Resultado struct {
	Aplicado     bool
	Motivo       Motivo
	EstoqueDelta int
}

func aplicado(estoqueDelta int) Resultado {
	return Resultado{Aplicado: true, EstoqueDelta: estoqueDelta}
}

func rejeitado(m Motivo) Resultado {
	return Resultado{Motivo: m}
}
