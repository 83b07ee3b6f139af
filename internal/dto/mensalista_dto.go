package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarContaMensalRequest struct {
	ClienteID string          `json:"cliente_id" validate:"required,uuid"`
	Limite    decimal.Decimal `json:"limite"     validate:"required"`
}

type AtualizarLimiteRequest struct {
	Limite decimal.Decimal `json:"limite" validate:"required"`
}

type LancarConsumoRequest struct {
	ProdutoID  string `json:"produto_id" validate:"required,uuid"`
	Quantidade int    `json:"quantidade" validate:"required,min=1"`
}

type PagamentoMensalRequest struct {
	Metodo string          `json:"metodo" validate:"required,oneof=pix dinheiro cartao"`
	Valor  decimal.Decimal `json:"valor"  validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ContaMensalResponse exposes the account plus every derived billing field
// the front end needs; saldo/limite/bloqueio are computed, never stored.
type ContaMensalResponse struct {
	ID                 string          `json:"id"`
	ClienteID          string          `json:"cliente_id"`
	Cliente            string          `json:"cliente"`
	Limite             decimal.Decimal `json:"limite"`
	Saldo              decimal.Decimal `json:"saldo"`
	LimiteDisponivel   decimal.Decimal `json:"limite_disponivel"`
	InicioCiclo        string          `json:"inicio_ciclo"`
	DiasCiclo          int             `json:"dias_ciclo"`
	EmAtraso           bool            `json:"em_atraso"`
	Bloqueada          bool            `json:"bloqueada"`
	AtrasoDesbloqueado bool            `json:"atraso_desbloqueado"`
}

type ItemMensalResponse struct {
	Produto    string          `json:"produto"`
	Quantidade int             `json:"quantidade"`
	PrecoVenda decimal.Decimal `json:"preco_venda"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CreatedAt  string          `json:"created_at"`
}

type PagamentoMensalResponse struct {
	Valor               decimal.Decimal `json:"valor"`
	Metodo              string          `json:"metodo"`
	DesbloqueioAplicado bool            `json:"desbloqueio_aplicado"`
	CreatedAt           string          `json:"created_at"`
}

// ExtratoResponse is the full statement of the current cycle.
type ExtratoResponse struct {
	Conta      ContaMensalResponse       `json:"conta"`
	Itens      []ItemMensalResponse      `json:"itens"`
	Pagamentos []PagamentoMensalResponse `json:"pagamentos"`
}

type ContaMensalListResponse struct {
	Data  []ContaMensalResponse `json:"data"`
	Total int64                 `json:"total"`
}
