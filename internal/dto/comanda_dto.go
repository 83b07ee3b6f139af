package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AbrirComandaRequest opens a tab with at least one item (sale flow).
type AbrirComandaRequest struct {
	ClienteID string              `json:"cliente_id" validate:"required,uuid"`
	Itens     []ItemComandaRequest `json:"itens"     validate:"required,min=1,dive"`
}

type ItemComandaRequest struct {
	ProdutoID string `json:"produto_id" validate:"required,uuid"`
}

type PagamentoRequest struct {
	Metodo string          `json:"metodo" validate:"required,oneof=pix dinheiro cartao"`
	Valor  decimal.Decimal `json:"valor"  validate:"required"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// ComandaFilter is bound from query string of GET /v1/comandas.
type ComandaFilter struct {
	Estado string `form:"estado,default=aberta"` // aberta | fechada | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemComandaResponse struct {
	Produto    string          `json:"produto"`
	Quantidade int             `json:"quantidade"`
	PrecoVenda decimal.Decimal `json:"preco_venda"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

type ComandaResponse struct {
	ID         string                `json:"id"`
	Numero     int                   `json:"numero"`
	ClienteID  string                `json:"cliente_id"`
	Cliente    string                `json:"cliente"`
	Itens      []ItemComandaResponse `json:"itens"`
	Pagamentos []PagamentoRequest    `json:"pagamentos"`
	Consumo    decimal.Decimal       `json:"consumo"`
	TotalPago  decimal.Decimal       `json:"total_pago"`
	Saldo      decimal.Decimal       `json:"saldo"`
	Estado     string                `json:"estado"`
	CreatedAt  string                `json:"created_at"`
}

type ComandaListResponse struct {
	Data  []ComandaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
