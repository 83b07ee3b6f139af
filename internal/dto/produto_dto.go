package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	CodigoBarras *string         `json:"codigo_barras" validate:"omitempty,min=8,max=14"`
	Nome         string          `json:"nome"          validate:"required,min=2"`
	Categoria    string          `json:"categoria"     validate:"required"`
	PrecoCusto   decimal.Decimal `json:"preco_custo"   validate:"min=0"`
	PrecoVenda   decimal.Decimal `json:"preco_venda"   validate:"required"`
	EstoqueAtual int             `json:"estoque_atual" validate:"min=0"`
	EstoqueMinimo int            `json:"estoque_minimo" validate:"min=0"`
	Fracionado   bool            `json:"fracionado"`
}

type AtualizarProdutoRequest struct {
	Nome          string           `json:"nome"`
	Categoria     string           `json:"categoria"`
	PrecoCusto    *decimal.Decimal `json:"preco_custo"`
	PrecoVenda    *decimal.Decimal `json:"preco_venda"`
	EstoqueMinimo *int             `json:"estoque_minimo"`
	Fracionado    *bool            `json:"fracionado"`
}

type AjustarEstoqueRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// ProdutoFilter is bound from query string of GET /v1/produtos.
type ProdutoFilter struct {
	Ativo     string `form:"ativo"` // "false" = inativos, "all" = todos, default ativos
	Nome      string `form:"nome"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID            string          `json:"id"`
	CodigoBarras  *string         `json:"codigo_barras"`
	Nome          string          `json:"nome"`
	Categoria     string          `json:"categoria"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"`
	PrecoVenda    decimal.Decimal `json:"preco_venda"`
	EstoqueAtual  int             `json:"estoque_atual"`
	EstoqueMinimo int             `json:"estoque_minimo"`
	Fracionado    bool            `json:"fracionado"`
	Ativo         bool            `json:"ativo"`
}

type ProdutoListResponse struct {
	Data  []ProdutoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ConsultaPrecoResponse is the cached payload of GET /v1/preco/{barcode}.
type ConsultaPrecoResponse struct {
	Nome              string          `json:"nome"`
	PrecoVenda        decimal.Decimal `json:"preco_venda"`
	EstoqueDisponivel int             `json:"estoque_disponivel"`
	Categoria         string          `json:"categoria"`
}

// MovimentoEstoqueResponse is one row of the immutable stock ledger.
type MovimentoEstoqueResponse struct {
	ID              string  `json:"id"`
	ProdutoID       string  `json:"produto_id"`
	Produto         string  `json:"produto"`
	Tipo            string  `json:"tipo"`
	Quantidade      int     `json:"quantidade"`
	EstoqueAnterior int     `json:"estoque_anterior"`
	EstoqueNovo     int     `json:"estoque_novo"`
	Motivo          string  `json:"motivo"`
	ReferenciaID    *string `json:"referencia_id"`
	CreatedAt       string  `json:"created_at"`
}
