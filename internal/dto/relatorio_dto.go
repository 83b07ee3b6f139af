package dto

import "github.com/shopspring/decimal"

// ResumoDiarioResponse aggregates the day's movement: closed tabs, totals
// per payment method, and monthly-account consumption.
type ResumoDiarioResponse struct {
	Data              string                     `json:"data"` // YYYY-MM-DD
	ComandasFechadas  int64                      `json:"comandas_fechadas"`
	TotalVendido      decimal.Decimal            `json:"total_vendido"`
	TotaisPorMetodo   map[string]decimal.Decimal `json:"totais_por_metodo"`
	ConsumoMensalista decimal.Decimal            `json:"consumo_mensalista"`
}

// AlertaEstoqueResponse flags products at or below their minimum stock.
type AlertaEstoqueResponse struct {
	ProdutoID     string `json:"produto_id"`
	Nome          string `json:"nome"`
	EstoqueAtual  int    `json:"estoque_atual"`
	EstoqueMinimo int    `json:"estoque_minimo"`
}

// InadimplenteResponse is one overdue monthly account in the collection list.
type InadimplenteResponse struct {
	ContaID     string          `json:"conta_id"`
	Cliente     string          `json:"cliente"`
	Telefone    *string         `json:"telefone,omitempty"`
	Saldo       decimal.Decimal `json:"saldo"`
	DiasCiclo   int             `json:"dias_ciclo"`
	Bloqueada   bool            `json:"bloqueada"`
	Desbloqueou bool            `json:"desbloqueou"`
}
