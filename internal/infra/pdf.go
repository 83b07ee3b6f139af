package infra

// pdf.go — monthly statement generation using go-pdf/fpdf.
// Produces an A5 extrato with the charge table, payments received and the
// current saldo, saved to storagePath/extrato_{conta}_{ciclo}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/ledger"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
)

// GerarExtratoPDF renders the current cycle of a conta mensal.
// Returns the absolute path to the generated file.
func GerarExtratoPDF(conta *model.ContaMensal, storagePath, nomeBar string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("extrato_%s_%s.pdf", conta.ID, conta.InicioCiclo.Format("20060102"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, nomeBar, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Extrato de Conta Mensal", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	cliente := ""
	if conta.Cliente != nil {
		cliente = conta.Cliente.Nome
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, cliente, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Ciclo iniciado em "+conta.InicioCiclo.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Charges ──────────────────────────────────────────────────────────────
	col1 := contentW * 0.46
	col2 := contentW * 0.14
	col3 := contentW * 0.20
	col4 := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Preco", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range conta.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		if len(nome) > 28 {
			nome = nome[:27] + "…"
		}
		subtotal := item.PrecoVenda.Mul(decimal.NewFromInt(int64(item.Quantidade)))
		pdf.CellFormat(col1, 5, nome, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+item.PrecoVenda.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "R$ "+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Payments ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, pagamento := range conta.Pagamentos {
		label := fmt.Sprintf("Pagamento (%s) em %s:", pagamento.Metodo, pagamento.CreatedAt.Format("02/01"))
		pdf.CellFormat(col1+col2+col3, 4, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 4, "-R$ "+pagamento.Valor.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Saldo ────────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2+col3, 6, "SALDO DEVEDOR:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, "R$ "+ledger.SaldoConta(conta).StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Obrigado pela preferencia!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
