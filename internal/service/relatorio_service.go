package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/ledger"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
)

type RelatorioService interface {
	ResumoDiario(ctx context.Context, dia time.Time) (*dto.ResumoDiarioResponse, error)
	AlertasEstoque(ctx context.Context) ([]dto.AlertaEstoqueResponse, error)
	Inadimplentes(ctx context.Context) ([]dto.InadimplenteResponse, error)
}

type relatorioService struct {
	comandaRepo    repository.ComandaRepository
	mensalistaRepo repository.MensalistaRepository
	produtoRepo    repository.ProdutoRepository
	now            Clock
}

func NewRelatorioService(
	comandaRepo repository.ComandaRepository,
	mensalistaRepo repository.MensalistaRepository,
	produtoRepo repository.ProdutoRepository,
	now Clock,
) RelatorioService {
	return &relatorioService{
		comandaRepo:    comandaRepo,
		mensalistaRepo: mensalistaRepo,
		produtoRepo:    produtoRepo,
		now:            now,
	}
}

// ResumoDiario totals the comandas closed on the given day plus the
// mensalista charges of that day. Totals per method come from payments,
// so partial payments with mixed methods are split correctly.
func (s *relatorioService) ResumoDiario(ctx context.Context, dia time.Time) (*dto.ResumoDiarioResponse, error) {
	comandas, err := s.comandaRepo.ListFechadasNoDia(ctx, dia)
	if err != nil {
		return nil, err
	}

	totalVendido := decimal.Zero
	porMetodo := map[string]decimal.Decimal{
		model.MetodoPix:      decimal.Zero,
		model.MetodoDinheiro: decimal.Zero,
		model.MetodoCartao:   decimal.Zero,
	}
	for i := range comandas {
		totalVendido = totalVendido.Add(ledger.Consumo(&comandas[i]))
		for _, p := range comandas[i].Pagamentos {
			porMetodo[p.Metodo] = porMetodo[p.Metodo].Add(p.Valor)
		}
	}

	inicio := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	fim := inicio.Add(24 * time.Hour)
	consumoMensal := decimal.Zero
	contas, err := s.mensalistaRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range contas {
		for _, item := range contas[i].Itens {
			if item.CreatedAt.Before(inicio) || !item.CreatedAt.Before(fim) {
				continue
			}
			consumoMensal = consumoMensal.Add(item.PrecoVenda.Mul(decimalFromInt(item.Quantidade)))
		}
	}

	return &dto.ResumoDiarioResponse{
		Data:              inicio.Format("2006-01-02"),
		ComandasFechadas:  int64(len(comandas)),
		TotalVendido:      totalVendido.Round(2),
		TotaisPorMetodo:   porMetodo,
		ConsumoMensalista: consumoMensal.Round(2),
	}, nil
}

func (s *relatorioService) AlertasEstoque(ctx context.Context) ([]dto.AlertaEstoqueResponse, error) {
	produtos, err := s.produtoRepo.ListEstoqueBaixo(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaEstoqueResponse, 0, len(produtos))
	for _, p := range produtos {
		alertas = append(alertas, dto.AlertaEstoqueResponse{
			ProdutoID:     p.ID.String(),
			Nome:          p.Nome,
			EstoqueAtual:  p.EstoqueAtual,
			EstoqueMinimo: p.EstoqueMinimo,
		})
	}
	return alertas, nil
}

// Inadimplentes lists every conta mensal currently overdue with a positive
// balance, for the collection call list.
func (s *relatorioService) Inadimplentes(ctx context.Context) ([]dto.InadimplenteResponse, error) {
	contas, err := s.mensalistaRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]dto.InadimplenteResponse, 0)
	for i := range contas {
		conta := &contas[i]
		saldo := ledger.SaldoConta(conta)
		if !saldo.IsPositive() || !ledger.EmAtraso(conta, now) {
			continue
		}
		nome := ""
		var telefone *string
		if conta.Cliente != nil {
			nome = conta.Cliente.Nome
			telefone = conta.Cliente.Telefone
		}
		out = append(out, dto.InadimplenteResponse{
			ContaID:     conta.ID.String(),
			Cliente:     nome,
			Telefone:    telefone,
			Saldo:       saldo,
			DiasCiclo:   ledger.DiasDesdeInicioCiclo(conta, now),
			Bloqueada:   ledger.Bloqueada(conta, now),
			Desbloqueou: conta.AtrasoDesbloqueado,
		})
	}
	return out, nil
}
