package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/ledger"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
)

type ComandaService interface {
	Abrir(ctx context.Context, req dto.AbrirComandaRequest) (*dto.ComandaResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.ComandaResponse, error)
	Listar(ctx context.Context, filter dto.ComandaFilter) (*dto.ComandaListResponse, error)
	AdicionarItem(ctx context.Context, comandaID, produtoID uuid.UUID) (*dto.ComandaResponse, error)
	RemoverItem(ctx context.Context, comandaID uuid.UUID, indice int) (*dto.ComandaResponse, error)
	RegistrarPagamento(ctx context.Context, comandaID uuid.UUID, req dto.PagamentoRequest) (*dto.ComandaResponse, error)
	RemoverUltimoPagamento(ctx context.Context, comandaID uuid.UUID) (*dto.ComandaResponse, error)
	Fechar(ctx context.Context, comandaID uuid.UUID) (*dto.ComandaResponse, error)
}

type comandaService struct {
	repo        repository.ComandaRepository
	produtoRepo repository.ProdutoRepository
	estoqueRepo repository.EstoqueRepository
	clienteRepo repository.ClienteRepository
	now         Clock
}

func NewComandaService(
	repo repository.ComandaRepository,
	produtoRepo repository.ProdutoRepository,
	estoqueRepo repository.EstoqueRepository,
	clienteRepo repository.ClienteRepository,
	now Clock,
) ComandaService {
	return &comandaService{
		repo:        repo,
		produtoRepo: produtoRepo,
		estoqueRepo: estoqueRepo,
		clienteRepo: clienteRepo,
		now:         now,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// Opens a tab with its first items. Item appends and the matching stock
// decrements land in one transaction — both happen or neither.

func (s *comandaService) Abrir(ctx context.Context, req dto.AbrirComandaRequest) (*dto.ComandaResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id invalido: %w", err)
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil || !cliente.Ativo {
		return nil, errors.New("cliente nao encontrado ou inativo")
	}

	comanda := &model.Comanda{
		ID:        uuid.New(),
		ClienteID: clienteID,
		Estado:    model.ComandaAberta,
		CreatedAt: s.now(),
	}

	// Resolve products and run the ledger guards before touching the DB.
	type abertura struct {
		produto *model.Produto
		delta   int
	}
	var aberturas []abertura
	for _, item := range req.Itens {
		pid, err := uuid.Parse(item.ProdutoID)
		if err != nil {
			return nil, fmt.Errorf("produto_id invalido: %w", err)
		}
		p, err := s.produtoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("produto %s nao encontrado", item.ProdutoID)
		}
		res := ledger.AdicionarItem(comanda, p, s.now())
		if !res.Aplicado {
			return nil, rejeicao(res)
		}
		aberturas = append(aberturas, abertura{produto: p, delta: res.EstoqueDelta})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		comanda.Numero = numero
		if err := s.repo.Create(ctx, tx, comanda); err != nil {
			return err
		}
		for _, a := range aberturas {
			if err := s.aplicarEstoque(tx, a.produto.ID, a.delta, "venda",
				fmt.Sprintf("Comanda #%d", numero), comanda.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	comanda.Cliente = cliente
	return comandaToResponse(comanda), nil
}

// ── AdicionarItem ─────────────────────────────────────────────────────────────

func (s *comandaService) AdicionarItem(ctx context.Context, comandaID, produtoID uuid.UUID) (*dto.ComandaResponse, error) {
	comanda, err := s.repo.FindByID(ctx, comandaID)
	if err != nil {
		return nil, errors.New("comanda nao encontrada")
	}
	if comanda.Estado == model.ComandaFechada {
		return nil, errors.New("comanda ja esta fechada")
	}
	p, err := s.produtoRepo.FindByID(ctx, produtoID)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}

	res := ledger.AdicionarItem(comanda, p, s.now())
	if !res.Aplicado {
		return nil, rejeicao(res)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SaveTx(tx, comanda); err != nil {
			return err
		}
		return s.aplicarEstoque(tx, p.ID, res.EstoqueDelta, "venda",
			fmt.Sprintf("Comanda #%d", comanda.Numero), comanda.ID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return comandaToResponse(comanda), nil
}

// ── RemoverItem ───────────────────────────────────────────────────────────────

func (s *comandaService) RemoverItem(ctx context.Context, comandaID uuid.UUID, indice int) (*dto.ComandaResponse, error) {
	comanda, err := s.repo.FindByID(ctx, comandaID)
	if err != nil {
		return nil, errors.New("comanda nao encontrada")
	}
	if comanda.Estado == model.ComandaFechada {
		return nil, errors.New("comanda ja esta fechada")
	}

	var removido model.ComandaItem
	if indice >= 0 && indice < len(comanda.Itens) {
		removido = comanda.Itens[indice]
	}
	res := ledger.RemoverItem(comanda, indice)
	if !res.Aplicado {
		return nil, rejeicao(res)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeleteItemTx(tx, removido.ID); err != nil {
			return err
		}
		return s.aplicarEstoque(tx, removido.ProdutoID, res.EstoqueDelta, "estorno",
			fmt.Sprintf("Item removido da comanda #%d", comanda.Numero), comanda.ID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return comandaToResponse(comanda), nil
}

// ── Pagamentos ────────────────────────────────────────────────────────────────

func (s *comandaService) RegistrarPagamento(ctx context.Context, comandaID uuid.UUID, req dto.PagamentoRequest) (*dto.ComandaResponse, error) {
	comanda, err := s.repo.FindByID(ctx, comandaID)
	if err != nil {
		return nil, errors.New("comanda nao encontrada")
	}

	res := ledger.RegistrarPagamento(comanda, req.Valor, req.Metodo, s.now())
	if !res.Aplicado {
		return nil, rejeicao(res)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.SaveTx(tx, comanda)
	})
	if txErr != nil {
		return nil, txErr
	}
	return comandaToResponse(comanda), nil
}

// RemoverUltimoPagamento undoes the most recent payment. The admin-only gate
// is enforced at the route level; here the removal is simply performed.
func (s *comandaService) RemoverUltimoPagamento(ctx context.Context, comandaID uuid.UUID) (*dto.ComandaResponse, error) {
	comanda, err := s.repo.FindByID(ctx, comandaID)
	if err != nil {
		return nil, errors.New("comanda nao encontrada")
	}

	var removido model.ComandaPagamento
	if len(comanda.Pagamentos) > 0 {
		removido = comanda.Pagamentos[len(comanda.Pagamentos)-1]
	}
	res := ledger.RemoverUltimoPagamento(comanda)
	if !res.Aplicado {
		return nil, rejeicao(res)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DeletePagamentoTx(tx, removido.ID); err != nil {
			return err
		}
		return s.repo.SaveTx(tx, comanda)
	})
	if txErr != nil {
		return nil, txErr
	}
	return comandaToResponse(comanda), nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────

func (s *comandaService) Fechar(ctx context.Context, comandaID uuid.UUID) (*dto.ComandaResponse, error) {
	comanda, err := s.repo.FindByID(ctx, comandaID)
	if err != nil {
		return nil, errors.New("comanda nao encontrada")
	}
	if ledger.Saldo(comanda).IsPositive() {
		return nil, errors.New("comanda com saldo pendente nao pode ser fechada")
	}

	ledger.Fechar(comanda)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.SaveTx(tx, comanda)
	})
	if txErr != nil {
		return nil, txErr
	}
	return comandaToResponse(comanda), nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *comandaService) Obter(ctx context.Context, id uuid.UUID) (*dto.ComandaResponse, error) {
	comanda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("comanda nao encontrada")
	}
	return comandaToResponse(comanda), nil
}

func (s *comandaService) Listar(ctx context.Context, filter dto.ComandaFilter) (*dto.ComandaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = model.ComandaAberta
	}
	comandas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ComandaResponse, 0, len(comandas))
	for i := range comandas {
		data = append(data, *comandaToResponse(&comandas[i]))
	}
	return &dto.ComandaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// aplicarEstoque applies a stock delta and records the matching immutable
// movement, both inside the caller's transaction.
func (s *comandaService) aplicarEstoque(tx *gorm.DB, produtoID uuid.UUID, delta int, tipo, motivo string, ref uuid.UUID) error {
	antes := 0
	if p, err := s.produtoRepo.FindByIDTx(tx, produtoID); err == nil && p != nil {
		antes = p.EstoqueAtual
	}
	if err := s.produtoRepo.AjustarEstoqueTx(tx, produtoID, delta); err != nil {
		return err
	}
	refID := ref
	return s.estoqueRepo.CreateMovimentoTx(tx, &model.MovimentoEstoque{
		ProdutoID:       produtoID,
		Tipo:            tipo,
		Quantidade:      delta,
		EstoqueAnterior: antes,
		EstoqueNovo:     antes + delta,
		Motivo:          motivo,
		ReferenciaID:    &refID,
	})
}

func comandaToResponse(c *model.Comanda) *dto.ComandaResponse {
	itens := make([]dto.ItemComandaResponse, 0, len(c.Itens))
	for _, item := range c.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		itens = append(itens, dto.ItemComandaResponse{
			Produto:    nome,
			Quantidade: item.Quantidade,
			PrecoVenda: item.PrecoVenda,
			Subtotal:   item.PrecoVenda.Mul(decimalFromInt(item.Quantidade)),
		})
	}
	pagamentos := make([]dto.PagamentoRequest, 0, len(c.Pagamentos))
	for _, p := range c.Pagamentos {
		pagamentos = append(pagamentos, dto.PagamentoRequest{Metodo: p.Metodo, Valor: p.Valor})
	}
	clienteNome := ""
	if c.Cliente != nil {
		clienteNome = c.Cliente.Nome
	}
	return &dto.ComandaResponse{
		ID:         c.ID.String(),
		Numero:     c.Numero,
		ClienteID:  c.ClienteID.String(),
		Cliente:    clienteNome,
		Itens:      itens,
		Pagamentos: pagamentos,
		Consumo:    ledger.Consumo(c),
		TotalPago:  ledger.TotalPago(c),
		Saldo:      ledger.Saldo(c),
		Estado:     c.Estado,
		CreatedAt:  c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
