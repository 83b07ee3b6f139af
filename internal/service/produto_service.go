package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
)

// InvalidadorPreco drops a cached barcode price after catalog writes.
// A nil implementation is valid and means no cache is in play.
type InvalidadorPreco interface {
	Invalidar(ctx context.Context, codigoBarras string)
}

type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error
	AjustarEstoque(ctx context.Context, id uuid.UUID, req dto.AjustarEstoqueRequest) (*dto.ProdutoResponse, error)
	Movimentos(ctx context.Context, produtoID uuid.UUID, limit int) ([]dto.MovimentoEstoqueResponse, error)
}

type produtoService struct {
	repo        repository.ProdutoRepository
	estoqueRepo repository.EstoqueRepository
	cache       InvalidadorPreco
}

func NewProdutoService(repo repository.ProdutoRepository, estoqueRepo repository.EstoqueRepository, cache InvalidadorPreco) ProdutoService {
	return &produtoService{repo: repo, estoqueRepo: estoqueRepo, cache: cache}
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if !req.PrecoVenda.IsPositive() {
		return nil, errors.New("preco de venda deve ser maior que zero")
	}
	if req.CodigoBarras != nil {
		if existente, err := s.repo.FindByBarcode(ctx, *req.CodigoBarras); err == nil && existente != nil {
			return nil, fmt.Errorf("codigo de barras %s ja cadastrado", *req.CodigoBarras)
		}
	}
	p := &model.Produto{
		ID:            uuid.New(),
		CodigoBarras:  req.CodigoBarras,
		Nome:          req.Nome,
		Categoria:     req.Categoria,
		PrecoCusto:    req.PrecoCusto,
		PrecoVenda:    req.PrecoVenda,
		EstoqueAtual:  req.EstoqueAtual,
		EstoqueMinimo: req.EstoqueMinimo,
		Fracionado:    req.Fracionado,
		Ativo:         true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) Obter(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	produtos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		data = append(data, *produtoToResponse(&produtos[i]))
	}
	return &dto.ProdutoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	if req.Nome != "" {
		p.Nome = req.Nome
	}
	if req.Categoria != "" {
		p.Categoria = req.Categoria
	}
	if req.PrecoCusto != nil {
		p.PrecoCusto = *req.PrecoCusto
	}
	if req.PrecoVenda != nil {
		if !req.PrecoVenda.IsPositive() {
			return nil, errors.New("preco de venda deve ser maior que zero")
		}
		p.PrecoVenda = *req.PrecoVenda
	}
	if req.EstoqueMinimo != nil {
		p.EstoqueMinimo = *req.EstoqueMinimo
	}
	if req.Fracionado != nil {
		p.Fracionado = *req.Fracionado
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidar(ctx, p)
	return produtoToResponse(p), nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("produto nao encontrado")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidar(ctx, p)
	return nil
}

func (s *produtoService) Reativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("produto nao encontrado")
	}
	return s.repo.Reactivate(ctx, id)
}

// AjustarEstoque applies a manual delta and records it in the movement
// ledger. Negative adjustments may not take stock below zero.
func (s *produtoService) AjustarEstoque(ctx context.Context, id uuid.UUID, req dto.AjustarEstoqueRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	if p.EstoqueAtual+req.Delta < 0 {
		return nil, fmt.Errorf("ajuste deixaria o estoque negativo (atual %d, delta %d)", p.EstoqueAtual, req.Delta)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AjustarEstoqueTx(tx, id, req.Delta); err != nil {
			return err
		}
		return s.estoqueRepo.CreateMovimentoTx(tx, &model.MovimentoEstoque{
			ProdutoID:       id,
			Tipo:            "ajuste_manual",
			Quantidade:      req.Delta,
			EstoqueAnterior: p.EstoqueAtual,
			EstoqueNovo:     p.EstoqueAtual + req.Delta,
			Motivo:          req.Motivo,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	p.EstoqueAtual += req.Delta
	s.invalidar(ctx, p)
	return produtoToResponse(p), nil
}

func (s *produtoService) Movimentos(ctx context.Context, produtoID uuid.UUID, limit int) ([]dto.MovimentoEstoqueResponse, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	movimentos, err := s.estoqueRepo.ListByProduto(ctx, produtoID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimentoEstoqueResponse, 0, len(movimentos))
	for _, m := range movimentos {
		out = append(out, movimentoToResponse(&m))
	}
	return out, nil
}

func (s *produtoService) invalidar(ctx context.Context, p *model.Produto) {
	if s.cache == nil || p.CodigoBarras == nil {
		return
	}
	s.cache.Invalidar(ctx, *p.CodigoBarras)
	log.Debug().Str("codigo_barras", *p.CodigoBarras).Msg("cache de preco invalidado")
}

func produtoToResponse(p *model.Produto) *dto.ProdutoResponse {
	return &dto.ProdutoResponse{
		ID:            p.ID.String(),
		CodigoBarras:  p.CodigoBarras,
		Nome:          p.Nome,
		Categoria:     p.Categoria,
		PrecoCusto:    p.PrecoCusto,
		PrecoVenda:    p.PrecoVenda,
		EstoqueAtual:  p.EstoqueAtual,
		EstoqueMinimo: p.EstoqueMinimo,
		Fracionado:    p.Fracionado,
		Ativo:         p.Ativo,
	}
}

func movimentoToResponse(m *model.MovimentoEstoque) dto.MovimentoEstoqueResponse {
	var ref *string
	if m.ReferenciaID != nil {
		v := m.ReferenciaID.String()
		ref = &v
	}
	nome := ""
	if m.Produto != nil {
		nome = m.Produto.Nome
	}
	return dto.MovimentoEstoqueResponse{
		ID:              m.ID.String(),
		ProdutoID:       m.ProdutoID.String(),
		Produto:         nome,
		Tipo:            m.Tipo,
		Quantidade:      m.Quantidade,
		EstoqueAnterior: m.EstoqueAnterior,
		EstoqueNovo:     m.EstoqueNovo,
		Motivo:          m.Motivo,
		ReferenciaID:    ref,
		CreatedAt:       m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
