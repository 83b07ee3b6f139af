package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
)

// EstoqueRepository persists the immutable stock-movement ledger.
type EstoqueRepository interface {
	CreateMovimento(ctx context.Context, m *model.MovimentoEstoque) error
	CreateMovimentoTx(tx *gorm.DB, m *model.MovimentoEstoque) error
	ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error)
	ListRecentes(ctx context.Context, limit int) ([]model.MovimentoEstoque, error)
}

type estoqueRepo struct{ db *gorm.DB }

func NewEstoqueRepository(db *gorm.DB) EstoqueRepository { return &estoqueRepo{db: db} }

func (r *estoqueRepo) CreateMovimento(ctx context.Context, m *model.MovimentoEstoque) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *estoqueRepo) CreateMovimentoTx(tx *gorm.DB, m *model.MovimentoEstoque) error {
	return tx.Create(m).Error
}

func (r *estoqueRepo) ListByProduto(ctx context.Context, produtoID uuid.UUID, limit int) ([]model.MovimentoEstoque, error) {
	var movs []model.MovimentoEstoque
	err := r.db.WithContext(ctx).
		Where("produto_id = ?", produtoID).
		Order("created_at DESC").Limit(limit).
		Find(&movs).Error
	return movs, err
}

func (r *estoqueRepo) ListRecentes(ctx context.Context, limit int) ([]model.MovimentoEstoque, error) {
	var movs []model.MovimentoEstoque
	err := r.db.WithContext(ctx).
		Preload("Produto").
		Order("created_at DESC").Limit(limit).
		Find(&movs).Error
	return movs, err
}
