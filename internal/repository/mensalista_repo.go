package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
)

type MensalistaRepository interface {
	CreateConta(ctx context.Context, conta *model.ContaMensal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ContaMensal, error)
	FindByClienteID(ctx context.Context, clienteID uuid.UUID) (*model.ContaMensal, error)
	ListAll(ctx context.Context) ([]model.ContaMensal, error)
	Update(ctx context.Context, conta *model.ContaMensal) error

	// SaveTx persists the aggregate — new items/payments and the account's
	// cycle fields — inside the caller's transaction so the ledger mutation
	// and its stock side effect land atomically.
	SaveTx(tx *gorm.DB, conta *model.ContaMensal) error

	DB() *gorm.DB
}

type mensalistaRepo struct{ db *gorm.DB }

func NewMensalistaRepository(db *gorm.DB) MensalistaRepository { return &mensalistaRepo{db: db} }

func (r *mensalistaRepo) DB() *gorm.DB { return r.db }

func (r *mensalistaRepo) CreateConta(ctx context.Context, conta *model.ContaMensal) error {
	return r.db.WithContext(ctx).Create(conta).Error
}

func (r *mensalistaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ContaMensal, error) {
	var conta model.ContaMensal
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Itens.Produto").
		Preload("Pagamentos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&conta, id).Error
	return &conta, err
}

func (r *mensalistaRepo) FindByClienteID(ctx context.Context, clienteID uuid.UUID) (*model.ContaMensal, error) {
	var conta model.ContaMensal
	err := r.db.WithContext(ctx).
		Preload("Cliente").Preload("Itens").Preload("Pagamentos").
		Where("cliente_id = ?", clienteID).
		First(&conta).Error
	return &conta, err
}

func (r *mensalistaRepo) ListAll(ctx context.Context) ([]model.ContaMensal, error) {
	var contas []model.ContaMensal
	err := r.db.WithContext(ctx).
		Preload("Cliente").Preload("Itens").Preload("Pagamentos").
		Order("created_at ASC").
		Find(&contas).Error
	return contas, err
}

func (r *mensalistaRepo) Update(ctx context.Context, conta *model.ContaMensal) error {
	return r.db.WithContext(ctx).Save(conta).Error
}

func (r *mensalistaRepo) SaveTx(tx *gorm.DB, conta *model.ContaMensal) error {
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(conta).Error
}
