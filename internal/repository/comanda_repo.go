package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
)

type ComandaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Comanda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comanda, error)
	List(ctx context.Context, filter dto.ComandaFilter) ([]model.Comanda, int64, error)
	// ListFechadasNoDia returns every comanda closed within the given
	// calendar day, payments preloaded (daily report).
	ListFechadasNoDia(ctx context.Context, dia time.Time) ([]model.Comanda, error)
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)

	// Save persists the aggregate (items/payments included) inside tx.
	SaveTx(tx *gorm.DB, c *model.Comanda) error
	DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error
	DeletePagamentoTx(tx *gorm.DB, pagamentoID uuid.UUID) error

	DB() *gorm.DB
}

type comandaRepo struct{ db *gorm.DB }

func NewComandaRepository(db *gorm.DB) ComandaRepository { return &comandaRepo{db: db} }

func (r *comandaRepo) DB() *gorm.DB { return r.db }

func (r *comandaRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Comanda) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *comandaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Comanda, error) {
	var c model.Comanda
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Itens.Produto").
		Preload("Pagamentos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&c, id).Error
	return &c, err
}

func (r *comandaRepo) List(ctx context.Context, filter dto.ComandaFilter) ([]model.Comanda, int64, error) {
	var comandas []model.Comanda
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Comanda{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Cliente").Preload("Itens.Produto").Preload("Pagamentos").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&comandas).Error
	return comandas, total, err
}

func (r *comandaRepo) ListFechadasNoDia(ctx context.Context, dia time.Time) ([]model.Comanda, error) {
	inicio := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	fim := inicio.Add(24 * time.Hour)
	var comandas []model.Comanda
	err := r.db.WithContext(ctx).
		Preload("Itens").Preload("Pagamentos").
		Where("estado = ? AND updated_at >= ? AND updated_at < ?", model.ComandaFechada, inicio, fim).
		Find(&comandas).Error
	return comandas, err
}

func (r *comandaRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence keeps numbering atomic across concurrent opens.
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('comandas_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *comandaRepo) SaveTx(tx *gorm.DB, c *model.Comanda) error {
	return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(c).Error
}

func (r *comandaRepo) DeleteItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.ComandaItem{}, itemID).Error
}

func (r *comandaRepo) DeletePagamentoTx(tx *gorm.DB, pagamentoID uuid.UUID) error {
	return tx.Delete(&model.ComandaPagamento{}, pagamentoID).Error
}
