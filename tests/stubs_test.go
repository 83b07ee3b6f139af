package tests

// Shared in-memory repository stubs. Services run with db == nil, so the
// transactional method variants accept a nil *gorm.DB.

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
)

// ── Produtos ──────────────────────────────────────────────────────────────────

type stubProdutoRepo struct {
	produtos map[uuid.UUID]*model.Produto
}

func newStubProdutoRepo() *stubProdutoRepo {
	return &stubProdutoRepo{produtos: make(map[uuid.UUID]*model.Produto)}
}

func (r *stubProdutoRepo) Create(_ context.Context, p *model.Produto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produtos[p.ID] = p
	return nil
}

// FindByID returns a detached copy, like a real row scan would. The map
// entry stays authoritative; only AjustarEstoqueTx/Update write back.
func (r *stubProdutoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produto, error) {
	p, ok := r.produtos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	return &cp, nil
}

func (r *stubProdutoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Produto, error) {
	for _, p := range r.produtos {
		if p.CodigoBarras != nil && *p.CodigoBarras == barcode {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProdutoRepo) List(_ context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		if filter.Nome != "" && !strings.Contains(strings.ToLower(p.Nome), strings.ToLower(filter.Nome)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProdutoRepo) ListEstoqueBaixo(_ context.Context) ([]model.Produto, error) {
	var out []model.Produto
	for _, p := range r.produtos {
		if p.Ativo && p.EstoqueAtual <= p.EstoqueMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProdutoRepo) Update(_ context.Context, p *model.Produto) error {
	r.produtos[p.ID] = p
	return nil
}

func (r *stubProdutoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.produtos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Ativo = false
	return nil
}

func (r *stubProdutoRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.produtos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Ativo = true
	return nil
}

func (r *stubProdutoRepo) AjustarEstoque(_ context.Context, id uuid.UUID, delta int) error {
	return r.AjustarEstoqueTx(nil, id, delta)
}

func (r *stubProdutoRepo) AjustarEstoqueTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.produtos[id]
	if !ok {
		return errors.New("not found")
	}
	p.EstoqueAtual += delta
	return nil
}

func (r *stubProdutoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Produto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProdutoRepo) DB() *gorm.DB { return nil }

var _ repository.ProdutoRepository = (*stubProdutoRepo)(nil)

// ── Movimentos de estoque ─────────────────────────────────────────────────────

type stubEstoqueRepo struct {
	movimentos []model.MovimentoEstoque
}

func (r *stubEstoqueRepo) CreateMovimento(_ context.Context, m *model.MovimentoEstoque) error {
	return r.CreateMovimentoTx(nil, m)
}

func (r *stubEstoqueRepo) CreateMovimentoTx(_ *gorm.DB, m *model.MovimentoEstoque) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimentos = append(r.movimentos, *m)
	return nil
}

func (r *stubEstoqueRepo) ListByProduto(_ context.Context, produtoID uuid.UUID, _ int) ([]model.MovimentoEstoque, error) {
	var out []model.MovimentoEstoque
	for _, m := range r.movimentos {
		if m.ProdutoID == produtoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubEstoqueRepo) ListRecentes(_ context.Context, _ int) ([]model.MovimentoEstoque, error) {
	return r.movimentos, nil
}

var _ repository.EstoqueRepository = (*stubEstoqueRepo)(nil)

// ── Clientes ──────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, incluirInativos bool) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if !incluirInativos && !c.Ativo {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.clientes[id]
	if !ok {
		return errors.New("not found")
	}
	c.Ativo = false
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── Comandas ──────────────────────────────────────────────────────────────────

type stubComandaRepo struct {
	comandas  map[uuid.UUID]*model.Comanda
	numeroSeq int
}

func newStubComandaRepo() *stubComandaRepo {
	return &stubComandaRepo{comandas: make(map[uuid.UUID]*model.Comanda)}
}

func (r *stubComandaRepo) Create(_ context.Context, _ *gorm.DB, c *model.Comanda) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.comandas[c.ID] = c
	return nil
}

func (r *stubComandaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Comanda, error) {
	c, ok := r.comandas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubComandaRepo) List(_ context.Context, filter dto.ComandaFilter) ([]model.Comanda, int64, error) {
	var out []model.Comanda
	for _, c := range r.comandas {
		if filter.Estado != "" && filter.Estado != "all" && c.Estado != filter.Estado {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubComandaRepo) ListFechadasNoDia(_ context.Context, _ time.Time) ([]model.Comanda, error) {
	var out []model.Comanda
	for _, c := range r.comandas {
		if c.Estado == model.ComandaFechada {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubComandaRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.numeroSeq++
	return r.numeroSeq, nil
}

func (r *stubComandaRepo) SaveTx(_ *gorm.DB, c *model.Comanda) error {
	r.comandas[c.ID] = c
	return nil
}

func (r *stubComandaRepo) DeleteItemTx(_ *gorm.DB, _ uuid.UUID) error      { return nil }
func (r *stubComandaRepo) DeletePagamentoTx(_ *gorm.DB, _ uuid.UUID) error { return nil }

func (r *stubComandaRepo) DB() *gorm.DB { return nil }

var _ repository.ComandaRepository = (*stubComandaRepo)(nil)

// ── Contas mensais ────────────────────────────────────────────────────────────

type stubMensalistaRepo struct {
	contas map[uuid.UUID]*model.ContaMensal
}

func newStubMensalistaRepo() *stubMensalistaRepo {
	return &stubMensalistaRepo{contas: make(map[uuid.UUID]*model.ContaMensal)}
}

func (r *stubMensalistaRepo) CreateConta(_ context.Context, conta *model.ContaMensal) error {
	if conta.ID == uuid.Nil {
		conta.ID = uuid.New()
	}
	r.contas[conta.ID] = conta
	return nil
}

func (r *stubMensalistaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ContaMensal, error) {
	conta, ok := r.contas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return conta, nil
}

func (r *stubMensalistaRepo) FindByClienteID(_ context.Context, clienteID uuid.UUID) (*model.ContaMensal, error) {
	for _, conta := range r.contas {
		if conta.ClienteID == clienteID {
			return conta, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubMensalistaRepo) ListAll(_ context.Context) ([]model.ContaMensal, error) {
	var out []model.ContaMensal
	for _, conta := range r.contas {
		out = append(out, *conta)
	}
	return out, nil
}

func (r *stubMensalistaRepo) Update(_ context.Context, conta *model.ContaMensal) error {
	r.contas[conta.ID] = conta
	return nil
}

func (r *stubMensalistaRepo) SaveTx(_ *gorm.DB, conta *model.ContaMensal) error {
	r.contas[conta.ID] = conta
	return nil
}

func (r *stubMensalistaRepo) DB() *gorm.DB { return nil }

var _ repository.MensalistaRepository = (*stubMensalistaRepo)(nil)

// ── Usuários ──────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, existente := range r.usuarios {
		if existente.Username == u.Username {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Ativo {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Ativo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("not found")
	}
	u.Ativo = false
	return nil
}

func (r *stubUsuarioRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("not found")
	}
	u.Ativo = true
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)
