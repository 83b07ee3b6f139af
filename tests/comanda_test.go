package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/service"
)

var agora = time.Date(2025, 3, 15, 20, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return agora }

type comandaFixture struct {
	svc         service.ComandaService
	comandaRepo *stubComandaRepo
	produtoRepo *stubProdutoRepo
	estoqueRepo *stubEstoqueRepo
	cliente     *model.Cliente
	cerveja     *model.Produto
	caipirinha  *model.Produto
}

func buildComandaFixture(t *testing.T) *comandaFixture {
	t.Helper()
	produtoRepo := newStubProdutoRepo()
	estoqueRepo := &stubEstoqueRepo{}
	clienteRepo := newStubClienteRepo()
	comandaRepo := newStubComandaRepo()

	cliente := &model.Cliente{ID: uuid.New(), Nome: "Joao", Ativo: true}
	clienteRepo.clientes[cliente.ID] = cliente

	cerveja := &model.Produto{
		ID: uuid.New(), Nome: "Cerveja Lata", Categoria: "bebidas",
		PrecoVenda: decimal.RequireFromString("8.50"),
		EstoqueAtual: 10, EstoqueMinimo: 2, Ativo: true,
	}
	caipirinha := &model.Produto{
		ID: uuid.New(), Nome: "Caipirinha", Categoria: "drinks",
		PrecoVenda: decimal.RequireFromString("18.00"),
		EstoqueAtual: 5, EstoqueMinimo: 1, Ativo: true,
	}
	produtoRepo.produtos[cerveja.ID] = cerveja
	produtoRepo.produtos[caipirinha.ID] = caipirinha

	svc := service.NewComandaService(comandaRepo, produtoRepo, estoqueRepo, clienteRepo, fixedClock)
	return &comandaFixture{
		svc: svc, comandaRepo: comandaRepo, produtoRepo: produtoRepo,
		estoqueRepo: estoqueRepo, cliente: cliente, cerveja: cerveja, caipirinha: caipirinha,
	}
}

func abrirComanda(t *testing.T, f *comandaFixture, produtoIDs ...uuid.UUID) *dto.ComandaResponse {
	t.Helper()
	itens := make([]dto.ItemComandaRequest, 0, len(produtoIDs))
	for _, id := range produtoIDs {
		itens = append(itens, dto.ItemComandaRequest{ProdutoID: id.String()})
	}
	resp, err := f.svc.Abrir(context.Background(), dto.AbrirComandaRequest{
		ClienteID: f.cliente.ID.String(),
		Itens:     itens,
	})
	require.NoError(t, err)
	return resp
}

func TestAbrirComanda(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.cerveja.ID, f.cerveja.ID, f.caipirinha.ID)

	assert.Equal(t, 1, resp.Numero)
	assert.Equal(t, model.ComandaAberta, resp.Estado)
	assert.Len(t, resp.Itens, 3)
	// 8.50 + 8.50 + 18.00
	assert.Equal(t, "35", resp.Consumo.String())
	assert.Equal(t, "35", resp.Saldo.String())

	// stock decremented once per item, with one movement each
	assert.Equal(t, 8, f.cerveja.EstoqueAtual)
	assert.Equal(t, 4, f.caipirinha.EstoqueAtual)
	assert.Len(t, f.estoqueRepo.movimentos, 3)
	assert.Equal(t, "venda", f.estoqueRepo.movimentos[0].Tipo)
	assert.Equal(t, -1, f.estoqueRepo.movimentos[0].Quantidade)
}

func TestAbrirComandaNumeracaoSequencial(t *testing.T) {
	f := buildComandaFixture(t)
	primeira := abrirComanda(t, f, f.cerveja.ID)
	segunda := abrirComanda(t, f, f.cerveja.ID)

	assert.Equal(t, 1, primeira.Numero)
	assert.Equal(t, 2, segunda.Numero)
}

func TestAbrirComandaSemEstoqueRejeita(t *testing.T) {
	f := buildComandaFixture(t)
	f.cerveja.EstoqueAtual = 0

	_, err := f.svc.Abrir(context.Background(), dto.AbrirComandaRequest{
		ClienteID: f.cliente.ID.String(),
		Itens:     []dto.ItemComandaRequest{{ProdutoID: f.cerveja.ID.String()}},
	})
	require.Error(t, err)
	var rej *service.Rejeicao
	require.ErrorAs(t, err, &rej)
	// nothing persisted, no stock touched
	assert.Empty(t, f.comandaRepo.comandas)
	assert.Empty(t, f.estoqueRepo.movimentos)
}

func TestAdicionarItemCongelaPreco(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.cerveja.ID)
	comandaID := uuid.MustParse(resp.ID)

	// catalog price change must not affect the already-added item
	f.cerveja.PrecoVenda = decimal.RequireFromString("11.00")

	depois, err := f.svc.AdicionarItem(context.Background(), comandaID, f.cerveja.ID)
	require.NoError(t, err)
	assert.Equal(t, "8.5", depois.Itens[0].PrecoVenda.String())
	assert.Equal(t, "11", depois.Itens[1].PrecoVenda.String())
	assert.Equal(t, "19.5", depois.Consumo.String())
}

func TestAdicionarItemComandaFechada(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.cerveja.ID)
	comandaID := uuid.MustParse(resp.ID)

	_, err := f.svc.RegistrarPagamento(context.Background(), comandaID, dto.PagamentoRequest{
		Metodo: model.MetodoPix, Valor: decimal.RequireFromString("8.50"),
	})
	require.NoError(t, err)

	_, err = f.svc.AdicionarItem(context.Background(), comandaID, f.cerveja.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fechada")
}

func TestRemoverItemDevolveEstoque(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.cerveja.ID, f.caipirinha.ID)
	comandaID := uuid.MustParse(resp.ID)
	require.Equal(t, 9, f.cerveja.EstoqueAtual)

	depois, err := f.svc.RemoverItem(context.Background(), comandaID, 0)
	require.NoError(t, err)
	assert.Len(t, depois.Itens, 1)
	assert.Equal(t, "Caipirinha", depois.Itens[0].Produto)
	assert.Equal(t, 10, f.cerveja.EstoqueAtual)

	ultimo := f.estoqueRepo.movimentos[len(f.estoqueRepo.movimentos)-1]
	assert.Equal(t, "estorno", ultimo.Tipo)
	assert.Equal(t, 1, ultimo.Quantidade)
}

func TestRemoverItemIndiceInvalido(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.cerveja.ID)
	comandaID := uuid.MustParse(resp.ID)

	_, err := f.svc.RemoverItem(context.Background(), comandaID, 5)
	require.Error(t, err)
	var rej *service.Rejeicao
	require.ErrorAs(t, err, &rej)
}

func TestPagamentoParcialMantemAberta(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.caipirinha.ID) // 18.00
	comandaID := uuid.MustParse(resp.ID)

	depois, err := f.svc.RegistrarPagamento(context.Background(), comandaID, dto.PagamentoRequest{
		Metodo: model.MetodoDinheiro, Valor: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ComandaAberta, depois.Estado)
	assert.Equal(t, "8", depois.Saldo.String())
}

func TestPagamentoTotalFechaComanda(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.caipirinha.ID)
	comandaID := uuid.MustParse(resp.ID)

	depois, err := f.svc.RegistrarPagamento(context.Background(), comandaID, dto.PagamentoRequest{
		Metodo: model.MetodoCartao, Valor: decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ComandaFechada, depois.Estado)
	assert.True(t, depois.Saldo.IsNegative())
}

func TestRemoverUltimoPagamentoReabre(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.caipirinha.ID)
	comandaID := uuid.MustParse(resp.ID)

	_, err := f.svc.RegistrarPagamento(context.Background(), comandaID, dto.PagamentoRequest{
		Metodo: model.MetodoPix, Valor: decimal.RequireFromString("18.00"),
	})
	require.NoError(t, err)

	depois, err := f.svc.RemoverUltimoPagamento(context.Background(), comandaID)
	require.NoError(t, err)
	assert.Equal(t, model.ComandaAberta, depois.Estado)
	assert.Empty(t, depois.Pagamentos)
	assert.Equal(t, "18", depois.Saldo.String())
}

func TestRemoverUltimoPagamentoSemPagamentos(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.cerveja.ID)

	_, err := f.svc.RemoverUltimoPagamento(context.Background(), uuid.MustParse(resp.ID))
	require.Error(t, err)
	var rej *service.Rejeicao
	require.ErrorAs(t, err, &rej)
}

func TestFecharComSaldoPendenteRejeita(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.cerveja.ID)
	comandaID := uuid.MustParse(resp.ID)

	_, err := f.svc.Fechar(context.Background(), comandaID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saldo pendente")
}

func TestFecharComandaQuitada(t *testing.T) {
	f := buildComandaFixture(t)
	resp := abrirComanda(t, f, f.cerveja.ID)
	comandaID := uuid.MustParse(resp.ID)

	_, err := f.svc.RegistrarPagamento(context.Background(), comandaID, dto.PagamentoRequest{
		Metodo: model.MetodoPix, Valor: decimal.RequireFromString("8.50"),
	})
	require.NoError(t, err)

	depois, err := f.svc.Fechar(context.Background(), comandaID)
	require.NoError(t, err)
	assert.Equal(t, model.ComandaFechada, depois.Estado)
}

func TestListarComandasFiltraPorEstado(t *testing.T) {
	f := buildComandaFixture(t)
	aberta := abrirComanda(t, f, f.cerveja.ID)
	fechada := abrirComanda(t, f, f.cerveja.ID)
	_, err := f.svc.RegistrarPagamento(context.Background(), uuid.MustParse(fechada.ID), dto.PagamentoRequest{
		Metodo: model.MetodoPix, Valor: decimal.RequireFromString("8.50"),
	})
	require.NoError(t, err)

	lista, err := f.svc.Listar(context.Background(), dto.ComandaFilter{Estado: model.ComandaAberta})
	require.NoError(t, err)
	require.Len(t, lista.Data, 1)
	assert.Equal(t, aberta.ID, lista.Data[0].ID)
}
