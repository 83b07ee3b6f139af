package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/service"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/worker"
)

// fakeFila captures enqueued jobs instead of touching Redis.
type fakeFila struct {
	jobs []filaJob
}

type filaJob struct {
	Fila    string
	Payload any
}

func (f *fakeFila) Enfileirar(_ context.Context, fila string, payload any) error {
	f.jobs = append(f.jobs, filaJob{Fila: fila, Payload: payload})
	return nil
}

type mensalistaFixture struct {
	svc         service.MensalistaService
	repo        *stubMensalistaRepo
	produtoRepo *stubProdutoRepo
	estoqueRepo *stubEstoqueRepo
	fila        *fakeFila
	cliente     *model.Cliente
	whisky      *model.Produto
}

func buildMensalistaFixture(t *testing.T) *mensalistaFixture {
	t.Helper()
	repo := newStubMensalistaRepo()
	produtoRepo := newStubProdutoRepo()
	estoqueRepo := &stubEstoqueRepo{}
	clienteRepo := newStubClienteRepo()
	fila := &fakeFila{}

	email := "carlos@example.com"
	cliente := &model.Cliente{ID: uuid.New(), Nome: "Carlos", Email: &email, Ativo: true}
	clienteRepo.clientes[cliente.ID] = cliente

	whisky := &model.Produto{
		ID: uuid.New(), Nome: "Whisky Dose", Categoria: "bebidas",
		PrecoVenda: decimal.RequireFromString("25.00"),
		EstoqueAtual: 20, EstoqueMinimo: 5, Ativo: true,
	}
	produtoRepo.produtos[whisky.ID] = whisky

	svc := service.NewMensalistaService(repo, produtoRepo, estoqueRepo, clienteRepo, fila, fixedClock)
	return &mensalistaFixture{
		svc: svc, repo: repo, produtoRepo: produtoRepo, estoqueRepo: estoqueRepo,
		fila: fila, cliente: cliente, whisky: whisky,
	}
}

func criarConta(t *testing.T, f *mensalistaFixture, limite string) uuid.UUID {
	t.Helper()
	resp, err := f.svc.CriarConta(context.Background(), dto.CriarContaMensalRequest{
		ClienteID: f.cliente.ID.String(),
		Limite:    decimal.RequireFromString(limite),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestCriarContaMensal(t *testing.T) {
	f := buildMensalistaFixture(t)
	resp, err := f.svc.CriarConta(context.Background(), dto.CriarContaMensalRequest{
		ClienteID: f.cliente.ID.String(),
		Limite:    decimal.RequireFromString("300.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Carlos", resp.Cliente)
	assert.True(t, resp.Saldo.IsZero())
	assert.Equal(t, "300", resp.LimiteDisponivel.String())
	assert.Equal(t, 0, resp.DiasCiclo)
	assert.False(t, resp.EmAtraso)
	assert.False(t, resp.Bloqueada)
}

func TestCriarContaDuplicada(t *testing.T) {
	f := buildMensalistaFixture(t)
	criarConta(t, f, "300.00")

	_, err := f.svc.CriarConta(context.Background(), dto.CriarContaMensalRequest{
		ClienteID: f.cliente.ID.String(),
		Limite:    decimal.RequireFromString("100.00"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ja possui conta mensal")
}

func TestCriarContaLimiteInvalido(t *testing.T) {
	f := buildMensalistaFixture(t)
	_, err := f.svc.CriarConta(context.Background(), dto.CriarContaMensalRequest{
		ClienteID: f.cliente.ID.String(),
		Limite:    decimal.Zero,
	})
	require.Error(t, err)
}

func TestLancarConsumoBaixaEstoque(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")

	resp, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "50", resp.Saldo.String())
	assert.Equal(t, 18, f.whisky.EstoqueAtual)
	require.Len(t, f.estoqueRepo.movimentos, 1)
	mov := f.estoqueRepo.movimentos[0]
	assert.Equal(t, "consumo_mensal", mov.Tipo)
	assert.Equal(t, -2, mov.Quantidade)
	require.NotNil(t, mov.ReferenciaID)
	assert.Equal(t, contaID, *mov.ReferenciaID)
}

func TestLancarConsumoSemEstoque(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")
	f.whisky.EstoqueAtual = 1

	_, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 2,
	})
	var rej *service.Rejeicao
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, 1, f.whisky.EstoqueAtual)
	assert.Empty(t, f.estoqueRepo.movimentos)
}

func TestLancarConsumoAcimaDoLimite(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "100.00")

	// first charge fits (100 available on a clean account)
	_, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 3, // 75.00
	})
	require.NoError(t, err)

	// remaining credit: (100 - 75) * 0.9 = 22.50 < 25.00
	_, err = f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 1,
	})
	var rej *service.Rejeicao
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, 17, f.whisky.EstoqueAtual)
}

func TestContaBloqueadaRecusaConsumo(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")

	_, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 1,
	})
	require.NoError(t, err)

	// age the cycle past the grace period
	conta := f.repo.contas[contaID]
	conta.InicioCiclo = agora.AddDate(0, 0, -29)

	resp, err := f.svc.Obter(context.Background(), contaID)
	require.NoError(t, err)
	assert.True(t, resp.EmAtraso)
	assert.True(t, resp.Bloqueada)

	_, err = f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 1,
	})
	var rej *service.Rejeicao
	require.ErrorAs(t, err, &rej)
}

func TestAtraso28DiasAindaDentroDoPrazo(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")
	conta := f.repo.contas[contaID]
	conta.InicioCiclo = agora.AddDate(0, 0, -28)

	resp, err := f.svc.Obter(context.Background(), contaID)
	require.NoError(t, err)
	assert.Equal(t, 28, resp.DiasCiclo)
	assert.False(t, resp.EmAtraso)
}

func TestPagamentoMeioSaldoDesbloqueia(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")

	_, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 4, // 100.00
	})
	require.NoError(t, err)

	conta := f.repo.contas[contaID]
	conta.InicioCiclo = agora.AddDate(0, 0, -30)

	resp, err := f.svc.RegistrarPagamento(context.Background(), contaID, dto.PagamentoMensalRequest{
		Metodo: model.MetodoPix, Valor: decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)
	assert.False(t, resp.Bloqueada)
	assert.True(t, resp.AtrasoDesbloqueado)
	assert.True(t, resp.EmAtraso) // still overdue, just unlocked

	// unlocked account charges again
	_, err = f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 1,
	})
	require.NoError(t, err)
}

func TestPagamentoAbaixoDaMetadeNaoDesbloqueia(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")

	_, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 4,
	})
	require.NoError(t, err)

	conta := f.repo.contas[contaID]
	conta.InicioCiclo = agora.AddDate(0, 0, -30)

	resp, err := f.svc.RegistrarPagamento(context.Background(), contaID, dto.PagamentoMensalRequest{
		Metodo: model.MetodoPix, Valor: decimal.RequireFromString("49.99"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Bloqueada)
	assert.False(t, resp.AtrasoDesbloqueado)
}

func TestQuitacaoReiniciaCicloEEnfileiraExtrato(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")

	_, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 2, // 50.00
	})
	require.NoError(t, err)

	conta := f.repo.contas[contaID]
	conta.InicioCiclo = agora.AddDate(0, 0, -30)
	conta.AtrasoDesbloqueado = true

	resp, err := f.svc.RegistrarPagamento(context.Background(), contaID, dto.PagamentoMensalRequest{
		Metodo: model.MetodoDinheiro, Valor: decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Saldo.IsZero())
	assert.Equal(t, 0, resp.DiasCiclo) // InicioCiclo reset to now
	assert.False(t, resp.AtrasoDesbloqueado)
	assert.Equal(t, "300", resp.LimiteDisponivel.String())

	require.Len(t, f.fila.jobs, 1)
	assert.Equal(t, worker.FilaEmail, f.fila.jobs[0].Fila)
	payload, ok := f.fila.jobs[0].Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "extrato_quitacao", payload["tipo"])
	assert.Equal(t, contaID.String(), payload["conta_id"])
}

func TestPagamentoParcialNaoEnfileiraExtrato(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")

	_, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 2,
	})
	require.NoError(t, err)

	_, err = f.svc.RegistrarPagamento(context.Background(), contaID, dto.PagamentoMensalRequest{
		Metodo: model.MetodoPix, Valor: decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)
	assert.Empty(t, f.fila.jobs)
}

func TestExtratoListaItensEPagamentos(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")

	_, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 2,
	})
	require.NoError(t, err)
	_, err = f.svc.RegistrarPagamento(context.Background(), contaID, dto.PagamentoMensalRequest{
		Metodo: model.MetodoPix, Valor: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	// statement loads need the product preloaded on the item
	conta := f.repo.contas[contaID]
	conta.Itens[0].Produto = f.whisky

	extrato, err := f.svc.Extrato(context.Background(), contaID)
	require.NoError(t, err)
	require.Len(t, extrato.Itens, 1)
	assert.Equal(t, "Whisky Dose", extrato.Itens[0].Produto)
	assert.Equal(t, "50", extrato.Itens[0].Subtotal.String())
	require.Len(t, extrato.Pagamentos, 1)
	assert.Equal(t, "40", extrato.Conta.Saldo.String())
}

func TestEnviarExtratoSemEmail(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")
	f.cliente.Email = nil

	err := f.svc.EnviarExtrato(context.Background(), contaID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sem email")
}

func TestEnviarExtratoEnfileira(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")

	require.NoError(t, f.svc.EnviarExtrato(context.Background(), contaID))
	require.Len(t, f.fila.jobs, 1)
	assert.Equal(t, worker.FilaEmail, f.fila.jobs[0].Fila)
}

func TestAtualizarLimiteNaoRevalidaSaldo(t *testing.T) {
	f := buildMensalistaFixture(t)
	contaID := criarConta(t, f, "300.00")

	_, err := f.svc.LancarConsumo(context.Background(), contaID, dto.LancarConsumoRequest{
		ProdutoID: f.whisky.ID.String(), Quantidade: 4, // 100.00
	})
	require.NoError(t, err)

	// lowering the limit below the balance keeps charges on the books
	resp, err := f.svc.AtualizarLimite(context.Background(), contaID, dto.AtualizarLimiteRequest{
		Limite: decimal.RequireFromString("80.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "100", resp.Saldo.String())
	assert.True(t, resp.LimiteDisponivel.IsZero())
}
