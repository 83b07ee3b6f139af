//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/config"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/infra"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/router"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	engine *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("barcontroller_test"),
		tcPostgres.WithUsername("barcontroller"),
		tcPostgres.WithPassword("barcontroller"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		CobrancaGatewayURL: "http://localhost:9999", // unused here
		WorkerPoolSize:     1,
		ExtratoStoragePath: t.TempDir(),
		NomeBar:            "Bar de Teste",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("senha-e2e-admin"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO usuarios (id, username, nome, password_hash, papel, ativo, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin.e2e', 'Admin E2E', ?, 'admin', true, NOW(), NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "senha-e2e-admin"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken, engine: r}
}

func criarProdutoE2E(t *testing.T, env *testEnv, nome, barcode, preco string, estoque int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/produtos",
		jsonBody(t, map[string]any{
			"nome":          nome,
			"codigo_barras": barcode,
			"categoria":     "bebidas",
			"preco_custo":   "3.00",
			"preco_venda":   preco,
			"estoque_atual": estoque,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func criarClienteE2E(t *testing.T, env *testEnv, nome string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/clientes",
		jsonBody(t, map[string]any{"nome": nome}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cliente struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &cliente)
	return cliente.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full tab cycle: open with items, pay in full, comanda closes, stock moved.
func TestE2E_CicloComanda(t *testing.T) {
	env := setupTestEnv(t)

	prodID := criarProdutoE2E(t, env, "Cerveja Long Neck", "7890001000001", "12.00", 30)
	clienteID := criarClienteE2E(t, env, "Cliente Comanda")

	abrirResp := do(t, env.server, "POST", "/v1/comandas",
		jsonBody(t, map[string]any{
			"cliente_id": clienteID,
			"itens": []map[string]any{
				{"produto_id": prodID},
				{"produto_id": prodID},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, abrirResp.StatusCode)
	var comanda struct {
		ID     string `json:"id"`
		Numero int    `json:"numero"`
		Saldo  string `json:"saldo"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, abrirResp, &comanda)
	assert.Equal(t, 1, comanda.Numero)
	assert.Equal(t, "aberta", comanda.Estado)
	assert.Equal(t, "24", comanda.Saldo)

	pagResp := do(t, env.server, "POST", fmt.Sprintf("/v1/comandas/%s/pagamentos", comanda.ID),
		jsonBody(t, map[string]any{"metodo": "pix", "valor": "24.00"}), env.token)
	require.Equal(t, http.StatusOK, pagResp.StatusCode)
	var paga struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, pagResp, &paga)
	assert.Equal(t, "fechada", paga.Estado)

	prodResp := do(t, env.server, "GET", "/v1/produtos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		EstoqueAtual int `json:"estoque_atual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 28, prod.EstoqueAtual)
}

// Monthly account: create, charge, partial payment, statement.
func TestE2E_ContaMensal(t *testing.T) {
	env := setupTestEnv(t)

	prodID := criarProdutoE2E(t, env, "Whisky Dose", "7890001000002", "25.00", 10)
	clienteID := criarClienteE2E(t, env, "Cliente Mensalista")

	contaResp := do(t, env.server, "POST", "/v1/mensalistas",
		jsonBody(t, map[string]any{"cliente_id": clienteID, "limite": "300.00"}), env.token)
	require.Equal(t, http.StatusCreated, contaResp.StatusCode)
	var conta struct {
		ID               string `json:"id"`
		LimiteDisponivel string `json:"limite_disponivel"`
	}
	decodeJSON(t, contaResp, &conta)
	assert.Equal(t, "300", conta.LimiteDisponivel)

	consumoResp := do(t, env.server, "POST", fmt.Sprintf("/v1/mensalistas/%s/consumos", conta.ID),
		jsonBody(t, map[string]any{"produto_id": prodID, "quantidade": 2}), env.token)
	require.Equal(t, http.StatusOK, consumoResp.StatusCode)
	var aposConsumo struct {
		Saldo            string `json:"saldo"`
		LimiteDisponivel string `json:"limite_disponivel"`
	}
	decodeJSON(t, consumoResp, &aposConsumo)
	assert.Equal(t, "50", aposConsumo.Saldo)
	assert.Equal(t, "225", aposConsumo.LimiteDisponivel) // (300-50)*0.9

	pagResp := do(t, env.server, "POST", fmt.Sprintf("/v1/mensalistas/%s/pagamentos", conta.ID),
		jsonBody(t, map[string]any{"metodo": "dinheiro", "valor": "20.00"}), env.token)
	require.Equal(t, http.StatusOK, pagResp.StatusCode)

	extratoResp := do(t, env.server, "GET", fmt.Sprintf("/v1/mensalistas/%s/extrato", conta.ID), nil, env.token)
	require.Equal(t, http.StatusOK, extratoResp.StatusCode)
	var extrato struct {
		Conta struct {
			Saldo string `json:"saldo"`
		} `json:"conta"`
		Itens      []json.RawMessage `json:"itens"`
		Pagamentos []json.RawMessage `json:"pagamentos"`
	}
	decodeJSON(t, extratoResp, &extrato)
	assert.Equal(t, "30", extrato.Conta.Saldo)
	assert.Len(t, extrato.Itens, 1)
	assert.Len(t, extrato.Pagamentos, 1)
}

// Price lookup is public and served from cache on the second hit.
func TestE2E_ConsultaPreco(t *testing.T) {
	env := setupTestEnv(t)
	criarProdutoE2E(t, env, "Refrigerante Lata", "7890001000003", "6.00", 40)

	for i := 0; i < 2; i++ {
		resp := do(t, env.server, "GET", "/v1/preco/7890001000003", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var preco struct {
			Nome       string `json:"nome"`
			PrecoVenda string `json:"preco_venda"`
		}
		decodeJSON(t, resp, &preco)
		assert.Equal(t, "Refrigerante Lata", preco.Nome)
		assert.Equal(t, "6", preco.PrecoVenda)
	}
}

// Manual stock adjustment shows up in the movement ledger.
func TestE2E_MovimentosEstoque(t *testing.T) {
	env := setupTestEnv(t)
	prodID := criarProdutoE2E(t, env, "Agua Mineral", "7890001000004", "4.00", 50)

	ajusteResp := do(t, env.server, "POST", fmt.Sprintf("/v1/produtos/%s/estoque", prodID),
		jsonBody(t, map[string]any{"delta": -5, "motivo": "Quebra no transporte"}), env.token)
	require.Equal(t, http.StatusOK, ajusteResp.StatusCode)

	movResp := do(t, env.server, "GET", fmt.Sprintf("/v1/produtos/%s/movimentos", prodID), nil, env.token)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movs []struct {
		Tipo        string `json:"tipo"`
		Quantidade  int    `json:"quantidade"`
		EstoqueNovo int    `json:"estoque_novo"`
	}
	decodeJSON(t, movResp, &movs)
	require.Len(t, movs, 1)
	assert.Equal(t, "ajuste_manual", movs[0].Tipo)
	assert.Equal(t, -5, movs[0].Quantidade)
	assert.Equal(t, 45, movs[0].EstoqueNovo)
}

// Unauthenticated and under-privileged requests are refused.
func TestE2E_Autorizacao(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/v1/comandas", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// garcom cannot create products (admin only)
	criarResp := do(t, env.server, "POST", "/v1/usuarios",
		jsonBody(t, map[string]any{
			"username": "garcom.e2e", "nome": "Garcom E2E",
			"password": "senha-garcom-1", "papel": "garcom",
		}), env.token)
	require.Equal(t, http.StatusCreated, criarResp.StatusCode)
	criarResp.Body.Close()

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "garcom.e2e", "password": "senha-garcom-1"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)

	prodResp := do(t, env.server, "POST", "/v1/produtos",
		jsonBody(t, map[string]any{
			"nome": "Produto Proibido", "categoria": "bebidas", "preco_venda": "1.00",
		}), login.AccessToken)
	assert.Equal(t, http.StatusForbidden, prodResp.StatusCode)
	prodResp.Body.Close()
}
