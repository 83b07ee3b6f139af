package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/config"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/handler"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/middleware"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/service"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	estoqueRepo := repository.NewEstoqueRepository(db)
	comandaRepo := repository.NewComandaRepository(db)
	mensalistaRepo := repository.NewMensalistaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Handlers that double as infra ────────────────────────────────────────
	consultaH := handler.NewConsultaPrecoHandler(produtoRepo, rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	relogio := service.Clock(time.Now)
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	produtoSvc := service.NewProdutoService(produtoRepo, estoqueRepo, consultaH)
	comandaSvc := service.NewComandaService(comandaRepo, produtoRepo, estoqueRepo, clienteRepo, relogio)
	mensalistaSvc := service.NewMensalistaService(mensalistaRepo, produtoRepo, estoqueRepo, clienteRepo, dispatcher, relogio)
	relatorioSvc := service.NewRelatorioService(comandaRepo, mensalistaRepo, produtoRepo, relogio)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	comandasH := handler.NewComandasHandler(comandaSvc)
	mensalistasH := handler.NewMensalistasHandler(mensalistaSvc)
	relatoriosH := handler.NewRelatoriosHandler(relatorioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required (terminal de consulta no balcão)
	r.GET("/v1/preco/:barcode", consultaH.GetPrecoPorBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := middleware.RequireRole(model.PapelGarcom, model.PapelGerente, model.PapelAdmin)
	gestao := middleware.RequireRole(model.PapelGerente, model.PapelAdmin)
	admin := middleware.RequireRole(model.PapelAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		comandas := v1.Group("/comandas")
		{
			comandas.POST("", todos, comandasH.Abrir)
			comandas.GET("", todos, comandasH.Listar)
			comandas.GET("/:id", todos, comandasH.Obter)
			comandas.POST("/:id/itens", todos, comandasH.AdicionarItem)
			comandas.DELETE("/:id/itens/:indice", gestao, comandasH.RemoverItem)
			comandas.POST("/:id/pagamentos", todos, comandasH.RegistrarPagamento)
			// Estorno de pagamento fica restrito ao admin
			comandas.DELETE("/:id/pagamentos/ultimo", admin, comandasH.RemoverUltimoPagamento)
			comandas.POST("/:id/fechar", todos, comandasH.Fechar)
		}

		mensalistas := v1.Group("/mensalistas")
		{
			mensalistas.POST("", gestao, mensalistasH.CriarConta)
			mensalistas.GET("", todos, mensalistasH.Listar)
			mensalistas.GET("/:id", todos, mensalistasH.Obter)
			mensalistas.PUT("/:id/limite", gestao, mensalistasH.AtualizarLimite)
			mensalistas.POST("/:id/consumos", todos, mensalistasH.LancarConsumo)
			mensalistas.POST("/:id/pagamentos", todos, mensalistasH.RegistrarPagamento)
			mensalistas.GET("/:id/extrato", todos, mensalistasH.Extrato)
			mensalistas.POST("/:id/extrato/enviar", gestao, mensalistasH.EnviarExtrato)
		}

		v1.GET("/produtos", todos, produtosH.Listar)
		v1.GET("/produtos/:id", todos, produtosH.Obter)
		v1.GET("/produtos/:id/movimentos", gestao, produtosH.Movimentos)
		v1.POST("/produtos/:id/estoque", gestao, produtosH.AjustarEstoque)
		produtos := v1.Group("/produtos", admin)
		{
			produtos.POST("", produtosH.Criar)
			produtos.PUT("/:id", produtosH.Atualizar)
			produtos.DELETE("/:id", produtosH.Desativar)
			produtos.POST("/:id/reativar", produtosH.Reativar)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", todos, clientesH.Criar)
			clientes.GET("", todos, clientesH.Listar)
			clientes.GET("/:id", todos, clientesH.Obter)
			clientes.PUT("/:id", gestao, clientesH.Atualizar)
			clientes.DELETE("/:id", gestao, clientesH.Desativar)
		}

		relatorios := v1.Group("/relatorios", gestao)
		{
			relatorios.GET("/resumo-diario", relatoriosH.ResumoDiario)
			relatorios.GET("/alertas-estoque", relatoriosH.AlertasEstoque)
			relatorios.GET("/inadimplentes", relatoriosH.Inadimplentes)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
