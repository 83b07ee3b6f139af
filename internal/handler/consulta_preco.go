package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/apierror"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
)

const precoCacheTTL = 4 * time.Hour

// ConsultaPrecoHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type ConsultaPrecoHandler struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client
}

func NewConsultaPrecoHandler(repo repository.ProdutoRepository, rdb *redis.Client) *ConsultaPrecoHandler {
	return &ConsultaPrecoHandler{repo: repo, rdb: rdb}
}

// Invalidar drops a cached barcode price; wired into the produto service so
// catalog writes never serve stale prices.
func (h *ConsultaPrecoHandler) Invalidar(ctx context.Context, codigoBarras string) {
	_ = h.rdb.Del(ctx, "preco:"+codigoBarras).Err()
}

// GetPrecoPorBarcode godoc
// @Summary      Consulta de preço por código de barras (sem autenticação)
// @Tags         preco
// @Produce      json
// @Param        barcode path string true "Código de barras"
// @Success      200 {object} dto.ConsultaPrecoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/preco/{barcode} [get]
func (h *ConsultaPrecoHandler) GetPrecoPorBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()
	cacheKey := "preco:" + barcode

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaPrecoResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	produto, err := h.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Produto nao encontrado"))
		return
	}

	resp := dto.ConsultaPrecoResponse{
		Nome:              produto.Nome,
		PrecoVenda:        produto.PrecoVenda,
		EstoqueDisponivel: produto.EstoqueAtual,
		Categoria:         produto.Categoria,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precoCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
