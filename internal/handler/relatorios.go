package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/apierror"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/service"
)

type RelatoriosHandler struct{ svc service.RelatorioService }

func NewRelatoriosHandler(svc service.RelatorioService) *RelatoriosHandler {
	return &RelatoriosHandler{svc: svc}
}

// ResumoDiario godoc
// @Summary      Resumo do dia
// @Description  Comandas fechadas, total vendido, totais por método de pagamento e consumo de mensalistas.
// @Tags         relatorios
// @Produce      json
// @Security     BearerAuth
// @Param        data query string false "Data YYYY-MM-DD (default: hoje)"
// @Success      200 {object} dto.ResumoDiarioResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/relatorios/resumo-diario [get]
func (h *RelatoriosHandler) ResumoDiario(c *gin.Context) {
	dia := time.Now()
	if raw := c.Query("data"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Data invalida, use YYYY-MM-DD"))
			return
		}
		dia = parsed
	}
	resp, err := h.svc.ResumoDiario(c.Request.Context(), dia)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AlertasEstoque godoc
// @Summary      Alertas de estoque baixo
// @Tags         relatorios
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlertaEstoqueResponse
// @Router       /v1/relatorios/alertas-estoque [get]
func (h *RelatoriosHandler) AlertasEstoque(c *gin.Context) {
	resp, err := h.svc.AlertasEstoque(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Inadimplentes godoc
// @Summary      Mensalistas em atraso
// @Description  Lista de cobrança: contas com saldo positivo além do prazo do ciclo.
// @Tags         relatorios
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.InadimplenteResponse
// @Router       /v1/relatorios/inadimplentes [get]
func (h *RelatoriosHandler) Inadimplentes(c *gin.Context) {
	resp, err := h.svc.Inadimplentes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
