package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/apierror"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/service"
)

type ComandasHandler struct{ svc service.ComandaService }

func NewComandasHandler(svc service.ComandaService) *ComandasHandler {
	return &ComandasHandler{svc: svc}
}

// Abrir godoc
// @Summary      Abrir comanda
// @Description  Abre uma comanda para um cliente com os primeiros itens; o estoque é baixado na mesma transação.
// @Tags         comandas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AbrirComandaRequest true "Cliente e itens iniciais"
// @Success      201  {object} dto.ComandaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.Rejection
// @Router       /v1/comandas [post]
func (h *ComandasHandler) Abrir(c *gin.Context) {
	var req dto.AbrirComandaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obter godoc
// @Summary      Detalhe da comanda
// @Tags         comandas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da comanda"
// @Success      200 {object} dto.ComandaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/comandas/{id} [get]
func (h *ComandasHandler) Obter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obter(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar comandas
// @Tags         comandas
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "aberta | fechada | all (default aberta)"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.ComandaListResponse
// @Router       /v1/comandas [get]
func (h *ComandasHandler) Listar(c *gin.Context) {
	var filter dto.ComandaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdicionarItem godoc
// @Summary      Adicionar item
// @Description  Adiciona um item à comanda com preço congelado no momento da venda.
// @Tags         comandas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID da comanda"
// @Param        body body dto.ItemComandaRequest true "Produto"
// @Success      200 {object} dto.ComandaResponse
// @Failure      422 {object} apierror.Rejection
// @Router       /v1/comandas/{id}/itens [post]
func (h *ComandasHandler) AdicionarItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ItemComandaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	produtoID, err := parseUUIDField(c, req.ProdutoID, "produto_id")
	if err != nil {
		return
	}
	resp, err := h.svc.AdicionarItem(c.Request.Context(), id, produtoID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoverItem godoc
// @Summary      Remover item
// @Description  Remove um item pelo índice de inserção e devolve o estoque.
// @Tags         comandas
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string true "UUID da comanda"
// @Param        indice path int    true "Índice do item (0-based)"
// @Success      200 {object} dto.ComandaResponse
// @Failure      422 {object} apierror.Rejection
// @Router       /v1/comandas/{id}/itens/{indice} [delete]
func (h *ComandasHandler) RemoverItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	indice, err := strconv.Atoi(c.Param("indice"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Indice invalido"))
		return
	}
	resp, err := h.svc.RemoverItem(c.Request.Context(), id, indice)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarPagamento godoc
// @Summary      Registrar pagamento
// @Description  Registra um pagamento parcial ou total; a comanda fecha sozinha quando o pago cobre o consumo.
// @Tags         comandas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID da comanda"
// @Param        body body dto.PagamentoRequest true "Valor e método"
// @Success      200 {object} dto.ComandaResponse
// @Failure      422 {object} apierror.Rejection
// @Router       /v1/comandas/{id}/pagamentos [post]
func (h *ComandasHandler) RegistrarPagamento(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.PagamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarPagamento(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoverUltimoPagamento godoc
// @Summary      Estornar último pagamento
// @Description  Remove o pagamento mais recente; a comanda reabre se o saldo voltar a ser positivo. Somente admin.
// @Tags         comandas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da comanda"
// @Success      200 {object} dto.ComandaResponse
// @Failure      403 {object} apierror.APIError
// @Failure      422 {object} apierror.Rejection
// @Router       /v1/comandas/{id}/pagamentos/ultimo [delete]
func (h *ComandasHandler) RemoverUltimoPagamento(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RemoverUltimoPagamento(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fechar godoc
// @Summary      Fechar comanda
// @Description  Fecha a comanda; rejeitado quando ainda existe saldo pendente.
// @Tags         comandas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da comanda"
// @Success      200 {object} dto.ComandaResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/comandas/{id}/fechar [post]
func (h *ComandasHandler) Fechar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Fechar(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
