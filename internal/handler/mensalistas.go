package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/apierror"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/service"
)

type MensalistasHandler struct{ svc service.MensalistaService }

func NewMensalistasHandler(svc service.MensalistaService) *MensalistasHandler {
	return &MensalistasHandler{svc: svc}
}

// CriarConta godoc
// @Summary      Criar conta mensal
// @Description  Abre a conta de crédito de um mensalista com o limite informado; o ciclo inicia agora.
// @Tags         mensalistas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CriarContaMensalRequest true "Cliente e limite"
// @Success      201 {object} dto.ContaMensalResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/mensalistas [post]
func (h *MensalistasHandler) CriarConta(c *gin.Context) {
	var req dto.CriarContaMensalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarConta(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obter godoc
// @Summary      Detalhe da conta mensal
// @Description  Retorna a conta com saldo, limite disponível, dias de ciclo e situação de bloqueio — tudo derivado no momento da consulta.
// @Tags         mensalistas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da conta"
// @Success      200 {object} dto.ContaMensalResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/mensalistas/{id} [get]
func (h *MensalistasHandler) Obter(c *gin.Context) {
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
// @Summary      Listar contas mensais
// @Tags         mensalistas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ContaMensalListResponse
// @Router       /v1/mensalistas [get]
func (h *MensalistasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AtualizarLimite godoc
// @Summary      Atualizar limite
// @Tags         mensalistas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID da conta"
// @Param        body body dto.AtualizarLimiteRequest true "Novo limite"
// @Success      200 {object} dto.ContaMensalResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/mensalistas/{id}/limite [put]
func (h *MensalistasHandler) AtualizarLimite(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AtualizarLimiteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarLimite(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LancarConsumo godoc
// @Summary      Lançar consumo
// @Description  Registra um consumo na conta mensal com preço congelado; rejeitado quando a conta está bloqueada ou o valor excede o limite disponível.
// @Tags         mensalistas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID da conta"
// @Param        body body dto.LancarConsumoRequest true "Produto e quantidade"
// @Success      200 {object} dto.ContaMensalResponse
// @Failure      422 {object} apierror.Rejection
// @Router       /v1/mensalistas/{id}/consumos [post]
func (h *MensalistasHandler) LancarConsumo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.LancarConsumoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.LancarConsumo(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarPagamento godoc
// @Summary      Registrar pagamento
// @Description  Abate o valor do saldo; pode destravar conta bloqueada (50% do saldo) e, ao quitar, reinicia o ciclo.
// @Tags         mensalistas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID da conta"
// @Param        body body dto.PagamentoMensalRequest true "Valor e método"
// @Success      200 {object} dto.ContaMensalResponse
// @Failure      422 {object} apierror.Rejection
// @Router       /v1/mensalistas/{id}/pagamentos [post]
func (h *MensalistasHandler) RegistrarPagamento(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.PagamentoMensalRequest
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

// Extrato godoc
// @Summary      Extrato do ciclo
// @Tags         mensalistas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da conta"
// @Success      200 {object} dto.ExtratoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/mensalistas/{id}/extrato [get]
func (h *MensalistasHandler) Extrato(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Extrato(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EnviarExtrato godoc
// @Summary      Enviar extrato por email
// @Description  Enfileira o envio assíncrono do extrato em PDF para o email do cliente.
// @Tags         mensalistas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da conta"
// @Success      202
// @Failure      400 {object} apierror.APIError
// @Router       /v1/mensalistas/{id}/extrato/enviar [post]
func (h *MensalistasHandler) EnviarExtrato(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.EnviarExtrato(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusAccepted)
}
