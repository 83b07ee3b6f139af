package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/dto"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/ledger"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/model"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/repository"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/worker"
)

// Enfileirador abstracts the Redis job dispatcher so services can queue
// side effects (statement emails, billing notifications) without importing
// the worker package. A nil Enfileirador disables queueing (unit tests).
type Enfileirador interface {
	Enfileirar(ctx context.Context, fila string, payload any) error
}

type MensalistaService interface {
	CriarConta(ctx context.Context, req dto.CriarContaMensalRequest) (*dto.ContaMensalResponse, error)
	Obter(ctx context.Context, id uuid.UUID) (*dto.ContaMensalResponse, error)
	Listar(ctx context.Context) (*dto.ContaMensalListResponse, error)
	AtualizarLimite(ctx context.Context, id uuid.UUID, req dto.AtualizarLimiteRequest) (*dto.ContaMensalResponse, error)
	LancarConsumo(ctx context.Context, contaID uuid.UUID, req dto.LancarConsumoRequest) (*dto.ContaMensalResponse, error)
	RegistrarPagamento(ctx context.Context, contaID uuid.UUID, req dto.PagamentoMensalRequest) (*dto.ContaMensalResponse, error)
	Extrato(ctx context.Context, contaID uuid.UUID) (*dto.ExtratoResponse, error)
	EnviarExtrato(ctx context.Context, contaID uuid.UUID) error
}

type mensalistaService struct {
	repo        repository.MensalistaRepository
	produtoRepo repository.ProdutoRepository
	estoqueRepo repository.EstoqueRepository
	clienteRepo repository.ClienteRepository
	fila        Enfileirador
	now         Clock
}

func NewMensalistaService(
	repo repository.MensalistaRepository,
	produtoRepo repository.ProdutoRepository,
	estoqueRepo repository.EstoqueRepository,
	clienteRepo repository.ClienteRepository,
	fila Enfileirador,
	now Clock,
) MensalistaService {
	return &mensalistaService{
		repo:        repo,
		produtoRepo: produtoRepo,
		estoqueRepo: estoqueRepo,
		clienteRepo: clienteRepo,
		fila:        fila,
		now:         now,
	}
}

func (s *mensalistaService) CriarConta(ctx context.Context, req dto.CriarContaMensalRequest) (*dto.ContaMensalResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id invalido: %w", err)
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil || !cliente.Ativo {
		return nil, errors.New("cliente nao encontrado ou inativo")
	}
	if !req.Limite.IsPositive() {
		return nil, errors.New("limite deve ser maior que zero")
	}
	if existente, err := s.repo.FindByClienteID(ctx, clienteID); err == nil && existente != nil && existente.ID != uuid.Nil {
		return nil, errors.New("cliente ja possui conta mensal")
	}

	conta := &model.ContaMensal{
		ID:          uuid.New(),
		ClienteID:   clienteID,
		Limite:      req.Limite,
		InicioCiclo: s.now(),
	}
	if err := s.repo.CreateConta(ctx, conta); err != nil {
		return nil, err
	}
	conta.Cliente = cliente
	return s.contaToResponse(conta), nil
}

func (s *mensalistaService) Obter(ctx context.Context, id uuid.UUID) (*dto.ContaMensalResponse, error) {
	conta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("conta mensal nao encontrada")
	}
	return s.contaToResponse(conta), nil
}

func (s *mensalistaService) Listar(ctx context.Context) (*dto.ContaMensalListResponse, error) {
	contas, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ContaMensalResponse, 0, len(contas))
	for i := range contas {
		data = append(data, *s.contaToResponse(&contas[i]))
	}
	return &dto.ContaMensalListResponse{Data: data, Total: int64(len(data))}, nil
}

func (s *mensalistaService) AtualizarLimite(ctx context.Context, id uuid.UUID, req dto.AtualizarLimiteRequest) (*dto.ContaMensalResponse, error) {
	if !req.Limite.IsPositive() {
		return nil, errors.New("limite deve ser maior que zero")
	}
	conta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("conta mensal nao encontrada")
	}
	conta.Limite = req.Limite
	if err := s.repo.Update(ctx, conta); err != nil {
		return nil, err
	}
	return s.contaToResponse(conta), nil
}

// LancarConsumo charges the account and decrements stock in one transaction.
// The blocking and limit guards run inside the ledger against the freshly
// loaded aggregate.
func (s *mensalistaService) LancarConsumo(ctx context.Context, contaID uuid.UUID, req dto.LancarConsumoRequest) (*dto.ContaMensalResponse, error) {
	conta, err := s.repo.FindByID(ctx, contaID)
	if err != nil {
		return nil, errors.New("conta mensal nao encontrada")
	}
	produtoID, err := uuid.Parse(req.ProdutoID)
	if err != nil {
		return nil, fmt.Errorf("produto_id invalido: %w", err)
	}
	p, err := s.produtoRepo.FindByID(ctx, produtoID)
	if err != nil {
		return nil, errors.New("produto nao encontrado")
	}
	if p.EstoqueAtual < req.Quantidade {
		return nil, &Rejeicao{Motivo: ledger.MotivoSemEstoque}
	}

	res := ledger.LancarConsumo(conta, p, req.Quantidade, s.now())
	if !res.Aplicado {
		return nil, rejeicao(res)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.SaveTx(tx, conta); err != nil {
			return err
		}
		if err := s.produtoRepo.AjustarEstoqueTx(tx, p.ID, res.EstoqueDelta); err != nil {
			return err
		}
		contaRef := conta.ID
		return s.estoqueRepo.CreateMovimentoTx(tx, &model.MovimentoEstoque{
			ProdutoID:       p.ID,
			Tipo:            "consumo_mensal",
			Quantidade:      res.EstoqueDelta,
			EstoqueAnterior: p.EstoqueAtual,
			EstoqueNovo:     p.EstoqueAtual + res.EstoqueDelta,
			Motivo:          "Lancamento em conta mensal",
			ReferenciaID:    &contaRef,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.contaToResponse(conta), nil
}

// RegistrarPagamento applies a payment; the ledger decides unlock and cycle
// reset. A settling payment (cycle reset) queues a statement email for the
// cycle that just closed.
func (s *mensalistaService) RegistrarPagamento(ctx context.Context, contaID uuid.UUID, req dto.PagamentoMensalRequest) (*dto.ContaMensalResponse, error) {
	conta, err := s.repo.FindByID(ctx, contaID)
	if err != nil {
		return nil, errors.New("conta mensal nao encontrada")
	}

	inicioAnterior := conta.InicioCiclo
	res := ledger.RegistrarPagamentoMensal(conta, req.Valor, req.Metodo, s.now())
	if !res.Aplicado {
		return nil, rejeicao(res)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.SaveTx(tx, conta)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.fila != nil && !conta.InicioCiclo.Equal(inicioAnterior) {
		if err := s.fila.Enfileirar(ctx, worker.FilaEmail, map[string]any{
			"tipo":     "extrato_quitacao",
			"conta_id": conta.ID.String(),
		}); err != nil {
			log.Warn().Err(err).Str("conta_id", conta.ID.String()).
				Msg("falha ao enfileirar extrato de quitacao")
		}
	}
	return s.contaToResponse(conta), nil
}

func (s *mensalistaService) Extrato(ctx context.Context, contaID uuid.UUID) (*dto.ExtratoResponse, error) {
	conta, err := s.repo.FindByID(ctx, contaID)
	if err != nil {
		return nil, errors.New("conta mensal nao encontrada")
	}

	itens := make([]dto.ItemMensalResponse, 0, len(conta.Itens))
	for _, item := range conta.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		itens = append(itens, dto.ItemMensalResponse{
			Produto:    nome,
			Quantidade: item.Quantidade,
			PrecoVenda: item.PrecoVenda,
			Subtotal:   item.PrecoVenda.Mul(decimalFromInt(item.Quantidade)),
			CreatedAt:  item.CreatedAt.Format(time.RFC3339),
		})
	}
	pagamentos := make([]dto.PagamentoMensalResponse, 0, len(conta.Pagamentos))
	for _, p := range conta.Pagamentos {
		pagamentos = append(pagamentos, dto.PagamentoMensalResponse{
			Valor:               p.Valor,
			Metodo:              p.Metodo,
			DesbloqueioAplicado: p.DesbloqueioAplicado,
			CreatedAt:           p.CreatedAt.Format(time.RFC3339),
		})
	}
	return &dto.ExtratoResponse{
		Conta:      *s.contaToResponse(conta),
		Itens:      itens,
		Pagamentos: pagamentos,
	}, nil
}

// EnviarExtrato queues the statement email for async delivery.
func (s *mensalistaService) EnviarExtrato(ctx context.Context, contaID uuid.UUID) error {
	conta, err := s.repo.FindByID(ctx, contaID)
	if err != nil {
		return errors.New("conta mensal nao encontrada")
	}
	if conta.Cliente == nil || conta.Cliente.Email == nil || *conta.Cliente.Email == "" {
		return errors.New("cliente sem email cadastrado")
	}
	if s.fila == nil {
		return errors.New("fila de jobs indisponivel")
	}
	return s.fila.Enfileirar(ctx, worker.FilaEmail, map[string]any{
		"tipo":     "extrato",
		"conta_id": conta.ID.String(),
	})
}

func (s *mensalistaService) contaToResponse(conta *model.ContaMensal) *dto.ContaMensalResponse {
	now := s.now()
	clienteNome := ""
	if conta.Cliente != nil {
		clienteNome = conta.Cliente.Nome
	}
	return &dto.ContaMensalResponse{
		ID:                 conta.ID.String(),
		ClienteID:          conta.ClienteID.String(),
		Cliente:            clienteNome,
		Limite:             conta.Limite,
		Saldo:              ledger.SaldoConta(conta),
		LimiteDisponivel:   ledger.LimiteDisponivel(conta),
		InicioCiclo:        conta.InicioCiclo.Format(time.RFC3339),
		DiasCiclo:          ledger.DiasDesdeInicioCiclo(conta, now),
		EmAtraso:           ledger.EmAtraso(conta, now),
		Bloqueada:          ledger.Bloqueada(conta, now),
		AtrasoDesbloqueado: conta.AtrasoDesbloqueado,
	}
}
