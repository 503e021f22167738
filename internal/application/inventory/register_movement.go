package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// RegisterMovementUseCase registra un movimiento manual en su propia transacción.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	ledger   *Ledger
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, ledger *Ledger, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, ledger: ledger, log: log}
}

// Register aplica el movimiento. Origin vacío = AJUSTE_MANUAL.
func (uc *RegisterMovementUseCase) Register(ctx context.Context, actor entity.Actor, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	origin := in.Origin
	if origin == "" {
		origin = entity.OriginAjusteManual
	}
	var movement *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		m, err := uc.ledger.Record(ctx, repos, actor, RecordInput{
			ProductID:   in.ProductID,
			Type:        in.Type,
			Origin:      origin,
			Quantity:    in.Quantity,
			ReferenceID: in.ReferenceID,
			Notes:       in.Notes,
		})
		if err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Str("type", in.Type).
			Int("quantity", in.Quantity).
			Str("user_id", actor.ID).
			Msg("movimiento rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", movement.ID).
		Str("product_id", movement.ProductID).
		Int("stock_before", movement.StockBefore).
		Int("stock_after", movement.StockAfter).
		Msg("movimiento registrado")
	resp := ToMovementResponse(movement)
	return &resp, nil
}

// ToMovementResponse convierte la entidad en DTO.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductCode: m.ProductCode,
		ProductName: m.ProductName,
		Type:        m.Type,
		Origin:      m.Origin,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		ReferenceID: m.ReferenceID,
		Notes:       m.Notes,
		UserID:      m.UserID,
		UserName:    m.UserName,
		MovedAt:     m.MovedAt,
		CreatedAt:   m.CreatedAt,
	}
}

// ToMovementResponses convierte una lista de entidades.
func ToMovementResponses(list []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}
