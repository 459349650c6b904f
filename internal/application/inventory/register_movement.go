package inventory

import (
	"context"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
)

// ApplyFromRequest adapta el request HTTP al caso de uso Apply(ctx, MovementInput).
// performedBy se usa cuando el body no trae performed_by (usuario del token).
func (uc *ApplyMovementUseCase) ApplyFromRequest(ctx context.Context, performedBy, idempotencyKey string, in dto.ApplyMovementRequest) (*dto.ApplyMovementResponse, error) {
	input := MovementInput{
		ItemID:         in.ItemID,
		Type:           entity.MovementType(in.Type),
		Quantity:       in.Quantity,
		ToLocationID:   in.ToLocationID,
		FromLocationID: in.FromLocationID,
		Notes:          in.Notes,
		PerformedBy:    in.PerformedBy,
		IdempotencyKey: idempotencyKey,
	}
	if input.PerformedBy == "" {
		input.PerformedBy = performedBy
	}
	// Reglas del body y reglas por tipo en una sola respuesta
	if err := domain.JoinInvalid(dto.Validate(in), input.Validate()); err != nil {
		uc.rejected(input, err)
		return nil, err
	}
	item, mov, err := uc.Apply(ctx, input)
	if err != nil {
		return nil, err
	}
	return &dto.ApplyMovementResponse{
		Item:     dto.ItemFromEntity(item),
		Movement: dto.MovementFromEntity(mov),
	}, nil
}
