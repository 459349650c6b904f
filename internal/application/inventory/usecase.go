package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

// Options ajustes del motor de movimientos.
type Options struct {
	// AutoStatus mueve AVAILABLE <-> OUT_OF_STOCK según la cantidad resultante.
	AutoStatus bool
	Guard      IdempotencyGuard
	Recorder   MovementRecorder
	Now        func() time.Time
}

// ApplyMovementUseCase aplica movimientos de inventario de forma transaccional
// (TRANSFER, RECEIPT, SHIPMENT, ADJUSTMENT, RETURN) con bloqueo del artículo y Commit/Rollback.
type ApplyMovementUseCase struct {
	txRunner   TxRunner
	log        zerolog.Logger
	autoStatus bool
	guard      IdempotencyGuard
	recorder   MovementRecorder
	now        func() time.Time
}

// NewApplyMovementUseCase construye el caso de uso.
func NewApplyMovementUseCase(txRunner TxRunner, log zerolog.Logger, opts Options) *ApplyMovementUseCase {
	uc := &ApplyMovementUseCase{
		txRunner:   txRunner,
		log:        log,
		autoStatus: opts.AutoStatus,
		guard:      opts.Guard,
		recorder:   opts.Recorder,
		now:        opts.Now,
	}
	if uc.recorder == nil {
		uc.recorder = nopRecorder{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

// MovementInput entrada para aplicar un movimiento.
// FromLocationID es opcional (ausente en RECEIPT); IdempotencyKey vacío desactiva la deduplicación.
type MovementInput struct {
	ItemID         string
	Type           entity.MovementType
	Quantity       int64
	ToLocationID   string
	FromLocationID *string
	Notes          string
	PerformedBy    string
	IdempotencyKey string
}

// Validate devuelve todas las violaciones de campo juntas.
func (in MovementInput) Validate() error {
	var v []domain.FieldViolation
	if in.ItemID == "" {
		v = append(v, domain.FieldViolation{Field: "item_id", Message: "es obligatorio"})
	}
	if !in.Type.Valid() {
		v = append(v, domain.FieldViolation{Field: "type", Message: "debe ser TRANSFER, RECEIPT, SHIPMENT, ADJUSTMENT o RETURN"})
	} else if in.Quantity < inventory.MinQuantity(in.Type) {
		msg := "debe ser mayor que cero"
		if in.Type == entity.MovementTypeAdjustment {
			msg = "no puede ser negativa"
		}
		v = append(v, domain.FieldViolation{Field: "quantity", Message: msg})
	}
	if in.ToLocationID == "" {
		v = append(v, domain.FieldViolation{Field: "to_location_id", Message: "es obligatorio"})
	}
	if in.FromLocationID != nil && *in.FromLocationID == "" {
		v = append(v, domain.FieldViolation{Field: "from_location_id", Message: "no puede estar vacío"})
	}
	if len(v) > 0 {
		return domain.InvalidFields(v)
	}
	return nil
}

// Apply valida la entrada, bloquea el artículo, calcula la nueva cantidad según el tipo,
// re-ubica el artículo en el destino y guarda el movimiento, todo en una sola transacción.
func (uc *ApplyMovementUseCase) Apply(ctx context.Context, in MovementInput) (*entity.Item, *entity.Movement, error) {
	if err := in.Validate(); err != nil {
		uc.rejected(in, err)
		return nil, nil, err
	}

	if in.IdempotencyKey != "" && uc.guard != nil {
		ok, err := uc.guard.Reserve(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, nil, fmt.Errorf("reservar clave de idempotencia: %w", err)
		}
		if !ok {
			err := domain.Conflict("movement", "idempotency_key", "la petición con esta clave ya fue procesada")
			uc.rejected(in, err)
			return nil, nil, err
		}
	}

	var item *entity.Item
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		locationRepo repository.LocationRepository,
		_ repository.SupplierRepository,
		movRepo repository.MovementRepository,
	) error {
		// Bloquea el artículo para serializar movimientos concurrentes sobre él
		it, err := itemRepo.GetByIDForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if it == nil {
			return domain.NotFound("item", in.ItemID)
		}
		to, err := locationRepo.GetByID(ctx, in.ToLocationID)
		if err != nil {
			return err
		}
		if to == nil {
			return domain.NotFound("location", in.ToLocationID)
		}
		if in.FromLocationID != nil {
			from, err := locationRepo.GetByID(ctx, *in.FromLocationID)
			if err != nil {
				return err
			}
			if from == nil {
				return domain.NotFound("location", *in.FromLocationID)
			}
		}

		next, err := inventory.NextQuantity(it.ID, in.Type, it.Quantity, in.Quantity)
		if err != nil {
			return err
		}

		now := uc.now().UTC()
		it.Quantity = next
		it.LocationID = &to.ID
		if uc.autoStatus {
			it.SyncStatus()
		}
		it.UpdatedAt = now
		if err := itemRepo.Update(ctx, it); err != nil {
			return err
		}

		m := &entity.Movement{
			ID:             uuid.New().String(),
			ItemID:         it.ID,
			FromLocationID: in.FromLocationID,
			ToLocationID:   to.ID,
			Quantity:       in.Quantity,
			Type:           in.Type,
			Notes:          in.Notes,
			MovementDate:   now,
			PerformedBy:    in.PerformedBy,
		}
		if err := movRepo.Create(ctx, m); err != nil {
			return err
		}
		item, mov = it, m
		return nil
	})
	if err != nil {
		if in.IdempotencyKey != "" && uc.guard != nil {
			if rerr := uc.guard.Release(context.WithoutCancel(ctx), in.IdempotencyKey); rerr != nil {
				uc.log.Warn().Err(rerr).Str("key", in.IdempotencyKey).Msg("no se pudo liberar la clave de idempotencia")
			}
		}
		uc.rejected(in, err)
		return nil, nil, err
	}

	uc.recorder.MovementApplied(string(in.Type))
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("item_id", item.ID).
		Str("type", string(mov.Type)).
		Int64("quantity", mov.Quantity).
		Int64("on_hand", item.Quantity).
		Str("to_location_id", mov.ToLocationID).
		Msg("movimiento aplicado")
	return item, mov, nil
}

func (uc *ApplyMovementUseCase) rejected(in MovementInput, err error) {
	reason := string(domain.KindOf(err))
	if reason == "" {
		reason = "ERROR"
	}
	uc.recorder.MovementRejected(string(in.Type), reason)
	ev := uc.log.Warn()
	if reason == "ERROR" {
		ev = uc.log.Error()
	}
	ev.Err(err).
		Str("item_id", in.ItemID).
		Str("type", string(in.Type)).
		Int64("quantity", in.Quantity).
		Msg("movimiento rechazado")
}
