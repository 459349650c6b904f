package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

type repos struct {
	items     repository.ItemRepository
	locations repository.LocationRepository
	movements repository.MovementRepository
}

func run(ctx context.Context, s *Store, fn func(r repos) error) error {
	return s.Run(ctx, func(
		itemRepo repository.ItemRepository,
		locationRepo repository.LocationRepository,
		_ repository.SupplierRepository,
		movRepo repository.MovementRepository,
	) error {
		return fn(repos{items: itemRepo, locations: locationRepo, movements: movRepo})
	})
}

func TestRun_RollbackDiscardsEverything(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := run(ctx, s, func(r repos) error {
		loc := &entity.Location{ID: "l1", Name: "Bodega", Code: "WH-001", Type: entity.LocationTypeWarehouse}
		require.NoError(t, r.locations.Create(ctx, loc))
		require.NoError(t, r.items.Create(ctx, &entity.Item{ID: "i1", Name: "Pala", SKU: "PA-1", LocationID: &loc.ID}))

		// Dentro de la tx se ve lo preparado
		got, err := r.items.GetByID(ctx, "i1")
		require.NoError(t, err)
		require.NotNil(t, got)
		return boom
	})
	require.ErrorIs(t, err, boom)

	loc, err := s.Locations().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Nil(t, loc)
	it, err := s.Items().GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestRun_CommitRevalidatesUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Dos tx preparan el mismo SKU; la segunda en confirmar falla
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, s, func(r repos) error {
			if err := r.items.Create(ctx, &entity.Item{ID: "a", Name: "A", SKU: "DUP"}); err != nil {
				return err
			}
			<-release
			return nil
		})
	}()

	require.NoError(t, s.Items().Create(ctx, &entity.Item{ID: "b", Name: "B", SKU: "DUP"}))
	close(release)
	require.ErrorIs(t, <-done, domain.ErrConflict)

	list, err := s.Items().List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestGetByIDForUpdate_SerializesPerItem(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Items().Create(ctx, &entity.Item{ID: "i1", Name: "Pala", SKU: "PA-1"}))
	require.NoError(t, s.Items().Create(ctx, &entity.Item{ID: "i2", Name: "Rastrillo", SKU: "RA-1"}))

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, s, func(r repos) error {
			if _, err := r.items.GetByIDForUpdate(ctx, "i1"); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	// Otro artículo no espera
	require.NoError(t, run(ctx, s, func(r repos) error {
		_, err := r.items.GetByIDForUpdate(ctx, "i2")
		return err
	}))

	// El mismo artículo espera hasta agotar el plazo
	short, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	err := run(short, s, func(r repos) error {
		_, err := r.items.GetByIDForUpdate(short, "i1")
		return err
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)

	// Liberado: se puede tomar de nuevo
	require.NoError(t, run(ctx, s, func(r repos) error {
		_, err := r.items.GetByIDForUpdate(ctx, "i1")
		return err
	}))
	assert.Empty(t, s.itemLocks.m)
}

func TestRun_CanceledContextDoesNotCommit(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	err := run(ctx, s, func(r repos) error {
		require.NoError(t, r.items.Create(ctx, &entity.Item{ID: "i1", Name: "Pala", SKU: "PA-1"}))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	it, err := s.Items().GetByID(context.Background(), "i1")
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestPaginate(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}
	assert.Equal(t, list, paginate(list, 0, 0))
	assert.Equal(t, []int{2, 3}, paginate(list, 2, 1))
	assert.Equal(t, []int{5}, paginate(list, 10, 4))
	assert.Nil(t, paginate(list, 2, 5))
}
