package report

import (
	"context"
	"strconv"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
)

// flightState construcciones de una clave: la última lanzada y la que aún no empezó a consultar.
type flightState struct {
	seq     uint64
	pending string
	run     func() (interface{}, error)
	last    chan struct{}
}

// build agrupa construcciones concurrentes por clave. Un solicitante solo se une a una
// construcción que todavía no consultó el repositorio; si la vigente ya consultó, espera a
// la siguiente, que arranca cuando termina la anterior. Así el resultado refleja todo lo
// confirmado antes de la llamada. La consulta compartida no se cancela si el primer
// solicitante abandona; cada solicitante deja de esperar con su propio contexto.
func (uc *ReportUseCase) build(ctx context.Context, key string, fn func(context.Context) (*dto.StockReportDTO, error)) (*dto.StockReportDTO, error) {
	uc.mu.Lock()
	st := uc.flights[key]
	if st == nil {
		st = &flightState{}
		uc.flights[key] = st
	}
	if st.pending == "" {
		st.seq++
		flightKey := key + "#" + strconv.FormatUint(st.seq, 10)
		prev, done := st.last, make(chan struct{})
		st.pending, st.last = flightKey, done
		bg := context.WithoutCancel(ctx)
		st.run = func() (interface{}, error) {
			defer close(done)
			if prev != nil {
				<-prev
			}
			uc.mu.Lock()
			if st.pending == flightKey {
				st.pending = ""
			}
			uc.mu.Unlock()
			return fn(bg)
		}
	}
	// DoChan bajo el mutex: la construcción pendiente no puede empezar a consultar antes de unirse
	resultChan := uc.group.DoChan(st.pending, st.run)
	uc.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.StockReportDTO), nil
	}
}
