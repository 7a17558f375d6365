// Package autosave batches per-row edits to purchasing fields and persists
// them without a save call per keystroke. Each product id gets its own
// debounce timer and a saving/saved/error status the table surfaces next
// to the row.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/develop-ac/compras-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DebounceInterval is how long a row's edits accumulate before a save.
	DebounceInterval = 800 * time.Millisecond

	// savedDisplayWindow is how long the "saved" badge stays visible.
	savedDisplayWindow = 2500 * time.Millisecond
)

// Persister is the PATCH boundary: persist the purchasing fields of one
// product. Only success matters for retry purposes.
type Persister interface {
	UpdateCamposCompras(ctx context.Context, id int64, payload Payload) error
}

// SnapshotSource exposes the last-known-good snapshot for a product so a
// partial edit can be merged into a full payload.
type SnapshotSource interface {
	Snapshot(id int64) (domain.Sugestao, bool)
}

// Payload carries the full set of autosaved purchasing fields. Nil means
// the field is unset, not empty.
type Payload struct {
	FornecedorCodigo  *string `json:"fornecedor_codigo"`
	EmbalagemQtd      *int    `json:"embalagem_qtd"`
	ObservacaoCompras *string `json:"observacao_compras"`
	LeadTimeDias      *int    `json:"lead_time_dias"`
}

// Partial is an edit touching a subset of the autosaved fields. A field
// participates only when its Set flag is true; its value may still be nil
// (explicitly cleared).
type Partial struct {
	FornecedorCodigo     *string
	FornecedorCodigoSet  bool
	EmbalagemQtd         *int
	EmbalagemQtdSet      bool
	ObservacaoCompras    *string
	ObservacaoComprasSet bool
	LeadTimeDias         *int
	LeadTimeDiasSet      bool
}

// Coordinator debounces and persists row edits. All exported methods are
// safe for concurrent use; per-id state is last-write-wins.
type Coordinator struct {
	persister Persister
	source    SnapshotSource
	debounce  time.Duration

	mu          sync.Mutex
	pending     map[int64]Payload
	seq         map[int64]uint64
	timers      map[int64]*time.Timer
	status      map[int64]domain.SyncState
	clearTimers map[int64]*time.Timer
}

func NewCoordinator(persister Persister, source SnapshotSource) *Coordinator {
	return &Coordinator{
		persister:   persister,
		source:      source,
		debounce:    DebounceInterval,
		pending:     make(map[int64]Payload),
		seq:         make(map[int64]uint64),
		timers:      make(map[int64]*time.Timer),
		status:      make(map[int64]domain.SyncState),
		clearTimers: make(map[int64]*time.Timer),
	}
}

// SetDebounce overrides the debounce interval. Intended for tests.
func (c *Coordinator) SetDebounce(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debounce = d
}

// buildPayload merges a partial edit onto the sanitized last-known-good
// values so editing one field never clobbers the others.
func (c *Coordinator) buildPayload(id int64, partial Partial) (Payload, bool) {
	produto, ok := c.source.Snapshot(id)
	if !ok {
		return Payload{}, false
	}

	var merged Payload
	if partial.FornecedorCodigoSet {
		merged.FornecedorCodigo = partial.FornecedorCodigo
	} else {
		merged.FornecedorCodigo = SanitizeFornecedor(produto.FornecedorCodigo)
	}
	if partial.EmbalagemQtdSet {
		merged.EmbalagemQtd = partial.EmbalagemQtd
	} else {
		emb := produto.EmbalagemQtd
		merged.EmbalagemQtd = SanitizeEmbalagem(&emb)
	}
	if partial.ObservacaoComprasSet {
		merged.ObservacaoCompras = partial.ObservacaoCompras
	} else {
		merged.ObservacaoCompras = SanitizeObservacao(produto.ObservacaoCompras)
	}
	if partial.LeadTimeDiasSet {
		merged.LeadTimeDias = partial.LeadTimeDias
	}
	return merged, true
}

// ScheduleSave merges a partial edit into the pending payload for id,
// marks the row as saving and (re)starts its debounce timer. Repeated
// calls within the window collapse into a single persistence call with
// the latest payload.
func (c *Coordinator) ScheduleSave(id int64, partial Partial) {
	payload, ok := c.buildPayload(id, partial)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending[id] = payload
	c.seq[id]++
	c.setStatusLocked(id, domain.SyncSaving)

	if t, ok := c.timers[id]; ok {
		t.Stop()
	}
	c.timers[id] = time.AfterFunc(c.debounce, func() {
		c.Flush(context.Background(), id)
	})
}

// Flush cancels the row's timer and persists its pending payload now. On
// success the row shows saved for a short window; on failure the payload
// is retained so the edit is not lost, unless a newer edit superseded it
// mid-flight.
func (c *Coordinator) Flush(ctx context.Context, id int64) error {
	c.mu.Lock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	payload, ok := c.pending[id]
	if !ok {
		delete(c.status, id)
		c.mu.Unlock()
		return nil
	}
	delete(c.pending, id)
	flushSeq := c.seq[id]
	c.setStatusLocked(id, domain.SyncSaving)
	c.mu.Unlock()

	err := c.persister.UpdateCamposCompras(ctx, id, payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Int64("id_produto_tiny", id).Msg("auto-save failed")
		c.setStatusLocked(id, domain.SyncError)
		// Keep the unsent edit unless a newer one arrived while we were
		// in flight; the newer payload wins outright.
		if c.seq[id] == flushSeq {
			c.pending[id] = payload
		}
		return err
	}

	if c.seq[id] != flushSeq {
		// A newer edit is already pending; leave its saving status alone.
		return nil
	}

	c.setStatusLocked(id, domain.SyncSaved)
	c.scheduleStatusClearLocked(id)
	return nil
}

// FlushAll persists every pending row concurrently. Used before
// navigation or shutdown. Failures stay row-scoped: one product's error
// never cancels another row's in-flight save. The first error is
// returned after every row has been attempted.
func (c *Coordinator) FlushAll(ctx context.Context) error {
	c.mu.Lock()
	ids := make([]int64, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			return c.Flush(ctx, id)
		})
	}
	return g.Wait()
}

// Retry rebuilds a fresh payload from the row's current values and
// schedules it again. Used when the user clicks the error indicator.
func (c *Coordinator) Retry(id int64) {
	produto, ok := c.source.Snapshot(id)
	if !ok {
		return
	}
	emb := produto.EmbalagemQtd
	c.ScheduleSave(id, Partial{
		FornecedorCodigo:     SanitizeFornecedor(produto.FornecedorCodigo),
		FornecedorCodigoSet:  true,
		EmbalagemQtd:         SanitizeEmbalagem(&emb),
		EmbalagemQtdSet:      true,
		ObservacaoCompras:    SanitizeObservacao(produto.ObservacaoCompras),
		ObservacaoComprasSet: true,
	})
}

// Status reports the sync state for one row; ok is false when the row has
// no pending change.
func (c *Coordinator) Status(id int64) (domain.SyncState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.status[id]
	return s, ok
}

// StatusMap returns a copy of every row's sync state.
func (c *Coordinator) StatusMap() map[int64]domain.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int64]domain.SyncState, len(c.status))
	for k, v := range c.status {
		out[k] = v
	}
	return out
}

// HasPending reports whether a row still has an unsent payload.
func (c *Coordinator) HasPending(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[id]
	return ok
}

func (c *Coordinator) setStatusLocked(id int64, s domain.SyncState) {
	if t, ok := c.clearTimers[id]; ok {
		t.Stop()
		delete(c.clearTimers, id)
	}
	c.status[id] = s
}

// scheduleStatusClearLocked removes the saved badge after the display
// window, unless the row moved to a newer state in the meantime.
func (c *Coordinator) scheduleStatusClearLocked(id int64) {
	c.clearTimers[id] = time.AfterFunc(savedDisplayWindow, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.status[id] == domain.SyncSaved {
			delete(c.status, id)
		}
		delete(c.clearTimers, id)
	})
}
