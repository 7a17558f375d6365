// internal/service/compras_service.go
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/develop-ac/compras-backend/internal/autosave"
	"github.com/develop-ac/compras-backend/internal/cache"
	"github.com/develop-ac/compras-backend/internal/domain"
	"github.com/develop-ac/compras-backend/internal/draft"
	"github.com/develop-ac/compras-backend/internal/listview"
	"github.com/develop-ac/compras-backend/internal/repository"
	"github.com/develop-ac/compras-backend/internal/suggestion"
	"github.com/rs/zerolog/log"
)

// ReloadDebounce is how long parameter changes accumulate before the
// snapshot list is reloaded.
const ReloadDebounce = 350 * time.Millisecond

// ComprasService drives one purchasing workbench session: it loads
// snapshots, derives suggestions, overlays the user's draft and keeps the
// row autosaves flowing.
type ComprasService struct {
	repo      repository.SugestaoRepository
	cache     cache.SugestaoCache
	Draft     *draft.Manager
	AutoSave  *autosave.Coordinator
	persister repository.ProdutoComprasRepository

	mu            sync.Mutex
	dados         []domain.Sugestao
	periodDays    int
	targetDays    int
	minTargetDays int
	maxTargetDays int
	loading       bool
	loadErr       string
	lastUpdatedAt *time.Time
	cancelLoad    context.CancelFunc
	loadSeq       uint64
	reloadTimer   *time.Timer
	reloadDelay   time.Duration
}

func NewComprasService(repo repository.SugestaoRepository, persister repository.ProdutoComprasRepository, sugestaoCache cache.SugestaoCache) *ComprasService {
	s := &ComprasService{
		repo:          repo,
		cache:         sugestaoCache,
		persister:     persister,
		Draft:         draft.NewManager(),
		periodDays:    suggestion.DefaultPeriodDias,
		targetDays:    suggestion.DefaultCoberturaDias,
		minTargetDays: suggestion.MinCoberturaDias,
		maxTargetDays: suggestion.MaxCoberturaDias,
		reloadDelay:   ReloadDebounce,
	}
	s.AutoSave = autosave.NewCoordinator(s, s)
	return s
}

// UpdateCamposCompras implements autosave.Persister: it writes through to
// the repository and drops the cached snapshot lists, which still carry
// the old field values.
func (s *ComprasService) UpdateCamposCompras(ctx context.Context, id int64, payload autosave.Payload) error {
	if err := s.persister.UpdateCamposCompras(ctx, id, payload); err != nil {
		return err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("suggestion cache invalidation failed")
	}
	return nil
}

// Snapshot implements autosave.SnapshotSource against the last loaded
// data, so partial edits merge onto current values.
func (s *ComprasService) Snapshot(id int64) (domain.Sugestao, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.dados {
		if p.IDProdutoTiny == id {
			return p, true
		}
	}
	return domain.Sugestao{}, false
}

// Load fetches a fresh snapshot list. A load started while another is in
// flight aborts the older one; the aborted load is silent and leaves the
// previously loaded data in place. On genuine failure the error message is
// kept and the old data survives.
func (s *ComprasService) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancelLoad = cancel
	s.loadSeq++
	seq := s.loadSeq
	s.loading = true
	s.loadErr = ""
	periodDays := s.periodDays
	s.mu.Unlock()

	dados, err := s.fetch(loadCtx, periodDays)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		// Superseded by a newer load; the newer requester owns the state.
		return nil
	}
	s.loading = false
	s.cancelLoad = nil

	if err != nil && errors.Is(loadCtx.Err(), context.Canceled) {
		// Caller-initiated abort, not an error state.
		return nil
	}

	if err != nil {
		log.Error().Err(err).Int("period_days", periodDays).Msg("failed to load purchase suggestions")
		s.loadErr = "Erro ao carregar sugestões"
		return err
	}

	s.dados = dados
	now := time.Now()
	s.lastUpdatedAt = &now

	ids := make([]int64, len(dados))
	for i, p := range dados {
		ids[i] = p.IDProdutoTiny
	}
	s.Draft.Prune(ids)
	return nil
}

func (s *ComprasService) fetch(ctx context.Context, periodDays int) ([]domain.Sugestao, error) {
	if cached, ok, err := s.cache.Get(ctx, periodDays); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("suggestion cache read failed")
	}

	dados, err := s.repo.ListSugestoes(ctx, periodDays)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, periodDays, dados); err != nil {
		log.Warn().Err(err).Msg("suggestion cache write failed")
	}
	return dados, nil
}

// SetPeriodDays accepts a new historical window and schedules a debounced
// reload. Values below 1 are ignored.
func (s *ComprasService) SetPeriodDays(dias int) {
	if dias < 1 {
		return
	}
	s.mu.Lock()
	s.periodDays = dias
	s.mu.Unlock()
	s.scheduleReload()
}

// SetTargetDays accepts a new coverage window. Values outside the
// configured range are ignored; the coverage only affects the derivation,
// but the reload keeps lastUpdatedAt honest for the UI.
func (s *ComprasService) SetTargetDays(dias int) {
	s.mu.Lock()
	if dias < s.minTargetDays || dias > s.maxTargetDays {
		s.mu.Unlock()
		return
	}
	s.targetDays = dias
	s.mu.Unlock()
	s.scheduleReload()
}

// SetTargetBounds replaces the accepted coverage range. Nonsensical
// bounds are ignored; the current target is clamped into the new range.
func (s *ComprasService) SetTargetBounds(min, max int) {
	if min < 1 || max < min {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minTargetDays = min
	s.maxTargetDays = max
	if s.targetDays < min {
		s.targetDays = min
	}
	if s.targetDays > max {
		s.targetDays = max
	}
}

// scheduleReload collapses bursts of parameter changes into one load.
// There is a single reload timer; a new change replaces the pending one.
func (s *ComprasService) scheduleReload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reloadTimer != nil {
		s.reloadTimer.Stop()
	}
	s.reloadTimer = time.AfterFunc(s.reloadDelay, func() {
		if err := s.Load(context.Background()); err != nil {
			log.Error().Err(err).Msg("debounced reload failed")
		}
	})
}

// SetReloadDelay overrides the reload debounce. Intended for tests.
func (s *ComprasService) SetReloadDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadDelay = d
}

// SetDados replaces the snapshot list directly. Used by tests and by
// callers with pre-loaded data.
func (s *ComprasService) SetDados(dados []domain.Sugestao) {
	s.mu.Lock()
	s.dados = dados
	now := time.Now()
	s.lastUpdatedAt = &now
	s.mu.Unlock()
}

// Params reports the current calculation parameters.
func (s *ComprasService) Params() (periodDays, targetDays int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.periodDays, s.targetDays
}

// LoadState reports loading flag, last error message and last successful
// load time.
func (s *ComprasService) LoadState() (loading bool, errMsg string, lastUpdatedAt *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, s.loadErr, s.lastUpdatedAt
}

// Derivados recomputes the derived list from the current snapshots,
// coverage window and committed overrides. Pure with respect to those
// inputs; calling it twice without changes yields equal results.
func (s *ComprasService) Derivados() []domain.ProdutoDerivado {
	s.mu.Lock()
	dados := make([]domain.Sugestao, len(s.dados))
	copy(dados, s.dados)
	targetDays := s.targetDays
	s.mu.Unlock()

	return suggestion.Calculate(dados, targetDays, s.Draft.Overrides())
}

// View applies filter and sort on top of the derived list.
func (s *ComprasService) View(filtro listview.Filtro, sortCfg listview.SortConfig) []domain.ProdutoDerivado {
	derivados := s.Derivados()
	filtered := filtro.Apply(derivados, s.Draft.SelectedIDs())
	return sortCfg.Sort(filtered)
}

// GruposFornecedor builds the supplier-split view over the selected rows.
func (s *ComprasService) GruposFornecedor() []listview.GrupoFornecedor {
	return listview.AgruparPorFornecedor(s.Derivados(), s.Draft.ManualItems(), s.Draft.SelectedIDs())
}
