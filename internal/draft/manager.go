// Package draft owns the mutable workbench state a purchasing user builds
// up before placing an order: quantity overrides, in-progress input drafts,
// row selection and free-form manual items.
package draft

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/develop-ac/compras-backend/internal/domain"
)

// Manager holds override, draft and selection state for one workbench
// session. All methods are safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	overrides map[int64]float64
	drafts    map[int64]string
	selected  map[int64]bool
	manual    []domain.ItemManual

	nextManualID func() int64
}

func NewManager() *Manager {
	return &Manager{
		overrides: make(map[int64]float64),
		drafts:    make(map[int64]string),
		selected:  make(map[int64]bool),
		nextManualID: func() int64 {
			return time.Now().UnixMilli()
		},
	}
}

// parseQuantidade accepts the decimal comma used in pt-BR input.
func parseQuantidade(raw string) (float64, bool) {
	normalized := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if normalized == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SetOverrideInput records a keystroke in the quantity field. The raw text
// is kept as the row's draft so the visible input never fights the user;
// when it parses, the override is updated eagerly. An empty input or a
// value equal to the calculated suggestion clears the override so the row
// falls back to the calculation.
func (m *Manager) SetOverrideInput(id int64, raw string, calculada float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.drafts[id] = raw

	v, ok := parseQuantidade(raw)
	if !ok {
		// Non-numeric or empty input: the row falls back to the calculated
		// suggestion until a valid commit.
		delete(m.overrides, id)
		return
	}
	coerced := math.Max(0, math.Round(v))
	if coerced == calculada {
		delete(m.overrides, id)
		return
	}
	m.overrides[id] = coerced
}

// CommitOverride resolves the row's draft on blur. A finite non-negative
// value is promoted into the override map; anything else is discarded and
// the display reverts to the last committed value.
func (m *Manager) CommitOverride(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.drafts[id]
	delete(m.drafts, id)
	if !ok {
		return
	}
	v, parsed := parseQuantidade(raw)
	if !parsed || v < 0 {
		return
	}
	m.overrides[id] = math.Round(v)
}

// ClearOverride drops the override for a product so the calculated
// suggestion applies again.
func (m *Manager) ClearOverride(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.overrides, id)
	delete(m.drafts, id)
}

// Override reports the committed override for a product, if any.
func (m *Manager) Override(id int64) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.overrides[id]
	return v, ok
}

// Draft reports the uncommitted input text for a product, if any.
func (m *Manager) Draft(id int64) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.drafts[id]
	return v, ok
}

// EffectiveQuantity is the quantity the order will use: the override when
// one is committed, the calculated suggestion otherwise.
func (m *Manager) EffectiveQuantity(id int64, calculada float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.overrides[id]; ok {
		return math.Max(0, v)
	}
	return calculada
}

// Overrides returns a copy of the committed override map, suitable for
// feeding the calculator.
func (m *Manager) Overrides() map[int64]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]float64, len(m.overrides))
	for k, v := range m.overrides {
		out[k] = v
	}
	return out
}

// ToggleSelection flips a row in or out of the current selection.
func (m *Manager) ToggleSelection(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected[id] {
		delete(m.selected, id)
		return
	}
	m.selected[id] = true
}

// SelectAll marks every given id as selected, keeping prior selections.
func (m *Manager) SelectAll(ids []int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.selected[id] = true
	}
}

// ClearSelection empties the selection.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = make(map[int64]bool)
}

// SelectedIDs returns a copy of the selection map.
func (m *Manager) SelectedIDs() map[int64]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]bool, len(m.selected))
	for k, v := range m.selected {
		if v {
			out[k] = true
		}
	}
	return out
}

// SelectionCount reports how many rows are selected.
func (m *Manager) SelectionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.selected {
		if v {
			n++
		}
	}
	return n
}

// Prune drops selection entries and overrides for products that no longer
// exist in the snapshot list. Manual item ids are kept: they live outside
// the catalog.
func (m *Manager) Prune(validIDs []int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	valid := make(map[int64]bool, len(validIDs))
	for _, id := range validIDs {
		valid[id] = true
	}
	for _, item := range m.manual {
		valid[item.ID] = true
	}

	for id := range m.selected {
		if !valid[id] {
			delete(m.selected, id)
		}
	}
	for id := range m.overrides {
		if !valid[id] {
			delete(m.overrides, id)
			delete(m.drafts, id)
		}
	}
}

// AddManualItem appends a free-form line, assigns it a synthetic id and
// selects it so it lands in the current order.
func (m *Manager) AddManualItem(item domain.ItemManual) domain.ItemManual {
	m.mu.Lock()
	defer m.mu.Unlock()

	item.ID = m.nextManualID()
	for m.manualIDExistsLocked(item.ID) {
		item.ID++
	}
	m.manual = append(m.manual, item)
	m.selected[item.ID] = true
	return item
}

func (m *Manager) manualIDExistsLocked(id int64) bool {
	for _, it := range m.manual {
		if it.ID == id {
			return true
		}
	}
	return false
}

// EditManualItem replaces the stored fields of a manual line. Unknown ids
// are ignored.
func (m *Manager) EditManualItem(id int64, update domain.ItemManual) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.manual {
		if m.manual[i].ID == id {
			update.ID = id
			m.manual[i] = update
			return
		}
	}
}

// DeleteManualItem removes a manual line and its selection entry.
func (m *Manager) DeleteManualItem(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.manual {
		if m.manual[i].ID == id {
			m.manual = append(m.manual[:i], m.manual[i+1:]...)
			break
		}
	}
	delete(m.selected, id)
}

// ManualItems returns a copy of the manual lines in insertion order.
func (m *Manager) ManualItems() []domain.ItemManual {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ItemManual, len(m.manual))
	copy(out, m.manual)
	return out
}

// Snapshot captures the draft as a persistable order.
func (m *Manager) Snapshot(nome string, periodDays, targetDays int) domain.PedidoRascunho {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := domain.PedidoRascunho{
		Nome:        nome,
		PeriodDays:  periodDays,
		TargetDays:  targetDays,
		Overrides:   make(map[int64]float64, len(m.overrides)),
		SelectedIDs: make(map[int64]bool, len(m.selected)),
		ItensManual: make([]domain.ItemManual, len(m.manual)),
		SavedAt:     time.Now(),
	}
	for k, v := range m.overrides {
		p.Overrides[k] = v
	}
	for k, v := range m.selected {
		if v {
			p.SelectedIDs[k] = true
		}
	}
	copy(p.ItensManual, m.manual)
	return p
}

// Restore replaces the draft state with a previously saved order.
func (m *Manager) Restore(p domain.PedidoRascunho) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.overrides = make(map[int64]float64, len(p.Overrides))
	for k, v := range p.Overrides {
		if !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 {
			m.overrides[k] = v
		}
	}
	m.selected = make(map[int64]bool, len(p.SelectedIDs))
	for k, v := range p.SelectedIDs {
		if v {
			m.selected[k] = true
		}
	}
	m.drafts = make(map[int64]string)
	m.manual = make([]domain.ItemManual, len(p.ItensManual))
	copy(m.manual, p.ItensManual)
	sort.SliceStable(m.manual, func(i, j int) bool { return m.manual[i].ID < m.manual[j].ID })
}
