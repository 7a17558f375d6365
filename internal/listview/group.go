package listview

import (
	"sort"
	"sync"

	"github.com/develop-ac/compras-backend/internal/domain"
)

// GrupoFornecedor is one supplier bucket of the order-splitting view.
type GrupoFornecedor struct {
	Key             string                   `json:"key"`
	Fornecedor      string                   `json:"fornecedor"`
	Produtos        []domain.ProdutoDerivado `json:"produtos"`
	ItensManual     []domain.ItemManual      `json:"itens_manuais"`
	TotalQuantidade float64                  `json:"total_quantidade"`
	TotalValor      float64                  `json:"total_valor"`
	ProdutosCount   int                      `json:"produtos_count"`
}

// AgruparPorFornecedor buckets the selected rows by normalized supplier
// key and totals each bucket's effective quantity and order value. Groups
// come back sorted by total value, highest first.
func AgruparPorFornecedor(produtos []domain.ProdutoDerivado, itens []domain.ItemManual, selectedIDs map[int64]bool) []GrupoFornecedor {
	byKey := make(map[string]*GrupoFornecedor)
	order := make([]string, 0)

	group := func(key, label string) *GrupoFornecedor {
		if g, ok := byKey[key]; ok {
			return g
		}
		g := &GrupoFornecedor{Key: key, Fornecedor: label}
		byKey[key] = g
		order = append(order, key)
		return g
	}

	for _, p := range produtos {
		if !selectedIDs[p.IDProdutoTiny] {
			continue
		}
		key := FornecedorKey(p.FornecedorNome)
		label := "Sem fornecedor"
		if key != SemFornecedorKey && p.FornecedorNome != nil {
			label = *p.FornecedorNome
		}
		g := group(key, label)
		g.Produtos = append(g.Produtos, p)
		g.TotalQuantidade += p.SugestaoAjustada
		g.TotalValor += p.TotalValorCalculado
		g.ProdutosCount++
	}

	for _, item := range itens {
		if !selectedIDs[item.ID] {
			continue
		}
		key := FornecedorKey(item.FornecedorCodigo)
		label := "Sem fornecedor"
		if key != SemFornecedorKey && item.FornecedorCodigo != nil {
			label = *item.FornecedorCodigo
		}
		g := group(key, label)
		g.ItensManual = append(g.ItensManual, item)
		g.TotalQuantidade += item.Quantidade
	}

	out := make([]GrupoFornecedor, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalValor > out[j].TotalValor })
	return out
}

// EstadoGrupos tracks which supplier groups are expanded. Groups start
// collapsed.
type EstadoGrupos struct {
	mu       sync.Mutex
	expanded map[string]bool
}

func NewEstadoGrupos() *EstadoGrupos {
	return &EstadoGrupos{expanded: make(map[string]bool)}
}

func (e *EstadoGrupos) Toggle(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.expanded[key] {
		delete(e.expanded, key)
		return
	}
	e.expanded[key] = true
}

func (e *EstadoGrupos) ExpandAll(keys []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expanded = make(map[string]bool, len(keys))
	for _, k := range keys {
		e.expanded[k] = true
	}
}

func (e *EstadoGrupos) CollapseAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expanded = make(map[string]bool)
}

func (e *EstadoGrupos) IsExpanded(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expanded[key]
}
