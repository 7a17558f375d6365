// Package listview shapes the derived product list for display: free-text
// and supplier filters, multi-column sort and supplier grouping for
// order-splitting.
package listview

import (
	"strings"

	"github.com/develop-ac/compras-backend/internal/domain"
)

// SemFornecedorKey is the canonical bucket for products without a supplier.
const SemFornecedorKey = "__sem_fornecedor__"

// SelectionFilter restricts the list to selected or unselected rows.
type SelectionFilter string

const (
	SelectionAll        SelectionFilter = "all"
	SelectionSelected   SelectionFilter = "selected"
	SelectionUnselected SelectionFilter = "unselected"
)

// FornecedorKey normalizes a supplier name into a filter/group key. Blank
// or missing names collapse into the single no-supplier bucket.
func FornecedorKey(nome *string) string {
	if nome == nil {
		return SemFornecedorKey
	}
	s := strings.TrimSpace(*nome)
	if s == "" {
		return SemFornecedorKey
	}
	return strings.ToLower(s)
}

// Filtro holds the active workbench filters.
type Filtro struct {
	// TermoProduto matches case-insensitively against name, code and GTIN.
	TermoProduto string
	// Fornecedores is a set of normalized supplier keys; empty means no
	// supplier filtering.
	Fornecedores map[string]bool
	// Selecao restricts rows by the externally supplied selection map.
	Selecao SelectionFilter
}

// Apply returns the products passing every active filter, preserving
// input order.
func (f Filtro) Apply(produtos []domain.ProdutoDerivado, selectedIDs map[int64]bool) []domain.ProdutoDerivado {
	termo := strings.ToLower(strings.TrimSpace(f.TermoProduto))

	out := make([]domain.ProdutoDerivado, 0, len(produtos))
	for _, p := range produtos {
		if termo != "" && !matchesTermo(&p, termo) {
			continue
		}
		if len(f.Fornecedores) > 0 && !f.Fornecedores[FornecedorKey(p.FornecedorNome)] {
			continue
		}
		switch f.Selecao {
		case SelectionSelected:
			if !selectedIDs[p.IDProdutoTiny] {
				continue
			}
		case SelectionUnselected:
			if selectedIDs[p.IDProdutoTiny] {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func matchesTermo(p *domain.ProdutoDerivado, termo string) bool {
	campos := []string{p.Nome, p.Codigo}
	if p.GTIN != nil {
		campos = append(campos, *p.GTIN)
	}
	for _, campo := range campos {
		if strings.TrimSpace(campo) == "" {
			continue
		}
		if strings.Contains(strings.ToLower(campo), termo) {
			return true
		}
	}
	return false
}

// FilterManualItems applies the selection filter to manual lines.
func FilterManualItems(itens []domain.ItemManual, selecao SelectionFilter, selectedIDs map[int64]bool) []domain.ItemManual {
	if selecao == SelectionAll || selecao == "" {
		return itens
	}
	out := make([]domain.ItemManual, 0, len(itens))
	for _, item := range itens {
		if (selecao == SelectionSelected) == selectedIDs[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

// FornecedorOption is a dropdown entry for the supplier filter.
type FornecedorOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FornecedorOptions collects the distinct suppliers present in the list,
// sorted by label with pt-BR collation.
func FornecedorOptions(produtos []domain.ProdutoDerivado) []FornecedorOption {
	byKey := make(map[string]*FornecedorOption)
	order := make([]string, 0)
	for _, p := range produtos {
		key := FornecedorKey(p.FornecedorNome)
		if opt, ok := byKey[key]; ok {
			opt.Count++
			continue
		}
		label := "Sem fornecedor"
		if key != SemFornecedorKey && p.FornecedorNome != nil {
			label = *p.FornecedorNome
		}
		byKey[key] = &FornecedorOption{Value: key, Label: label, Count: 1}
		order = append(order, key)
	}

	out := make([]FornecedorOption, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sortOptionsByLabel(out)
	return out
}
