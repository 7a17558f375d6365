package listview

import (
	"sort"

	"github.com/develop-ac/compras-backend/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator compares strings with pt-BR collation, ignoring case the way
// the workbench table always has.
var collator = collate.New(language.BrazilianPortuguese, collate.IgnoreCase)

// SortConfig is the ordered list of active sort columns.
type SortConfig []domain.SortEntry

// ParseSortEntry maps a raw key/direction pair onto a sort entry. Unknown
// directions default to descending, matching a column's first click.
func ParseSortEntry(key, direction string) domain.SortEntry {
	dir := domain.SortDesc
	if direction == string(domain.SortAsc) {
		dir = domain.SortAsc
	}
	return domain.SortEntry{Key: domain.SortKey(key), Direction: dir}
}

// Toggle cycles a column through the sort states: absent, descending,
// ascending, removed. Other columns keep their position and priority.
func (cfg SortConfig) Toggle(key domain.SortKey) SortConfig {
	for i, entry := range cfg {
		if entry.Key != key {
			continue
		}
		if entry.Direction == domain.SortDesc {
			out := make(SortConfig, len(cfg))
			copy(out, cfg)
			out[i].Direction = domain.SortAsc
			return out
		}
		out := make(SortConfig, 0, len(cfg)-1)
		out = append(out, cfg[:i]...)
		out = append(out, cfg[i+1:]...)
		return out
	}
	out := make(SortConfig, len(cfg), len(cfg)+1)
	copy(out, cfg)
	return append(out, domain.SortEntry{Key: key, Direction: domain.SortDesc})
}

// Sort orders the products by the active columns: the first non-zero
// comparison wins, ties fall through to the next column, a full tie keeps
// relative input order. Null values sort to the end regardless of
// direction. The input slice is not modified.
func (cfg SortConfig) Sort(produtos []domain.ProdutoDerivado) []domain.ProdutoDerivado {
	out := make([]domain.ProdutoDerivado, len(produtos))
	copy(out, produtos)
	if len(cfg) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, entry := range cfg {
			if r := compareBy(&out[i], &out[j], entry); r != 0 {
				return r < 0
			}
		}
		return false
	})
	return out
}

// sortValue extracts the sortable value of a column. Exactly one of the
// returns is non-nil unless the row has no value for the column.
func sortValue(p *domain.ProdutoDerivado, key domain.SortKey) (str *string, num *float64) {
	switch key {
	case domain.SortNome:
		return &p.Nome, nil
	case domain.SortCodigo:
		return &p.Codigo, nil
	case domain.SortFornecedorNome:
		return p.FornecedorNome, nil
	case domain.SortDisponivel:
		return nil, &p.Disponivel
	case domain.SortConsumoMensal:
		return nil, &p.ConsumoMensal
	case domain.SortPrecoCusto:
		return nil, &p.PrecoCusto
	case domain.SortSugestaoAjustada:
		return nil, &p.SugestaoAjustada
	case domain.SortTotalValorCalculado:
		return nil, &p.TotalValorCalculado
	case domain.SortDiasAteRuptura:
		if p.DiasAteRuptura == nil {
			return nil, nil
		}
		v := float64(*p.DiasAteRuptura)
		return nil, &v
	case domain.SortCurvaABC:
		v := string(p.CurvaABC)
		return &v, nil
	}
	return nil, nil
}

func compareBy(a, b *domain.ProdutoDerivado, entry domain.SortEntry) int {
	strA, numA := sortValue(a, entry.Key)
	strB, numB := sortValue(b, entry.Key)

	nullA := strA == nil && numA == nil
	nullB := strB == nil && numB == nil
	if nullA && nullB {
		return 0
	}
	if nullA {
		return 1
	}
	if nullB {
		return -1
	}

	var cmp int
	switch {
	case strA != nil && strB != nil:
		cmp = collator.CompareString(*strA, *strB)
	case numA != nil && numB != nil:
		switch {
		case *numA < *numB:
			cmp = -1
		case *numA > *numB:
			cmp = 1
		}
	}
	if entry.Direction == domain.SortDesc {
		cmp = -cmp
	}
	return cmp
}

func sortOptionsByLabel(opts []FornecedorOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		return collator.CompareString(opts[i].Label, opts[j].Label) < 0
	})
}
