package listview

import (
	"testing"

	"github.com/develop-ac/compras-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleCycle(t *testing.T) {
	var cfg SortConfig

	cfg = cfg.Toggle(domain.SortNome)
	require.Len(t, cfg, 1)
	assert.Equal(t, domain.SortDesc, cfg[0].Direction)

	cfg = cfg.Toggle(domain.SortNome)
	require.Len(t, cfg, 1)
	assert.Equal(t, domain.SortAsc, cfg[0].Direction)

	cfg = cfg.Toggle(domain.SortNome)
	assert.Empty(t, cfg)
}

func TestToggleKeepsOtherColumnsPriority(t *testing.T) {
	var cfg SortConfig
	cfg = cfg.Toggle(domain.SortCurvaABC)
	cfg = cfg.Toggle(domain.SortDisponivel)

	// Cycling the first column leaves the second in place, after it.
	cfg = cfg.Toggle(domain.SortCurvaABC)
	require.Len(t, cfg, 2)
	assert.Equal(t, domain.SortCurvaABC, cfg[0].Key)
	assert.Equal(t, domain.SortAsc, cfg[0].Direction)
	assert.Equal(t, domain.SortDisponivel, cfg[1].Key)

	// Removing it promotes the second to primary.
	cfg = cfg.Toggle(domain.SortCurvaABC)
	require.Len(t, cfg, 1)
	assert.Equal(t, domain.SortDisponivel, cfg[0].Key)
}

func TestSortNumericAndDirection(t *testing.T) {
	lista := make([]domain.ProdutoDerivado, 3)
	for i, v := range []float64{10, 30, 20} {
		lista[i].IDProdutoTiny = int64(i + 1)
		lista[i].Disponivel = v
	}

	cfg := SortConfig{{Key: domain.SortDisponivel, Direction: domain.SortDesc}}
	got := cfg.Sort(lista)
	assert.Equal(t, []float64{30, 20, 10}, disponiveis(got))

	cfg[0].Direction = domain.SortAsc
	got = cfg.Sort(lista)
	assert.Equal(t, []float64{10, 20, 30}, disponiveis(got))

	// The input slice is untouched.
	assert.Equal(t, []float64{10, 30, 20}, disponiveis(lista))
}

func TestSortStringsUsePortugueseCollation(t *testing.T) {
	lista := make([]domain.ProdutoDerivado, 3)
	for i, nome := range []string{"zinco", "Àgata", "banana"} {
		lista[i].Nome = nome
	}

	cfg := SortConfig{{Key: domain.SortNome, Direction: domain.SortAsc}}
	got := cfg.Sort(lista)

	// Accented and lowercase names interleave naturally instead of sorting
	// by byte value.
	assert.Equal(t, "Àgata", got[0].Nome)
	assert.Equal(t, "banana", got[1].Nome)
	assert.Equal(t, "zinco", got[2].Nome)
}

func TestSortNullsLastBothDirections(t *testing.T) {
	lista := make([]domain.ProdutoDerivado, 3)
	dias := []int{5, 2}
	lista[0].DiasAteRuptura = &dias[0]
	lista[0].IDProdutoTiny = 1
	lista[1].DiasAteRuptura = nil
	lista[1].IDProdutoTiny = 2
	lista[2].DiasAteRuptura = &dias[1]
	lista[2].IDProdutoTiny = 3

	for _, dir := range []domain.SortDirection{domain.SortAsc, domain.SortDesc} {
		cfg := SortConfig{{Key: domain.SortDiasAteRuptura, Direction: dir}}
		got := cfg.Sort(lista)
		assert.Equal(t, int64(2), got[2].IDProdutoTiny, "row without a value sorts last in %s", dir)
	}
}

func TestSortMultiColumnTieBreak(t *testing.T) {
	lista := make([]domain.ProdutoDerivado, 3)
	for i, fix := range []struct {
		curva domain.CurvaABC
		valor float64
	}{
		{domain.CurvaA, 100},
		{domain.CurvaB, 999},
		{domain.CurvaA, 500},
	} {
		lista[i].IDProdutoTiny = int64(i + 1)
		lista[i].CurvaABC = fix.curva
		lista[i].TotalValorCalculado = fix.valor
	}

	cfg := SortConfig{
		{Key: domain.SortCurvaABC, Direction: domain.SortAsc},
		{Key: domain.SortTotalValorCalculado, Direction: domain.SortDesc},
	}
	got := cfg.Sort(lista)

	assert.Equal(t, []int64{3, 1, 2}, ids(got), "A before B, value breaks the tie inside A")
}

func TestSortIsStableOnFullTie(t *testing.T) {
	lista := make([]domain.ProdutoDerivado, 4)
	for i := range lista {
		lista[i].IDProdutoTiny = int64(i + 1)
		lista[i].Disponivel = 7
	}

	cfg := SortConfig{{Key: domain.SortDisponivel, Direction: domain.SortDesc}}
	got := cfg.Sort(lista)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got))
}

func TestParseSortEntry(t *testing.T) {
	e := ParseSortEntry("nome", "asc")
	assert.Equal(t, domain.SortNome, e.Key)
	assert.Equal(t, domain.SortAsc, e.Direction)

	e = ParseSortEntry("disponivel", "sideways")
	assert.Equal(t, domain.SortDesc, e.Direction)
}

func disponiveis(lista []domain.ProdutoDerivado) []float64 {
	out := make([]float64, len(lista))
	for i, p := range lista {
		out[i] = p.Disponivel
	}
	return out
}

func ids(lista []domain.ProdutoDerivado) []int64 {
	out := make([]int64, len(lista))
	for i, p := range lista {
		out[i] = p.IDProdutoTiny
	}
	return out
}
