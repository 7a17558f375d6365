package suggestion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/develop-ac/compras-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(id int64, consumoMensal, disponivel, embalagem, custo float64) domain.Sugestao {
	return domain.Sugestao{
		IDProdutoTiny: id,
		Codigo:        "P" + string(rune('0'+id%10)),
		Nome:          "Produto",
		ConsumoMensal: consumoMensal,
		Disponivel:    disponivel,
		EmbalagemQtd:  embalagem,
		PrecoCusto:    custo,
	}
}

func TestCalculateBasicScenario(t *testing.T) {
	// consumo 90/month over 15 days of coverage with 10 available and lots of 5
	out := Calculate([]domain.Sugestao{snap(1, 90, 10, 5, 2)}, 15, nil)
	require.Len(t, out, 1)

	p := out[0]
	assert.Equal(t, 3.0, p.ConsumoDiario)
	assert.Equal(t, 45.0, p.PontoMinimo)
	assert.True(t, p.PrecisaRepor)
	assert.Equal(t, 35.0, p.QuantidadeNecessaria)
	assert.Equal(t, 35.0, p.SugestaoCalculada, "35 is already a multiple of 5")
	assert.False(t, p.AlertaEmbalagem)
	require.NotNil(t, p.DiasAteRuptura)
	assert.Equal(t, 3, *p.DiasAteRuptura)
}

func TestCalculatePackagingAlert(t *testing.T) {
	// need is 1 unit but the lot is 5: round up to a full lot and flag it
	out := Calculate([]domain.Sugestao{snap(1, 90, 44, 5, 2)}, 15, nil)
	require.Len(t, out, 1)

	p := out[0]
	assert.Equal(t, 1.0, p.QuantidadeNecessaria)
	assert.Equal(t, 5.0, p.SugestaoCalculada)
	assert.True(t, p.AlertaEmbalagem)
}

func TestCalculateZeroConsumption(t *testing.T) {
	out := Calculate([]domain.Sugestao{snap(1, 0, 10, 1, 2)}, 15, nil)
	require.Len(t, out, 1)

	p := out[0]
	assert.Nil(t, p.DiasAteRuptura)
	assert.Nil(t, p.CoberturaAtualDias)
	assert.False(t, p.PrecisaRepor)
	assert.Zero(t, p.SugestaoCalculada)
}

func TestCalculateSuggestionIsAlwaysLotMultiple(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	snapshots := make([]domain.Sugestao, 0, 200)
	for i := 0; i < 200; i++ {
		snapshots = append(snapshots, snap(
			int64(i+1),
			rng.Float64()*300,
			rng.Float64()*100,
			float64(rng.Intn(12)), // includes invalid 0 lots
			rng.Float64()*50,
		))
	}

	for _, p := range Calculate(snapshots, 30, nil) {
		require.GreaterOrEqual(t, p.EmbalagemQtd, 1.0)
		assert.GreaterOrEqual(t, p.SugestaoCalculada, 0.0)
		lots := p.SugestaoCalculada / p.EmbalagemQtd
		assert.InDelta(t, math.Round(lots), lots, 1e-9,
			"suggestion %v is not a multiple of lot %v", p.SugestaoCalculada, p.EmbalagemQtd)

		// The alert fires exactly when rounding to a lot overshoots the need
		expected := p.PrecisaRepor && p.QuantidadeNecessaria > 0 && p.QuantidadeNecessaria < p.EmbalagemQtd
		assert.Equal(t, expected, p.AlertaEmbalagem)
	}
}

func TestCalculateNegativeStockCoercion(t *testing.T) {
	out := Calculate([]domain.Sugestao{snap(1, 30, -10, 1, 2)}, 15, nil)
	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].Disponivel)
	assert.True(t, out[0].PrecisaRepor)
	assert.Equal(t, 15.0, out[0].QuantidadeNecessaria)
}

func TestCalculateTargetDaysClamped(t *testing.T) {
	low := Calculate([]domain.Sugestao{snap(1, 90, 0, 1, 2)}, 1, nil)
	assert.Equal(t, float64(MinCoberturaDias)*3, low[0].PontoMinimo)

	high := Calculate([]domain.Sugestao{snap(1, 90, 0, 1, 2)}, 9999, nil)
	assert.Equal(t, float64(MaxCoberturaDias)*3, high[0].PontoMinimo)
}

func TestABCTwoProductBoundary(t *testing.T) {
	// monthly values 800 and 200: the first lands exactly on the 80% line
	// and stays A, the second reaches 100% and falls into C
	out := Calculate([]domain.Sugestao{
		snap(1, 80, 0, 1, 10), // valorMensal 800
		snap(2, 20, 0, 1, 10), // valorMensal 200
	}, 15, nil)

	assert.Equal(t, domain.CurvaA, out[0].CurvaABC)
	assert.Equal(t, domain.CurvaC, out[1].CurvaABC)
}

func TestABCZeroTotalValueAllC(t *testing.T) {
	out := Calculate([]domain.Sugestao{
		snap(1, 0, 10, 1, 0),
		snap(2, 50, 10, 1, 0), // consumption but no cost
		snap(3, 0, 10, 1, 99),
	}, 15, nil)

	for _, p := range out {
		assert.Equal(t, domain.CurvaC, p.CurvaABC)
	}
}

func TestABCEveryProductClassified(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	snapshots := make([]domain.Sugestao, 0, 50)
	for i := 0; i < 50; i++ {
		snapshots = append(snapshots, snap(int64(i+1), rng.Float64()*100, 10, 1, rng.Float64()*20))
	}

	counts := map[domain.CurvaABC]int{}
	for _, p := range Calculate(snapshots, 15, nil) {
		counts[p.CurvaABC]++
	}
	assert.Equal(t, 50, counts[domain.CurvaA]+counts[domain.CurvaB]+counts[domain.CurvaC])
}

func TestABCOrderIndependent(t *testing.T) {
	snapshots := []domain.Sugestao{
		snap(1, 100, 10, 1, 9),
		snap(2, 40, 10, 1, 3),
		snap(3, 75, 10, 1, 1),
		snap(4, 12, 10, 1, 30),
		snap(5, 5, 10, 1, 0.5),
	}

	byID := func(out []domain.ProdutoDerivado) map[int64]domain.CurvaABC {
		m := make(map[int64]domain.CurvaABC, len(out))
		for _, p := range out {
			m[p.IDProdutoTiny] = p.CurvaABC
		}
		return m
	}

	original := byID(Calculate(snapshots, 15, nil))

	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]domain.Sugestao, len(snapshots))
		copy(shuffled, snapshots)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		assert.Equal(t, original, byID(Calculate(shuffled, 15, nil)))
	}
}

func TestABCPreservesInputOrder(t *testing.T) {
	snapshots := []domain.Sugestao{
		snap(3, 10, 0, 1, 1),
		snap(1, 500, 0, 1, 1),
		snap(2, 50, 0, 1, 1),
	}
	out := Calculate(snapshots, 15, nil)
	require.Len(t, out, 3)
	assert.Equal(t, int64(3), out[0].IDProdutoTiny)
	assert.Equal(t, int64(1), out[1].IDProdutoTiny)
	assert.Equal(t, int64(2), out[2].IDProdutoTiny)
}

func TestOverrideAppliesAndClears(t *testing.T) {
	snapshots := []domain.Sugestao{snap(1, 90, 10, 5, 2)}

	withOverride := Calculate(snapshots, 15, map[int64]float64{1: 120})
	assert.Equal(t, 120.0, withOverride[0].SugestaoAjustada)
	assert.Equal(t, 240.0, withOverride[0].TotalValorCalculado)
	assert.Equal(t, 35.0, withOverride[0].SugestaoCalculada, "calculated value is untouched")

	cleared := Calculate(snapshots, 15, nil)
	assert.Equal(t, cleared[0].SugestaoCalculada, cleared[0].SugestaoAjustada)
}

func TestOverrideNeverNegative(t *testing.T) {
	out := Calculate([]domain.Sugestao{snap(1, 90, 10, 5, 2)}, 15, map[int64]float64{1: -30})
	assert.Equal(t, 0.0, out[0].SugestaoAjustada)
}

func TestClampCobertura(t *testing.T) {
	assert.Equal(t, MinCoberturaDias, ClampCobertura(0))
	assert.Equal(t, 90, ClampCobertura(90))
	assert.Equal(t, MaxCoberturaDias, ClampCobertura(181))
}
