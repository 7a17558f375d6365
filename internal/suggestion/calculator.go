package suggestion

import (
	"fmt"
	"math"
	"sort"

	"github.com/develop-ac/compras-backend/internal/domain"
)

const (
	// DiasPorMes converts monthly consumption into a daily rate.
	DiasPorMes = 30

	// DefaultPeriodDias is the historical window used to measure consumption.
	DefaultPeriodDias = 60

	// DefaultCoberturaDias is the target coverage window.
	DefaultCoberturaDias = 15
	MinCoberturaDias     = 15
	MaxCoberturaDias     = 180
)

// ABC classification boundaries over cumulative monthly value.
const (
	curvaALimite = 0.80
	curvaBLimite = 0.95
)

// ClampCobertura forces a coverage window into the accepted range.
func ClampCobertura(dias int) int {
	if dias < MinCoberturaDias {
		return MinCoberturaDias
	}
	if dias > MaxCoberturaDias {
		return MaxCoberturaDias
	}
	return dias
}

// NormalizeSnapshot coerces a raw snapshot into calculation-safe values:
// packaging lots below 1 become 1, negative stock and consumption become 0.
func NormalizeSnapshot(s domain.Sugestao) domain.Sugestao {
	if s.EmbalagemQtd < 1 {
		s.EmbalagemQtd = 1
	}
	if s.Disponivel < 0 {
		s.Disponivel = 0
	}
	if s.ConsumoMensal < 0 {
		s.ConsumoMensal = 0
	}
	return s
}

// Calculate derives the full workbench metrics for a batch of snapshots.
// The result preserves input order. targetDays is clamped to the accepted
// coverage range; overrides maps product id to a user-entered quantity that
// replaces the calculated suggestion.
//
// The function is pure: the same snapshots, targetDays and overrides always
// produce the same derived list.
func Calculate(snapshots []domain.Sugestao, targetDays int, overrides map[int64]float64) []domain.ProdutoDerivado {
	targetDays = ClampCobertura(targetDays)

	derived := make([]domain.ProdutoDerivado, len(snapshots))
	valores := make([]float64, len(snapshots))

	for i, raw := range snapshots {
		s := NormalizeSnapshot(raw)

		consumoDiario := s.ConsumoMensal / DiasPorMes
		pontoMinimo := consumoDiario * float64(targetDays)
		disponivel := s.Disponivel

		precisaRepor := pontoMinimo > 0 && disponivel < pontoMinimo

		var necessaria float64
		if precisaRepor {
			necessaria = math.Max(pontoMinimo-disponivel, 0)
		}

		// Ceiling to a full packaging lot so the suggestion is never short
		// of the computed need.
		var sugestao float64
		if precisaRepor && necessaria > 0 {
			sugestao = math.Ceil(necessaria/s.EmbalagemQtd) * s.EmbalagemQtd
		}

		alerta := precisaRepor && necessaria > 0 && necessaria < s.EmbalagemQtd

		var cobertura *float64
		var ruptura *int
		if consumoDiario > 0 {
			c := disponivel / consumoDiario
			cobertura = &c
			r := int(math.Floor(disponivel / consumoDiario))
			ruptura = &r
		}

		ajustada := sugestao
		if ov, ok := overrides[s.IDProdutoTiny]; ok && !math.IsNaN(ov) && !math.IsInf(ov, 0) {
			ajustada = math.Max(0, ov)
		}

		derived[i] = domain.ProdutoDerivado{
			Sugestao:             s,
			ConsumoDiario:        consumoDiario,
			PontoMinimo:          pontoMinimo,
			CoberturaAtualDias:   cobertura,
			PrecisaRepor:         precisaRepor,
			QuantidadeNecessaria: necessaria,
			SugestaoCalculada:    sugestao,
			SugestaoAjustada:     ajustada,
			AlertaEmbalagem:      alerta,
			StatusCobertura:      statusCobertura(precisaRepor, necessaria, targetDays),
			TotalValorCalculado:  ajustada * s.PrecoCusto,
			DiasAteRuptura:       ruptura,
			OriginalIndex:        i,
		}
		valores[i] = s.ConsumoMensal * s.PrecoCusto
	}

	classifyABC(derived, valores)
	return derived
}

// classifyABC assigns the value curve over the whole batch. Products are
// ranked by monthly value descending and classified by the cumulative share
// reached after adding their own contribution: <=80% A, <=95% B, else C.
// A zero total classifies everything as C. Ranking uses a stable sort so
// equal values keep input order, and the display order is never altered.
func classifyABC(derived []domain.ProdutoDerivado, valores []float64) {
	var total float64
	for _, v := range valores {
		total += v
	}
	if total == 0 {
		for i := range derived {
			derived[i].CurvaABC = domain.CurvaC
		}
		return
	}

	ranked := make([]int, len(derived))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return valores[ranked[a]] > valores[ranked[b]]
	})

	var acumulado float64
	for _, idx := range ranked {
		acumulado += valores[idx]
		percentual := acumulado / total
		switch {
		case percentual <= curvaALimite:
			derived[idx].CurvaABC = domain.CurvaA
		case percentual <= curvaBLimite:
			derived[idx].CurvaABC = domain.CurvaB
		default:
			derived[idx].CurvaABC = domain.CurvaC
		}
	}
}

func statusCobertura(precisaRepor bool, necessaria float64, targetDays int) string {
	if precisaRepor {
		falta := int64(math.Ceil(math.Max(necessaria, 0)))
		return fmt.Sprintf("Cobertura insuficiente — faltam %d unid. para %d dias.", falta, targetDays)
	}
	return "Abaixo do lote, mas ainda dentro da cobertura — não comprar agora."
}
