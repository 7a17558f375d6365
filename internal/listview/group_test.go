package listview

import (
	"testing"

	"github.com/develop-ac/compras-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func produtoComValor(id int64, fornecedor *string, quantidade, valor float64) domain.ProdutoDerivado {
	p := domain.ProdutoDerivado{}
	p.IDProdutoTiny = id
	p.FornecedorNome = fornecedor
	p.SugestaoAjustada = quantidade
	p.TotalValorCalculado = valor
	return p
}

func TestAgruparPorFornecedorTotals(t *testing.T) {
	produtos := []domain.ProdutoDerivado{
		produtoComValor(1, strPtr("Acme"), 10, 100),
		produtoComValor(2, strPtr("acme"), 5, 50),
		produtoComValor(3, strPtr("Beta"), 2, 400),
		produtoComValor(4, nil, 1, 30),
		produtoComValor(5, strPtr("Acme"), 99, 999), // not selected
	}
	selected := map[int64]bool{1: true, 2: true, 3: true, 4: true}

	grupos := AgruparPorFornecedor(produtos, nil, selected)
	require.Len(t, grupos, 3)

	// Highest order value first.
	assert.Equal(t, "Beta", grupos[0].Fornecedor)
	assert.Equal(t, 400.0, grupos[0].TotalValor)

	// Case variants of the same supplier share one bucket.
	assert.Equal(t, "acme", grupos[1].Key)
	assert.Equal(t, 15.0, grupos[1].TotalQuantidade)
	assert.Equal(t, 150.0, grupos[1].TotalValor)
	assert.Equal(t, 2, grupos[1].ProdutosCount)

	assert.Equal(t, SemFornecedorKey, grupos[2].Key)
	assert.Equal(t, "Sem fornecedor", grupos[2].Fornecedor)
}

func TestAgruparIncludesManualItems(t *testing.T) {
	produtos := []domain.ProdutoDerivado{
		produtoComValor(1, strPtr("Acme"), 10, 100),
	}
	itens := []domain.ItemManual{
		{ID: 1000, Nome: "Lacre", FornecedorCodigo: strPtr("Acme"), Quantidade: 4},
		{ID: 1001, Nome: "Etiqueta", FornecedorCodigo: nil, Quantidade: 2},
		{ID: 1002, Nome: "Fita", FornecedorCodigo: strPtr("Acme"), Quantidade: 9}, // not selected
	}
	selected := map[int64]bool{1: true, 1000: true, 1001: true}

	grupos := AgruparPorFornecedor(produtos, itens, selected)
	require.Len(t, grupos, 2)

	acme := grupos[0]
	assert.Equal(t, "acme", acme.Key)
	require.Len(t, acme.ItensManual, 1)
	assert.Equal(t, "Lacre", acme.ItensManual[0].Nome)
	assert.Equal(t, 14.0, acme.TotalQuantidade, "manual quantities add to the group total")

	sem := grupos[1]
	assert.Equal(t, SemFornecedorKey, sem.Key)
	require.Len(t, sem.ItensManual, 1)
	assert.Equal(t, 2.0, sem.TotalQuantidade)
	assert.Zero(t, sem.ProdutosCount)
}

func TestAgruparEmptySelection(t *testing.T) {
	produtos := []domain.ProdutoDerivado{produtoComValor(1, strPtr("Acme"), 10, 100)}
	assert.Empty(t, AgruparPorFornecedor(produtos, nil, nil))
}

func TestEstadoGrupos(t *testing.T) {
	e := NewEstadoGrupos()
	assert.False(t, e.IsExpanded("acme"))

	e.Toggle("acme")
	assert.True(t, e.IsExpanded("acme"))
	e.Toggle("acme")
	assert.False(t, e.IsExpanded("acme"))

	e.ExpandAll([]string{"acme", "beta"})
	assert.True(t, e.IsExpanded("acme"))
	assert.True(t, e.IsExpanded("beta"))

	e.CollapseAll()
	assert.False(t, e.IsExpanded("acme"))
	assert.False(t, e.IsExpanded("beta"))
}
