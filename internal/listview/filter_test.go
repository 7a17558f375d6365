package listview

import (
	"testing"

	"github.com/develop-ac/compras-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func produto(id int64, nome, codigo string, fornecedor *string) domain.ProdutoDerivado {
	p := domain.ProdutoDerivado{}
	p.IDProdutoTiny = id
	p.Nome = nome
	p.Codigo = codigo
	p.FornecedorNome = fornecedor
	return p
}

func TestFornecedorKeyNormalization(t *testing.T) {
	assert.Equal(t, SemFornecedorKey, FornecedorKey(nil))
	assert.Equal(t, SemFornecedorKey, FornecedorKey(strPtr("   ")))
	assert.Equal(t, "acme ltda", FornecedorKey(strPtr("ACME Ltda")))
	assert.Equal(t, "acme ltda", FornecedorKey(strPtr("  Acme Ltda  ")))
}

func TestApplyTermoMatchesNomeCodigoGTIN(t *testing.T) {
	lista := []domain.ProdutoDerivado{
		produto(1, "Caixa Papelão 30x30", "CX-30", nil),
		produto(2, "Fita Adesiva", "FT-01", nil),
	}
	lista[1].GTIN = strPtr("7891234567895")

	got := Filtro{TermoProduto: "papelão"}.Apply(lista, nil)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].IDProdutoTiny)

	got = Filtro{TermoProduto: "cx-30"}.Apply(lista, nil)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].IDProdutoTiny)

	got = Filtro{TermoProduto: "789123"}.Apply(lista, nil)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].IDProdutoTiny)

	got = Filtro{TermoProduto: "inexistente"}.Apply(lista, nil)
	assert.Empty(t, got)
}

func TestApplyFornecedorSet(t *testing.T) {
	lista := []domain.ProdutoDerivado{
		produto(1, "A", "A", strPtr("Acme")),
		produto(2, "B", "B", strPtr("Beta")),
		produto(3, "C", "C", nil),
	}

	filtro := Filtro{Fornecedores: map[string]bool{"acme": true, SemFornecedorKey: true}}
	got := filtro.Apply(lista, nil)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].IDProdutoTiny)
	assert.Equal(t, int64(3), got[1].IDProdutoTiny)
}

func TestApplySelectionFilter(t *testing.T) {
	lista := []domain.ProdutoDerivado{
		produto(1, "A", "A", nil),
		produto(2, "B", "B", nil),
	}
	selected := map[int64]bool{1: true}

	got := Filtro{Selecao: SelectionSelected}.Apply(lista, selected)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].IDProdutoTiny)

	got = Filtro{Selecao: SelectionUnselected}.Apply(lista, selected)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].IDProdutoTiny)

	got = Filtro{Selecao: SelectionAll}.Apply(lista, selected)
	assert.Len(t, got, 2)
}

func TestFilterManualItems(t *testing.T) {
	itens := []domain.ItemManual{
		{ID: 100, Nome: "Etiqueta"},
		{ID: 101, Nome: "Lacre"},
	}
	selected := map[int64]bool{100: true}

	got := FilterManualItems(itens, SelectionSelected, selected)
	require.Len(t, got, 1)
	assert.Equal(t, int64(100), got[0].ID)

	got = FilterManualItems(itens, SelectionUnselected, selected)
	require.Len(t, got, 1)
	assert.Equal(t, int64(101), got[0].ID)

	assert.Len(t, FilterManualItems(itens, SelectionAll, selected), 2)
}

func TestFornecedorOptions(t *testing.T) {
	lista := []domain.ProdutoDerivado{
		produto(1, "A", "A", strPtr("Zebra Embalagens")),
		produto(2, "B", "B", strPtr("Acme")),
		produto(3, "C", "C", strPtr("acme")),
		produto(4, "D", "D", nil),
	}

	opts := FornecedorOptions(lista)
	require.Len(t, opts, 3)

	// Sorted by label; same supplier in different casing collapses into one
	// entry with the count of both rows.
	assert.Equal(t, "Acme", opts[0].Label)
	assert.Equal(t, 2, opts[0].Count)
	assert.Equal(t, "Sem fornecedor", opts[1].Label)
	assert.Equal(t, SemFornecedorKey, opts[1].Value)
	assert.Equal(t, "Zebra Embalagens", opts[2].Label)
}
