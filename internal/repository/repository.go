package repository

import (
	"context"

	"github.com/develop-ac/compras-backend/internal/autosave"
	"github.com/develop-ac/compras-backend/internal/domain"
)

// SugestaoRepository loads the per-product stock and consumption snapshot
// the calculator works from.
type SugestaoRepository interface {
	// ListSugestoes returns one snapshot per trackable SKU, with
	// consumption measured over the trailing periodDays window.
	ListSugestoes(ctx context.Context, periodDays int) ([]domain.Sugestao, error)
}

// ProdutoComprasRepository persists the autosaved purchasing fields of a
// product.
type ProdutoComprasRepository interface {
	UpdateCamposCompras(ctx context.Context, id int64, payload autosave.Payload) error
}

// PedidoRepository stores named workbench drafts.
type PedidoRepository interface {
	SavePedido(ctx context.Context, pedido domain.PedidoRascunho) error
	GetPedido(ctx context.Context, nome string) (*domain.PedidoRascunho, error)
	ListPedidos(ctx context.Context) ([]string, error)
	DeletePedido(ctx context.Context, nome string) error
}
