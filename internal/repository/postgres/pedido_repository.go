package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/develop-ac/compras-backend/internal/domain"
	"github.com/jmoiron/sqlx"
)

type pedidoRepository struct {
	db *sqlx.DB
}

func NewPedidoRepository(db *sqlx.DB) *pedidoRepository {
	return &pedidoRepository{db: db}
}

// SavePedido upserts a named workbench draft as a JSONB document.
func (r *pedidoRepository) SavePedido(ctx context.Context, pedido domain.PedidoRascunho) error {
	payload, err := json.Marshal(pedido)
	if err != nil {
		return fmt.Errorf("error encoding draft order %q: %w", pedido.Nome, err)
	}

	query := `
		INSERT INTO compras_pedidos (nome, payload, atualizado_em)
		VALUES ($1, $2, NOW())
		ON CONFLICT (nome) DO UPDATE
		SET payload = EXCLUDED.payload, atualizado_em = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, pedido.Nome, payload); err != nil {
		return fmt.Errorf("error saving draft order %q: %w", pedido.Nome, err)
	}
	return nil
}

// GetPedido loads a named draft; a missing name returns (nil, nil).
func (r *pedidoRepository) GetPedido(ctx context.Context, nome string) (*domain.PedidoRascunho, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM compras_pedidos WHERE nome = $1`, nome)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading draft order %q: %w", nome, err)
	}

	var pedido domain.PedidoRascunho
	if err := json.Unmarshal(payload, &pedido); err != nil {
		return nil, fmt.Errorf("error decoding draft order %q: %w", nome, err)
	}
	return &pedido, nil
}

func (r *pedidoRepository) ListPedidos(ctx context.Context) ([]string, error) {
	var nomes []string
	query := `SELECT nome FROM compras_pedidos ORDER BY atualizado_em DESC`
	if err := r.db.SelectContext(ctx, &nomes, query); err != nil {
		return nil, fmt.Errorf("error listing draft orders: %w", err)
	}
	return nomes, nil
}

func (r *pedidoRepository) DeletePedido(ctx context.Context, nome string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM compras_pedidos WHERE nome = $1`, nome); err != nil {
		return fmt.Errorf("error deleting draft order %q: %w", nome, err)
	}
	return nil
}
