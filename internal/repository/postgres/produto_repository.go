package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/develop-ac/compras-backend/internal/autosave"
)

type produtoComprasRepository struct {
	db *DB
}

func NewProdutoComprasRepository(db *DB) *produtoComprasRepository {
	return &produtoComprasRepository{db: db}
}

// UpdateCamposCompras writes the autosaved purchasing fields for one
// product inside a bounded transaction, so a burst of concurrent flushes
// cannot exhaust the pool. Nil supplier, packaging and note values clear
// their columns. A nil lead time means untouched, not cleared: lead-time
// edits always carry a value, so the COALESCE keeps the stored one.
func (r *produtoComprasRepository) UpdateCamposCompras(ctx context.Context, id int64, payload autosave.Payload) error {
	query := `
		UPDATE produtos
		SET fornecedor_codigo   = $2,
		    embalagem_qtd       = COALESCE($3, 1),
		    observacao_compras  = $4,
		    lead_time_dias      = COALESCE($5, lead_time_dias),
		    atualizado_em       = NOW()
		WHERE id_produto_tiny = $1
	`

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			id,
			payload.FornecedorCodigo,
			payload.EmbalagemQtd,
			payload.ObservacaoCompras,
			payload.LeadTimeDias,
		)
		if err != nil {
			return fmt.Errorf("error updating purchasing fields for product %d: %w", id, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("error checking update result for product %d: %w", id, err)
		}
		if affected == 0 {
			return fmt.Errorf("product %d not found", id)
		}
		return nil
	})
}
