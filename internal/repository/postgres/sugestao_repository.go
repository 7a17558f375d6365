package postgres

import (
	"context"
	"fmt"

	"github.com/develop-ac/compras-backend/internal/domain"
	"github.com/develop-ac/compras-backend/internal/suggestion"
	"github.com/jmoiron/sqlx"
)

type sugestaoRepository struct {
	db *sqlx.DB
}

func NewSugestaoRepository(db *sqlx.DB) *sugestaoRepository {
	return &sugestaoRepository{db: db}
}

// ListSugestoes returns one snapshot row per trackable product, with
// consumption summed over the trailing period and scaled to a monthly
// figure. Packaging and stock values are normalized before they reach the
// calculator.
func (r *sugestaoRepository) ListSugestoes(ctx context.Context, periodDays int) ([]domain.Sugestao, error) {
	if periodDays < 1 {
		periodDays = suggestion.DefaultPeriodDias
	}

	query := `
		SELECT
			p.id_produto_tiny,
			p.codigo,
			p.nome,
			p.gtin,
			p.imagem_url,
			p.fornecedor_codigo,
			p.fornecedor_nome,
			COALESCE(p.embalagem_qtd, 1)                          AS embalagem_qtd,
			COALESCE(e.saldo, 0)                                  AS saldo,
			COALESCE(e.reservado, 0)                              AS reservado,
			COALESCE(e.saldo, 0) - COALESCE(e.reservado, 0)       AS disponivel,
			COALESCE(c.qtd_consumida, 0)                          AS consumo_periodo,
			COALESCE(c.qtd_consumida, 0) * 30.0 / $1              AS consumo_mensal,
			COALESCE(p.preco_custo, 0)                            AS preco_custo,
			p.lead_time_dias,
			p.lead_time_dias IS NULL                              AS lead_time_padrao,
			p.observacao_compras
		FROM produtos p
		LEFT JOIN estoque e ON e.id_produto_tiny = p.id_produto_tiny
		LEFT JOIN LATERAL (
			SELECT SUM(i.quantidade) AS qtd_consumida
			FROM pedido_itens i
			WHERE i.id_produto_tiny = p.id_produto_tiny
			  AND i.data_pedido >= NOW() - ($1 || ' days')::interval
		) c ON TRUE
		WHERE p.rastrear_compras = TRUE
		ORDER BY p.nome
	`

	var rows []domain.Sugestao
	if err := r.db.SelectContext(ctx, &rows, query, periodDays); err != nil {
		return nil, fmt.Errorf("error listing purchase suggestions: %w", err)
	}

	for i := range rows {
		rows[i] = suggestion.NormalizeSnapshot(rows[i])
	}

	return rows, nil
}
