package domain

// SortKey names a sortable column of the workbench table.
type SortKey string

const (
	SortNome                SortKey = "nome"
	SortCodigo              SortKey = "codigo"
	SortFornecedorNome      SortKey = "fornecedor_nome"
	SortDisponivel          SortKey = "disponivel"
	SortConsumoMensal       SortKey = "consumo_mensal"
	SortPrecoCusto          SortKey = "preco_custo"
	SortSugestaoAjustada    SortKey = "sugestao_ajustada"
	SortTotalValorCalculado SortKey = "total_valor_calculado"
	SortDiasAteRuptura      SortKey = "dias_ate_ruptura"
	SortCurvaABC            SortKey = "curva_abc"
)

// SortDirection is the direction of one sort column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortEntry is one (column, direction) pair; the active sort is an ordered
// list of entries in user-established priority order.
type SortEntry struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}
