package domain

import "time"

// Sugestao is the raw per-product snapshot the suggestion query returns:
// identity, supplier, packaging, stock position and consumption over the
// configured historical window.
type Sugestao struct {
	IDProdutoTiny     int64   `json:"id_produto_tiny" db:"id_produto_tiny"`
	Codigo            string  `json:"codigo" db:"codigo"`
	Nome              string  `json:"nome" db:"nome"`
	GTIN              *string `json:"gtin" db:"gtin"`
	ImagemURL         *string `json:"imagem_url" db:"imagem_url"`
	FornecedorCodigo  *string `json:"fornecedor_codigo" db:"fornecedor_codigo"`
	FornecedorNome    *string `json:"fornecedor_nome" db:"fornecedor_nome"`
	EmbalagemQtd      float64 `json:"embalagem_qtd" db:"embalagem_qtd"`
	Saldo             float64 `json:"saldo" db:"saldo"`
	Reservado         float64 `json:"reservado" db:"reservado"`
	Disponivel        float64 `json:"disponivel" db:"disponivel"`
	ConsumoPeriodo    float64 `json:"consumo_periodo" db:"consumo_periodo"`
	ConsumoMensal     float64 `json:"consumo_mensal" db:"consumo_mensal"`
	PrecoCusto        float64 `json:"preco_custo" db:"preco_custo"`
	LeadTimeDias      *int    `json:"lead_time_dias" db:"lead_time_dias"`
	LeadTimePadrao    bool    `json:"lead_time_padrao" db:"lead_time_padrao"`
	ObservacaoCompras *string `json:"observacao_compras" db:"observacao_compras"`
}

// CurvaABC is the value-curve bucket a product falls into.
type CurvaABC string

const (
	CurvaA CurvaABC = "A"
	CurvaB CurvaABC = "B"
	CurvaC CurvaABC = "C"
)

// ProdutoDerivado extends a snapshot with every calculated metric the
// purchasing workbench displays.
type ProdutoDerivado struct {
	Sugestao

	ConsumoDiario        float64  `json:"consumo_diario"`
	PontoMinimo          float64  `json:"ponto_minimo"`
	CoberturaAtualDias   *float64 `json:"cobertura_atual_dias"`
	PrecisaRepor         bool     `json:"precisa_repor"`
	QuantidadeNecessaria float64  `json:"quantidade_necessaria"`
	SugestaoCalculada    float64  `json:"sugestao_calculada"`
	SugestaoAjustada     float64  `json:"sugestao_ajustada"`
	AlertaEmbalagem      bool     `json:"alerta_embalagem"`
	StatusCobertura      string   `json:"status_cobertura"`
	TotalValorCalculado  float64  `json:"total_valor_calculado"`
	DiasAteRuptura       *int     `json:"dias_ate_ruptura"`
	CurvaABC             CurvaABC `json:"curva_abc"`
	OriginalIndex        int      `json:"-"`
}

// ItemManual is a free-form purchase-list line not tied to a catalog SKU.
type ItemManual struct {
	ID               int64   `json:"id"`
	Nome             string  `json:"nome"`
	FornecedorCodigo *string `json:"fornecedor_codigo"`
	Quantidade       float64 `json:"quantidade"`
	Observacao       *string `json:"observacao"`
}

// SyncState tracks the autosave status of a single product row.
type SyncState string

const (
	SyncSaving SyncState = "saving"
	SyncSaved  SyncState = "saved"
	SyncError  SyncState = "error"
)

// PedidoRascunho is a named workbench draft: the overrides, selection,
// manual items and calculation parameters a user can save and resume.
type PedidoRascunho struct {
	Nome        string            `json:"nome"`
	PeriodDays  int               `json:"period_days"`
	TargetDays  int               `json:"target_days"`
	Overrides   map[int64]float64 `json:"overrides"`
	SelectedIDs map[int64]bool    `json:"selected_ids"`
	ItensManual []ItemManual      `json:"itens_manuais"`
	SavedAt     time.Time         `json:"saved_at"`
}
