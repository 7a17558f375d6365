package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/develop-ac/compras-backend/internal/autosave"
	"github.com/develop-ac/compras-backend/internal/listview"
	"github.com/develop-ac/compras-backend/internal/repository"
	"github.com/develop-ac/compras-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ComprasHandler struct {
	service    *service.ComprasService
	pedidoRepo repository.PedidoRepository
}

func NewComprasHandler(service *service.ComprasService, pedidoRepo repository.PedidoRepository) *ComprasHandler {
	return &ComprasHandler{service: service, pedidoRepo: pedidoRepo}
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

// parseFiltro builds the list filters from query parameters.
func parseFiltro(c *gin.Context) (listview.Filtro, listview.SortConfig) {
	filtro := listview.Filtro{
		TermoProduto: strings.TrimSpace(c.Query("produto")),
		Selecao:      listview.SelectionAll,
	}

	switch c.Query("selecao") {
	case "selected":
		filtro.Selecao = listview.SelectionSelected
	case "unselected":
		filtro.Selecao = listview.SelectionUnselected
	}

	if fornecedores := strings.TrimSpace(c.Query("fornecedores")); fornecedores != "" {
		filtro.Fornecedores = make(map[string]bool)
		for _, f := range strings.Split(fornecedores, ",") {
			f = strings.ToLower(strings.TrimSpace(f))
			if f != "" {
				filtro.Fornecedores[f] = true
			}
		}
	}

	var sortCfg listview.SortConfig
	if raw := strings.TrimSpace(c.Query("sort")); raw != "" {
		// sort=consumo_mensal:desc,nome:asc
		for _, part := range strings.Split(raw, ",") {
			kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
			if kv[0] == "" {
				continue
			}
			entry := listview.ParseSortEntry(kv[0], kv[len(kv)-1])
			sortCfg = append(sortCfg, entry)
		}
	}

	return filtro, sortCfg
}

// GetSugestoes answers the workbench data request: it (re)loads the
// snapshot list when parameters changed and returns the derived products.
func (h *ComprasHandler) GetSugestoes(c *gin.Context) {
	if v, err := strconv.Atoi(c.DefaultQuery("periodDays", "0")); err == nil && v >= 1 {
		h.service.SetPeriodDays(v)
	}
	// Bounds checking lives in the service, which knows the configured range.
	if v, err := strconv.Atoi(c.DefaultQuery("targetDays", "0")); err == nil && v >= 1 {
		h.service.SetTargetDays(v)
	}

	if err := h.service.Load(c.Request.Context()); err != nil {
		errorResponse(c, http.StatusBadGateway, "Erro ao carregar sugestões")
		return
	}

	filtro, sortCfg := parseFiltro(c)
	produtos := h.service.View(filtro, sortCfg)

	periodDays, targetDays := h.service.Params()
	_, _, lastUpdatedAt := h.service.LoadState()

	c.JSON(http.StatusOK, gin.H{
		"produtos":        produtos,
		"itens_manuais":   h.service.Draft.ManualItems(),
		"sync_status":     h.service.AutoSave.StatusMap(),
		"period_days":     periodDays,
		"target_days":     targetDays,
		"last_updated_at": lastUpdatedAt,
	})
}

// GetFornecedores returns the supplier filter options for the current list.
func (h *ComprasHandler) GetFornecedores(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fornecedores": listview.FornecedorOptions(h.service.Derivados()),
	})
}

// GetGruposFornecedor returns the supplier-split view over selected rows.
func (h *ComprasHandler) GetGruposFornecedor(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"grupos": h.service.GruposFornecedor()})
}

type patchProdutoRequest struct {
	FornecedorCodigo  *string  `json:"fornecedor_codigo"`
	EmbalagemQtd      *float64 `json:"embalagem_qtd"`
	ObservacaoCompras *string  `json:"observacao_compras"`
	LeadTimeDias      *int     `json:"lead_time_dias"`
}

// PatchProduto schedules an autosave for the given purchasing fields.
// Fields absent from the body keep their current values.
func (h *ComprasHandler) PatchProduto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req patchProdutoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	partial := autosave.Partial{}
	if req.FornecedorCodigo != nil {
		partial.FornecedorCodigo = autosave.SanitizeFornecedor(req.FornecedorCodigo)
		partial.FornecedorCodigoSet = true
	}
	if req.EmbalagemQtd != nil {
		partial.EmbalagemQtd = autosave.SanitizeEmbalagem(req.EmbalagemQtd)
		partial.EmbalagemQtdSet = true
	}
	if req.ObservacaoCompras != nil {
		partial.ObservacaoCompras = autosave.SanitizeObservacao(req.ObservacaoCompras)
		partial.ObservacaoComprasSet = true
	}
	if req.LeadTimeDias != nil {
		partial.LeadTimeDias = req.LeadTimeDias
		partial.LeadTimeDiasSet = true
	}

	h.service.AutoSave.ScheduleSave(id, partial)
	status, _ := h.service.AutoSave.Status(id)
	c.JSON(http.StatusAccepted, gin.H{"id_produto_tiny": id, "sync_status": status})
}

// RetryProduto re-schedules a failed autosave from current values.
func (h *ComprasHandler) RetryProduto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid product id")
		return
	}
	h.service.AutoSave.Retry(id)
	status, _ := h.service.AutoSave.Status(id)
	c.JSON(http.StatusAccepted, gin.H{"id_produto_tiny": id, "sync_status": status})
}

// FlushAll persists every pending autosave now; called before navigation.
func (h *ComprasHandler) FlushAll(c *gin.Context) {
	if err := h.service.AutoSave.FlushAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": false, "sync_status": h.service.AutoSave.StatusMap()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sync_status": h.service.AutoSave.StatusMap()})
}

// SavePedido persists the current draft under a name.
func (h *ComprasHandler) SavePedido(c *gin.Context) {
	var req struct {
		Nome string `json:"nome" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "draft name is required")
		return
	}

	periodDays, targetDays := h.service.Params()
	pedido := h.service.Draft.Snapshot(req.Nome, periodDays, targetDays)
	if err := h.pedidoRepo.SavePedido(c.Request.Context(), pedido); err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to save draft order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"nome": pedido.Nome, "saved_at": pedido.SavedAt})
}

// GetPedido restores a saved draft into the session.
func (h *ComprasHandler) GetPedido(c *gin.Context) {
	pedido, err := h.pedidoRepo.GetPedido(c.Request.Context(), c.Param("nome"))
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load draft order")
		return
	}
	if pedido == nil {
		errorResponse(c, http.StatusNotFound, "draft order not found")
		return
	}

	h.service.Draft.Restore(*pedido)
	h.service.SetPeriodDays(pedido.PeriodDays)
	h.service.SetTargetDays(pedido.TargetDays)
	c.JSON(http.StatusOK, pedido)
}

func (h *ComprasHandler) ListPedidos(c *gin.Context) {
	nomes, err := h.pedidoRepo.ListPedidos(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to list draft orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pedidos": nomes})
}

func (h *ComprasHandler) DeletePedido(c *gin.Context) {
	if err := h.pedidoRepo.DeletePedido(c.Request.Context(), c.Param("nome")); err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to delete draft order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
