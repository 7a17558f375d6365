// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/develop-ac/compras-backend/internal/api/handlers"
	"github.com/develop-ac/compras-backend/internal/repository"
	"github.com/develop-ac/compras-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	ComprasService *service.ComprasService
	PedidoRepo     repository.PedidoRepository
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil && services.ComprasService != nil {
		comprasHandler := handlers.NewComprasHandler(services.ComprasService, services.PedidoRepo)
		comprasGroup := apiGroup.Group("/compras")
		{
			comprasGroup.GET("/sugestoes", comprasHandler.GetSugestoes)
			comprasGroup.GET("/fornecedores", comprasHandler.GetFornecedores)
			comprasGroup.GET("/grupos", comprasHandler.GetGruposFornecedor)
			comprasGroup.PATCH("/produto/:id", comprasHandler.PatchProduto)
			comprasGroup.POST("/produto/:id/retry", comprasHandler.RetryProduto)
			comprasGroup.POST("/flush", comprasHandler.FlushAll)

			comprasGroup.GET("/pedidos", comprasHandler.ListPedidos)
			comprasGroup.GET("/pedidos/:nome", comprasHandler.GetPedido)
			comprasGroup.POST("/pedidos", comprasHandler.SavePedido)
			comprasGroup.DELETE("/pedidos/:nome", comprasHandler.DeletePedido)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
