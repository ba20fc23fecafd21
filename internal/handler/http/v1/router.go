package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Обработка реплики открыта, как и форма обращения на сайте
	api.POST("/process", h.processText)

	// Журнал обращений только по API-ключу
	requests := api.Group("/requests", APIKeyAuthMiddleware(h.cfg, h.logger))
	{
		requests.GET("", h.listRequests)
		requests.GET("/:id", h.getRequest)
	}

	system := api.Group("/system")
	{
		system.GET("/health", h.healthCheck)
		system.GET("/generator", h.generatorStatus)
	}
}
