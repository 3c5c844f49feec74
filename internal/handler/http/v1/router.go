package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Сигналы: создание и чтение публичные, смена статуса только для команд
	signals := api.Group("/signals")
	{
		signals.POST("", h.createSignal)
		signals.GET("", h.listSignals)
		signals.GET("/:id", h.getSignal)
		signals.GET("/:id/rescuer-location", h.getRescuerLocation)
		signals.GET("/:id/history", h.TeamAuthMiddleware(), h.getSignalHistory)
		signals.PUT("/:id/status", h.TeamAuthMiddleware(), h.updateSignalStatus)
	}

	rescue := api.Group("/rescue")
	{
		rescue.POST("/register", h.registerTeam)
		rescue.POST("/login", h.login)

		authed := rescue.Group("", h.TeamAuthMiddleware())
		authed.POST("/location", h.reportRescuerLocation)
		authed.GET("/dashboard/stats", h.getDashboardStats)
		authed.GET("/signals/export", h.exportSignals)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
