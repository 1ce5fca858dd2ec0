package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует маршруты API инцидентов
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	incident := api.Group("/incident")
	{
		incident.POST("/report", h.reportIncident)
		incident.GET("/:incident_id", h.getIncident)
		incident.PATCH("/:incident_id", h.updateIncidentStatus)
	}
}
