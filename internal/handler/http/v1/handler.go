package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/config"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/service"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/e"
)

type Handler struct {
	incidentService service.IncidentService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// writeError транслирует доменные ошибки в коды ответа
func (h *Handler) writeError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
	case errors.Is(err, e.ErrInvalidInput):
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrMapping):
		// Сигнал о поврежденных данных: логируется для оператора
		log.WithError(err).Error("Stored incident failed enum re-validation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stored incident data is corrupted"})
	default:
		log.WithError(err).Error("Internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Report a new incident
// @Description Create a new incident report. Requires bearer token.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body CreateIncidentRequest true "Incident report"
// @Success 200 {object} IncidentDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incident/report [post]
func (h *Handler) reportIncident(c *gin.Context) {
	log := h.logger.WithField("method", "reportIncident")
	if identity, ok := IdentityFromContext(c); ok {
		log = log.WithField("caller", identity.UserID)
	}

	var input CreateIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	incident, err := RequestToIncident(input)
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	if err := h.incidentService.ReportIncident(c.Request.Context(), incident); err != nil {
		h.writeError(c, log, err)
		return
	}

	resp, err := IncidentToDetailResponse(incident)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get incident by ID
// @Description Get a single incident report by its ID. Requires bearer token.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident_id path string true "Incident ID"
// @Success 200 {object} IncidentDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incident/{incident_id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	incidentID := c.Param("incident_id")
	log := h.logger.WithField("method", "getIncident").WithField("incident_id", incidentID)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), incidentID)
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	resp, err := IncidentToDetailResponse(incident)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update incident status
// @Description Update the status of an existing incident. Requires bearer token.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident_id path string true "Incident ID"
// @Param update body UpdateIncidentStatusRequest true "New status"
// @Success 200 {object} IncidentDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 422 {object} map[string]string "Validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incident/{incident_id} [patch]
func (h *Handler) updateIncidentStatus(c *gin.Context) {
	incidentID := c.Param("incident_id")
	log := h.logger.WithField("method", "updateIncidentStatus").WithField("incident_id", incidentID)

	var input UpdateIncidentStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.incidentService.UpdateIncidentStatus(c.Request.Context(), incidentID, input.Status)
	if err != nil {
		h.writeError(c, log, err)
		return
	}

	resp, err := IncidentToDetailResponse(updated)
	if err != nil {
		h.writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /health [get]
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
