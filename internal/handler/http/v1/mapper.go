package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/models"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/coord"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/e"
)

// RequestToIncident преобразует DTO создания в хранимую запись:
// генерирует идентификатор, квантует координаты до 4 знаков,
// выставляет статус Reported и created_at. UpdatedAt остается пустым
// до первого обновления статуса.
func RequestToIncident(req CreateIncidentRequest) (*models.Incident, error) {
	if req.Location == nil {
		return nil, fmt.Errorf("location is required: %w", e.ErrInvalidInput)
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("user_id cannot be empty: %w", e.ErrInvalidInput)
	}

	lat, err := coord.Quantize(req.Location.Latitude)
	if err != nil {
		return nil, fmt.Errorf("latitude: %v: %w", err, e.ErrInvalidInput)
	}
	lon, err := coord.Quantize(req.Location.Longitude)
	if err != nil {
		return nil, fmt.Errorf("longitude: %v: %w", err, e.ErrInvalidInput)
	}

	return &models.Incident{
		IncidentID: uuid.NewString(),
		Latitude:   lat,
		Longitude:  lon,
		Type:       req.Type,
		Severity:   req.Severity,
		UserID:     req.UserID,
		Status:     models.StatusReported,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// IncidentToDetailResponse преобразует хранимую запись в DTO ответа.
// Значения enum перепроверяются: запись, дрейфовавшая за пределы известных
// множеств (коррупция, legacy-данные), не отдается наружу.
func IncidentToDetailResponse(incident *models.Incident) (*IncidentDetailResponse, error) {
	if !models.ValidType(incident.Type) {
		return nil, fmt.Errorf("stored type %q is outside the known set: %w", incident.Type, e.ErrMapping)
	}
	if !models.ValidSeverity(incident.Severity) {
		return nil, fmt.Errorf("stored severity %q is outside the known set: %w", incident.Severity, e.ErrMapping)
	}
	if !models.ValidStatus(incident.Status) {
		return nil, fmt.Errorf("stored status %q is outside the known set: %w", incident.Status, e.ErrMapping)
	}

	resp := &IncidentDetailResponse{
		IncidentID: incident.IncidentID,
		Location: IncidentLocationDTO{
			Latitude:  incident.Latitude.Float64(),
			Longitude: incident.Longitude.Float64(),
		},
		Type:      incident.Type,
		Severity:  incident.Severity,
		UserID:    incident.UserID,
		Status:    incident.Status,
		CreatedAt: incident.CreatedAt.Format(time.RFC3339Nano),
	}
	if incident.UpdatedAt != nil {
		updatedAt := incident.UpdatedAt.Format(time.RFC3339Nano)
		resp.UpdatedAt = &updatedAt
	}
	return resp, nil
}
