package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/metrics"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/models"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/webhook"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/e"
)

// IncidentRepository определяет контракт для работы с хранилищем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, incidentID string) (*models.Incident, error)
	UpdateStatus(ctx context.Context, incidentID, status string) (*models.Incident, error)
	GetIncidentFromCache(ctx context.Context, incidentID string) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, incidentID string) error
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	ReportIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, incidentID string) (*models.Incident, error)
	UpdateIncidentStatus(ctx context.Context, incidentID, status string) (*models.Incident, error)
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	publisher webhook.EventPublisher
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, m *metrics.Metrics, publisher webhook.EventPublisher) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		metrics:   m,
		publisher: publisher,
	}
}

// ReportIncident сохраняет новую запись об инциденте
func (s *incidentService) ReportIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ReportIncident",
		"incident_id": incident.IncidentID,
	})
	log.Info("Attempting to report a new incident")

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	// Счетчик инкрементируется ровно один раз на успешное создание
	s.metrics.IncrementIncidentsCreated()

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to warm incident cache")
	}

	s.publishEvent(ctx, log, webhook.EventIncidentCreated, incident)

	log.Info("Incident reported successfully")
	return nil
}

// GetIncident получает инцидент по ID: сначала кеш, затем хранилище
func (s *incidentService) GetIncident(ctx context.Context, incidentID string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": incidentID,
	})
	log.Info("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		log.Info("Incident fetched from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Error("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	if incident == nil {
		log.Warn("Incident not found")
		return nil, fmt.Errorf("service: incident %s: %w", incidentID, e.ErrNotFound)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to set incident cache")
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// UpdateIncidentStatus обновляет статус инцидента.
// Предварительная проверка существования дает быстрый 404, но атомарность
// самого изменения от нее не зависит: UpdateStatus выполняется одной командой.
func (s *incidentService) UpdateIncidentStatus(ctx context.Context, incidentID, status string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncidentStatus",
		"incident_id": incidentID,
		"status":      status,
	})
	log.Info("Attempting to update incident status")

	existing, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Error("Failed to check incident existence")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	if existing == nil {
		log.Warn("Attempted to update a non-existent incident")
		return nil, fmt.Errorf("service: incident %s not found for update: %w", incidentID, e.ErrNotFound)
	}

	updated, err := s.repo.UpdateStatus(ctx, incidentID, status)
	if err != nil {
		log.WithError(err).Error("Failed to update incident status in repository")
		return nil, fmt.Errorf("service: could not update incident status: %w", err)
	}

	// Кеш обновляется записью после изменения, полученной из RETURNING
	if err := s.repo.SetIncidentCache(ctx, updated); err != nil {
		log.WithError(err).Warn("Failed to refresh incident cache")
	}

	s.publishEvent(ctx, log, webhook.EventIncidentStatusUpdated, updated)

	log.Info("Incident status updated successfully")
	return updated, nil
}

// publishEvent отправляет событие подписчику (fire-and-forget: ошибка логируется,
// но не прерывает запрос)
func (s *incidentService) publishEvent(ctx context.Context, log *logrus.Entry, eventType string, incident *models.Incident) {
	event := webhook.IncidentEvent{
		Event:      eventType,
		IncidentID: incident.IncidentID,
		Type:       incident.Type,
		Severity:   incident.Severity,
		Status:     incident.Status,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish incident event")
	}
}
