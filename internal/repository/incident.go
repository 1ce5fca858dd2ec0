package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/models"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/service"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/coord"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/e"
)

// cacheTTL - срок жизни записи в кеше
const cacheTTL = 5 * time.Minute

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// incidentColumns - общий список колонок для чтения записи.
// Координаты читаются текстом, чтобы сохранить ровно 4 знака NUMERIC(9,4).
const incidentColumns = `
	incident_id,
	latitude::text,
	longitude::text,
	type,
	severity,
	user_id,
	status,
	created_at,
	updated_at`

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var lat, lon string
	err := row.Scan(
		&incident.IncidentID,
		&lat,
		&lon,
		&incident.Type,
		&incident.Severity,
		&incident.UserID,
		&incident.Status,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if incident.Latitude, err = coord.Parse(lat); err != nil {
		return nil, fmt.Errorf("stored latitude %q: %w", lat, e.ErrMapping)
	}
	if incident.Longitude, err = coord.Parse(lon); err != nil {
		return nil, fmt.Errorf("stored longitude %q: %w", lon, e.ErrMapping)
	}
	return incident, nil
}

// Create сохраняет запись об инциденте. Вставка безусловная: при совпадении
// ключа запись перезаписывается (идентификаторы генерируются свежими, коллизии
// на совести вызывающего).
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (incident_id, latitude, longitude, type, severity, user_id, status, created_at, updated_at)
		VALUES ($1, $2::numeric, $3::numeric, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (incident_id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			type = EXCLUDED.type,
			severity = EXCLUDED.severity,
			user_id = EXCLUDED.user_id,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := r.db.Exec(ctx, query,
		incident.IncidentID,
		incident.Latitude.String(),
		incident.Longitude.String(),
		incident.Type,
		incident.Severity,
		incident.UserID,
		incident.Status,
		incident.CreatedAt,
		incident.UpdatedAt,
	)
	if err != nil {
		return e.WrapError(ctx, "repository: create incident", err)
	}
	return nil
}

// GetByID возвращает инцидент по идентификатору.
// Отсутствие записи - не ошибка: возвращается (nil, nil).
func (r *IncidentRepository) GetByID(ctx context.Context, incidentID string) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE incident_id = $1;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, incidentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if errors.Is(err, e.ErrMapping) {
			return nil, err
		}
		return nil, e.WrapError(ctx, "repository: get incident by id", err)
	}
	return incident, nil
}

// UpdateStatus атомарно устанавливает статус и updated_at одной командой
// и возвращает запись после обновления. Отдельного чтения перед записью нет:
// UPDATE ... RETURNING выполняется за один обмен с базой.
func (r *IncidentRepository) UpdateStatus(ctx context.Context, incidentID, status string) (*models.Incident, error) {
	query := `
		UPDATE incidents SET
			status = $2,
			updated_at = NOW()
		WHERE incident_id = $1
		RETURNING ` + incidentColumns + `;`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, incidentID, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repository: incident %s not found for status update: %w", incidentID, e.ErrNotFound)
		}
		if errors.Is(err, e.ErrMapping) {
			return nil, err
		}
		return nil, e.WrapError(ctx, "repository: update incident status", err)
	}
	return incident, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, incidentID string) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", incidentID)
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.IncidentID)
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, incidentID string) error {
	key := fmt.Sprintf("incident:%s", incidentID)
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
