package v1

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/models"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/e"
)

func validCreateRequest() CreateIncidentRequest {
	return CreateIncidentRequest{
		Location: &IncidentLocationDTO{
			Latitude:  53.3498,
			Longitude: -6.2603,
		},
		Type:     models.TypeFire,
		Severity: models.SeverityHigh,
		UserID:   "user123",
	}
}

func TestRequestToIncident_CreationInvariants(t *testing.T) {
	// Действие
	incident, err := RequestToIncident(validCreateRequest())

	// Проверки
	require.NoError(t, err)
	require.NotEmpty(t, incident.IncidentID)
	_, err = uuid.Parse(incident.IncidentID)
	assert.NoError(t, err, "incident_id должен быть свежим uuid")

	assert.Equal(t, models.StatusReported, incident.Status)
	assert.Nil(t, incident.UpdatedAt)
	assert.False(t, incident.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, incident.CreatedAt.Location())

	// Координаты квантованы ровно до 4 знаков
	assert.Equal(t, "53.3498", incident.Latitude.String())
	assert.Equal(t, "-6.2603", incident.Longitude.String())

	assert.Equal(t, models.TypeFire, incident.Type)
	assert.Equal(t, models.SeverityHigh, incident.Severity)
	assert.Equal(t, "user123", incident.UserID)
}

func TestRequestToIncident_FreshIDs(t *testing.T) {
	first, err := RequestToIncident(validCreateRequest())
	require.NoError(t, err)
	second, err := RequestToIncident(validCreateRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.IncidentID, second.IncidentID)
}

func TestRequestToIncident_ZeroCoordinates(t *testing.T) {
	// Точка (0, 0) валидна: ноль - значение, а не отсутствие
	req := validCreateRequest()
	req.Location.Latitude = 0
	req.Location.Longitude = 0

	incident, err := RequestToIncident(req)

	require.NoError(t, err)
	assert.Equal(t, "0.0000", incident.Latitude.String())
	assert.Equal(t, "0.0000", incident.Longitude.String())
}

func TestRequestToIncident_NilLocation(t *testing.T) {
	req := validCreateRequest()
	req.Location = nil

	_, err := RequestToIncident(req)

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestRequestToIncident_BlankUserID(t *testing.T) {
	req := validCreateRequest()
	req.UserID = "   "

	_, err := RequestToIncident(req)

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestRequestToIncident_NonFiniteCoordinate(t *testing.T) {
	req := validCreateRequest()
	req.Location.Latitude = math.NaN()

	_, err := RequestToIncident(req)

	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestIncidentToDetailResponse_Success(t *testing.T) {
	// Подготовка
	incident, err := RequestToIncident(validCreateRequest())
	require.NoError(t, err)

	// Действие
	resp, err := IncidentToDetailResponse(incident)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, incident.IncidentID, resp.IncidentID)
	assert.InDelta(t, 53.3498, resp.Location.Latitude, 1e-9)
	assert.InDelta(t, -6.2603, resp.Location.Longitude, 1e-9)
	assert.Equal(t, models.StatusReported, resp.Status)
	assert.Nil(t, resp.UpdatedAt, "updated_at отсутствует до первого обновления")

	_, err = time.Parse(time.RFC3339Nano, resp.CreatedAt)
	assert.NoError(t, err, "created_at должен быть в формате ISO-8601")
}

func TestIncidentToDetailResponse_UpdatedAtPresent(t *testing.T) {
	incident, err := RequestToIncident(validCreateRequest())
	require.NoError(t, err)
	updated := incident.ApplyStatus(models.StatusResolved, time.Now().UTC())

	resp, err := IncidentToDetailResponse(&updated)

	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, resp.Status)
	require.NotNil(t, resp.UpdatedAt)
	_, err = time.Parse(time.RFC3339Nano, *resp.UpdatedAt)
	assert.NoError(t, err)
}

func TestIncidentToDetailResponse_DriftedEnums(t *testing.T) {
	// Запись, дрейфовавшая за пределы известных множеств, не отдается наружу
	cases := []struct {
		name   string
		mutate func(*models.Incident)
	}{
		{"unknown type", func(i *models.Incident) { i.Type = "Volcano" }},
		{"unknown severity", func(i *models.Incident) { i.Severity = "Catastrophic" }},
		{"unknown status", func(i *models.Incident) { i.Status = "Closed" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			incident, err := RequestToIncident(validCreateRequest())
			require.NoError(t, err)
			tc.mutate(incident)

			_, err = IncidentToDetailResponse(incident)

			require.Error(t, err)
			assert.ErrorIs(t, err, e.ErrMapping)
		})
	}
}

func TestApplyStatus_TouchesOnlyStatusAndUpdatedAt(t *testing.T) {
	incident, err := RequestToIncident(validCreateRequest())
	require.NoError(t, err)
	now := time.Now().UTC()

	updated := incident.ApplyStatus(models.StatusVerified, now)

	assert.Equal(t, models.StatusVerified, updated.Status)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, now, *updated.UpdatedAt)

	assert.Equal(t, incident.IncidentID, updated.IncidentID)
	assert.Equal(t, incident.Latitude, updated.Latitude)
	assert.Equal(t, incident.Longitude, updated.Longitude)
	assert.Equal(t, incident.Type, updated.Type)
	assert.Equal(t, incident.Severity, updated.Severity)
	assert.Equal(t, incident.UserID, updated.UserID)
	assert.Equal(t, incident.CreatedAt, updated.CreatedAt)

	// Исходная запись не изменилась
	assert.Equal(t, models.StatusReported, incident.Status)
	assert.Nil(t, incident.UpdatedAt)
}
