package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/metrics"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/models"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/internal/service/mocks"
	webhook_mocks "github.com/architpanigrahi/CS7CS3-incident-management-service/internal/webhook/mocks"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/coord"
	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/e"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *webhook_mocks.MockEventPublisher, *metrics.Metrics) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	publisherMock := webhook_mocks.NewMockEventPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	// Отдельный registry, чтобы тесты не конфликтовали друг с другом
	m := metrics.New(prometheus.NewRegistry())

	service := NewIncidentService(repoMock, logger, m, publisherMock)
	return service.(*incidentService), repoMock, publisherMock, m
}

func testIncident(id string) *models.Incident {
	lat, _ := coord.Quantize(53.3498)
	lon, _ := coord.Quantize(-6.2603)
	return &models.Incident{
		IncidentID: id,
		Latitude:   lat,
		Longitude:  lon,
		Type:       models.TypeFire,
		Severity:   models.SeverityHigh,
		UserID:     "user123",
		Status:     models.StatusReported,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestReportIncident_Success(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock, m := newTestIncidentService(t)
	ctx := context.Background()
	incident := testIncident("incident-1")

	// Ожидания
	repoMock.EXPECT().Create(ctx, incident).Return(nil).Times(1)
	repoMock.EXPECT().SetIncidentCache(ctx, incident).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IncidentsCreated))
}

func TestReportIncident_RepoError(t *testing.T) {
	// Подготовка
	service, repoMock, _, m := newTestIncidentService(t)
	ctx := context.Background()
	incident := testIncident("incident-1")

	// Ожидания: ошибка хранилища, счетчик не инкрементируется, событие не публикуется
	repoMock.EXPECT().Create(ctx, incident).Return(fmt.Errorf("storage: %w", e.ErrInternal)).Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrInternal)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.IncidentsCreated))
}

func TestGetIncident_Success_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := testIncident("incident-1")

	// Ожидания
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, "incident-1").
		Return(expected, nil).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, "incident-1")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incident)
}

func TestGetIncident_Success_FromDB(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := testIncident("incident-1")

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().GetIncidentFromCache(ctx, "incident-1").Return(nil, nil).Times(1)
	// 2. Попадание в БД
	repoMock.EXPECT().GetByID(ctx, "incident-1").Return(expected, nil).Times(1)
	// 3. Запись в кеш
	repoMock.EXPECT().SetIncidentCache(ctx, expected).Return(nil).Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, "incident-1")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания: отсутствие записи в хранилище - не ошибка хранилища
	repoMock.EXPECT().GetIncidentFromCache(ctx, "missing").Return(nil, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, "missing").Return(nil, nil).Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, "missing")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.NotErrorIs(t, err, e.ErrInternal)
}

func TestUpdateIncidentStatus_Success(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	existing := testIncident("incident-1")
	now := time.Now().UTC()
	updated := existing.ApplyStatus(models.StatusResolved, now)

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, "incident-1").Return(existing, nil).Times(1)
	repoMock.EXPECT().UpdateStatus(ctx, "incident-1", models.StatusResolved).Return(&updated, nil).Times(1)
	repoMock.EXPECT().SetIncidentCache(ctx, &updated).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	result, err := service.UpdateIncidentStatus(ctx, "incident-1", models.StatusResolved)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, result.Status)
	require.NotNil(t, result.UpdatedAt)
	// Остальные поля не тронуты
	assert.Equal(t, existing.IncidentID, result.IncidentID)
	assert.Equal(t, existing.Latitude, result.Latitude)
	assert.Equal(t, existing.Longitude, result.Longitude)
	assert.Equal(t, existing.Type, result.Type)
	assert.Equal(t, existing.Severity, result.Severity)
	assert.Equal(t, existing.UserID, result.UserID)
	assert.Equal(t, existing.CreatedAt, result.CreatedAt)
}

func TestUpdateIncidentStatus_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания: предварительная проверка не находит запись,
	// атомарное обновление не вызывается
	repoMock.EXPECT().GetByID(ctx, "missing").Return(nil, nil).Times(1)

	// Действие
	result, err := service.UpdateIncidentStatus(ctx, "missing", models.StatusResolved)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestUpdateIncidentStatus_RepeatSameStatus(t *testing.T) {
	// Подготовка: два последовательных обновления с одним статусом
	// отличаются только updated_at (монотонно неубывающим)
	service, repoMock, publisherMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	existing := testIncident("incident-1")

	first := existing.ApplyStatus(models.StatusVerified, time.Now().UTC())
	second := first.ApplyStatus(models.StatusVerified, time.Now().UTC().Add(time.Second))

	// Ожидания
	gomock.InOrder(
		repoMock.EXPECT().GetByID(ctx, "incident-1").Return(existing, nil),
		repoMock.EXPECT().UpdateStatus(ctx, "incident-1", models.StatusVerified).Return(&first, nil),
		repoMock.EXPECT().GetByID(ctx, "incident-1").Return(&first, nil),
		repoMock.EXPECT().UpdateStatus(ctx, "incident-1", models.StatusVerified).Return(&second, nil),
	)
	repoMock.EXPECT().SetIncidentCache(ctx, gomock.Any()).Return(nil).Times(2)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(2)

	// Действие
	resultFirst, err := service.UpdateIncidentStatus(ctx, "incident-1", models.StatusVerified)
	require.NoError(t, err)
	resultSecond, err := service.UpdateIncidentStatus(ctx, "incident-1", models.StatusVerified)
	require.NoError(t, err)

	// Проверки
	assert.Equal(t, resultFirst.Status, resultSecond.Status)
	require.NotNil(t, resultFirst.UpdatedAt)
	require.NotNil(t, resultSecond.UpdatedAt)
	assert.False(t, resultSecond.UpdatedAt.Before(*resultFirst.UpdatedAt))
}

func TestUpdateIncidentStatus_DistinctIncidentsIndependent(t *testing.T) {
	// Подготовка: обновление статуса инцидента A не трогает запись B
	service, repoMock, publisherMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentA := testIncident("incident-a")
	incidentB := testIncident("incident-b")
	updatedA := incidentA.ApplyStatus(models.StatusResolved, time.Now().UTC())

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, "incident-a").Return(incidentA, nil).Times(1)
	repoMock.EXPECT().UpdateStatus(ctx, "incident-a", models.StatusResolved).Return(&updatedA, nil).Times(1)
	repoMock.EXPECT().SetIncidentCache(ctx, &updatedA).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	repoMock.EXPECT().GetIncidentFromCache(ctx, "incident-b").Return(incidentB, nil).Times(1)

	// Действие
	_, err := service.UpdateIncidentStatus(ctx, "incident-a", models.StatusResolved)
	require.NoError(t, err)

	other, err := service.GetIncident(ctx, "incident-b")
	require.NoError(t, err)

	// Проверки
	assert.Equal(t, models.StatusReported, other.Status)
	assert.Nil(t, other.UpdatedAt)
}
