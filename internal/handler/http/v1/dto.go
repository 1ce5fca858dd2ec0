package v1

// IncidentLocationDTO - географические координаты инцидента
// @Description Географические координаты инцидента
// Теги required на координатах недопустимы: validator/v10 считает
// нулевой float отсутствующим, а широта 0.0 и долгота 0.0 - валидные
// значения (экватор, гринвичский меридиан).
type IncidentLocationDTO struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Location *IncidentLocationDTO `json:"location" validate:"required"`
	Type     string              `json:"type" validate:"required,oneof=Fire Flood Earthquake Criminal Other"`
	Severity string              `json:"severity" validate:"required,oneof=Low Medium High"`
	UserID   string              `json:"user_id" validate:"required"`
}

// UpdateIncidentStatusRequest DTO для обновления статуса инцидента
// @Description DTO для обновления статуса инцидента
type UpdateIncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof='Reported' 'Verification in Progress' 'Duplicate' 'Verified' 'Resolved'"`
}

// IncidentDetailResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentDetailResponse struct {
	IncidentID string              `json:"incident_id"`
	Location   IncidentLocationDTO `json:"location"`
	Type       string              `json:"type"`
	Severity   string              `json:"severity"`
	UserID     string              `json:"user_id"`
	Status     string              `json:"status"`
	CreatedAt  string              `json:"created_at"`
	UpdatedAt  *string             `json:"updated_at,omitempty"`
}
