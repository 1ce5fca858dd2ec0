package models

import (
	"time"

	"github.com/architpanigrahi/CS7CS3-incident-management-service/pkg/coord"
)

// Типы инцидентов (закрытое множество)
const (
	TypeFire       = "Fire"
	TypeFlood      = "Flood"
	TypeEarthquake = "Earthquake"
	TypeCriminal   = "Criminal"
	TypeOther      = "Other"
)

// Уровни серьезности
const (
	SeverityLow    = "Low"
	SeverityMedium = "Medium"
	SeverityHigh   = "High"
)

// Статусы жизненного цикла инцидента
const (
	StatusReported   = "Reported"
	StatusInProgress = "Verification in Progress"
	StatusDuplicate  = "Duplicate"
	StatusVerified   = "Verified"
	StatusResolved   = "Resolved"
)

// Incident - каноническая хранимая запись об инциденте.
// IncidentID, Type, Severity, UserID и CreatedAt неизменяемы после создания,
// Status и UpdatedAt меняются только операцией обновления статуса.
type Incident struct {
	IncidentID string        `json:"incident_id"`
	Latitude   coord.Decimal `json:"latitude"`
	Longitude  coord.Decimal `json:"longitude"`
	Type       string        `json:"type"`
	Severity   string        `json:"severity"`
	UserID     string        `json:"user_id"`
	Status     string        `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  *time.Time    `json:"updated_at,omitempty"`
}

// ApplyStatus возвращает копию записи, в которой заменены только Status и UpdatedAt.
// Семантика совпадает с атомарным обновлением в хранилище: трогаются те же два поля.
func (i Incident) ApplyStatus(status string, now time.Time) Incident {
	updated := i
	updated.Status = status
	updated.UpdatedAt = &now
	return updated
}

// ValidType проверяет принадлежность типа закрытому множеству
func ValidType(t string) bool {
	switch t {
	case TypeFire, TypeFlood, TypeEarthquake, TypeCriminal, TypeOther:
		return true
	}
	return false
}

// ValidSeverity проверяет принадлежность уровня серьезности закрытому множеству
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// ValidStatus проверяет принадлежность статуса закрытому множеству
func ValidStatus(s string) bool {
	switch s {
	case StatusReported, StatusInProgress, StatusDuplicate, StatusVerified, StatusResolved:
		return true
	}
	return false
}
