package entities

import (
	"time"

	"gearguard/pkg/types"
)

// RequestStatus — статус заявки на обслуживание.
//
// Граф переходов: New -> InProgress -> Repaired; из любого статуса -> Scrap.
// Repaired и Scrap терминальны: возврата в более ранний статус нет,
// исправление оформляется новой заявкой.
type RequestStatus string

const (
	StatusNew        RequestStatus = "New"
	StatusInProgress RequestStatus = "In Progress"
	StatusRepaired   RequestStatus = "Repaired"
	StatusScrap      RequestStatus = "Scrap"
)

// AllStatuses — порядок колонок канбан-доски.
var AllStatuses = []RequestStatus{StatusNew, StatusInProgress, StatusRepaired, StatusScrap}

// transitions описывает допустимые рёбра графа статусов.
var transitions = map[RequestStatus][]RequestStatus{
	StatusNew:        {StatusInProgress, StatusScrap},
	StatusInProgress: {StatusRepaired, StatusScrap},
	StatusRepaired:   {StatusScrap},
	StatusScrap:      {},
}

func (s RequestStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo проверяет достижимость нового статуса за один шаг.
// Переход в тот же статус считается допустимым (no-op).
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RequestStatus) IsTerminal() bool {
	return s == StatusRepaired || s == StatusScrap
}

// RequestKind — вид обслуживания.
type RequestKind string

const (
	KindCorrective RequestKind = "Corrective"
	KindPreventive RequestKind = "Preventive"
)

func (k RequestKind) Valid() bool {
	return k == KindCorrective || k == KindPreventive
}

type Request struct {
	ID           uint64        `json:"id"`
	Subject      string        `json:"subject"`
	Description  string        `json:"description"`
	EquipmentID  uint64        `json:"equipment_id"`
	TeamID       *uint64       `json:"team_id"`
	Kind         RequestKind   `json:"kind"`
	Status       RequestStatus `json:"status"`
	TechnicianID *uint64       `json:"technician_id"`
	ScheduledAt  *time.Time    `json:"scheduled_at"`
	DurationHrs  *float64      `json:"duration_hours"`
	CompletedAt  *time.Time    `json:"completed_at"`
	CreatedByID  uint64        `json:"created_by"`

	types.BaseEntity
}

// IsOverdue — чистый предикат просрочки, вычисляется на чтении и
// нигде не хранится: плановая заявка, срок которой прошёл, а работа
// не завершена.
func (r *Request) IsOverdue(now time.Time) bool {
	if r.Kind != KindPreventive || r.ScheduledAt == nil {
		return false
	}
	if r.Status == StatusRepaired {
		return false
	}
	return r.ScheduledAt.Before(now)
}
