package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateRequestDTO struct {
	Subject      string      `json:"subject" validate:"required,max=200"`
	Description  string      `json:"description"`
	EquipmentID  uint64      `json:"equipment_id" validate:"required"`
	TeamID       null.Uint64 `json:"team_id"`
	Kind         string      `json:"kind" validate:"required,oneof=Corrective Preventive"`
	ScheduledAt  null.Time   `json:"scheduled_at"`
	TechnicianID null.Uint64 `json:"technician_id"`
}

type UpdateRequestStatusDTO struct {
	Status        string       `json:"status" validate:"required"`
	DurationHours null.Float64 `json:"duration_hours" validate:"omitempty,gte=0"`
}

type RequestDTO struct {
	ID            uint64            `json:"id"`
	Subject       string            `json:"subject"`
	Description   string            `json:"description"`
	Kind          string            `json:"kind"`
	Status        string            `json:"status"`
	Equipment     ShortEquipmentDTO `json:"equipment"`
	Team          *ShortTeamDTO     `json:"team,omitempty"`
	Technician    *ShortUserDTO     `json:"technician,omitempty"`
	CreatedBy     ShortUserDTO      `json:"created_by"`
	ScheduledAt   null.Time         `json:"scheduled_at"`
	CompletedAt   null.Time         `json:"completed_at"`
	DurationHours null.Float64      `json:"duration_hours"`
	IsOverdue     bool              `json:"is_overdue"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}
