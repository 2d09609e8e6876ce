package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name           string      `json:"name" validate:"required,max=200"`
	SerialNumber   null.String `json:"serial_number"`
	Department     string      `json:"department" validate:"required,max=100"`
	Location       string      `json:"location" validate:"max=200"`
	TeamID         null.Uint64 `json:"team_id"`
	AssignedUserID null.Uint64 `json:"assigned_user_id"`
}

type UpdateEquipmentDTO struct {
	Name           null.String `json:"name" validate:"omitempty,max=200"`
	SerialNumber   null.String `json:"serial_number"`
	Department     null.String `json:"department" validate:"omitempty,max=100"`
	Location       null.String `json:"location" validate:"omitempty,max=200"`
	TeamID         null.Uint64 `json:"team_id"`
	AssignedUserID null.Uint64 `json:"assigned_user_id"`
	IsScrapped     null.Bool   `json:"is_scrapped"`
}

type EquipmentDTO struct {
	ID           uint64        `json:"id"`
	Name         string        `json:"name"`
	SerialNumber null.String   `json:"serial_number"`
	Department   string        `json:"department"`
	Location     string        `json:"location"`
	Team         *ShortTeamDTO `json:"team,omitempty"`
	AssignedUser *ShortUserDTO `json:"assigned_user,omitempty"`
	IsScrapped   bool          `json:"is_scrapped"`
	CreatedAt    string        `json:"created_at"`
}
