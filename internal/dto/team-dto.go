package dto

import (
	"github.com/aarondl/null/v8"
)

type CreateTeamDTO struct {
	Name      string   `json:"name" validate:"required,max=100"`
	MemberIDs []uint64 `json:"member_ids"`
}

type UpdateTeamDTO struct {
	Name      null.String `json:"name" validate:"omitempty,max=100"`
	MemberIDs *[]uint64   `json:"member_ids"`
}

type TeamDTO struct {
	ID        uint64         `json:"id"`
	Name      string         `json:"name"`
	Members   []ShortUserDTO `json:"members"`
	CreatedAt string         `json:"created_at"`
}
