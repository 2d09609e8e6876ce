package entities

import "gearguard/pkg/types"

// Role — закрытый набор ролей, ранжированных по привилегиям:
// User < Technician < Manager.
type Role string

const (
	RoleUser       Role = "user"
	RoleTechnician Role = "technician"
	RoleManager    Role = "manager"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTechnician, RoleManager:
		return true
	}
	return false
}

type User struct {
	ID           uint64   `json:"id"`
	Fio          string   `json:"fio"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         Role     `json:"role"`
	TeamIDs      []uint64 `json:"team_ids"`

	types.BaseEntity
}

// MemberOf сообщает, состоит ли пользователь в команде.
func (u *User) MemberOf(teamID uint64) bool {
	for _, id := range u.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
