package entities

import "gearguard/pkg/types"

type Equipment struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	SerialNumber   *string `json:"serial_number"`
	Department     string  `json:"department"`
	Location       string  `json:"location"`
	TeamID         *uint64 `json:"team_id"`
	AssignedUserID *uint64 `json:"assigned_user_id"`
	// IsScrapped — терминальное состояние актива: по списанному
	// оборудованию новые заявки не создаются. Автоматика никогда
	// не снимает этот флаг, только ручное редактирование.
	IsScrapped bool `json:"is_scrapped"`

	types.BaseEntity
}
