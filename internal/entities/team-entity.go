package entities

import "gearguard/pkg/types"

type Team struct {
	ID      uint64   `json:"id"`
	Name    string   `json:"name"`
	Members []uint64 `json:"members"`

	types.BaseEntity
}
