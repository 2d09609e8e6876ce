package authz

import (
	"gearguard/internal/entities"
)

// Gatekeeper — проверки доступа по ролям. Роли закрытые
// (User < Technician < Manager), поэтому вместо разбросанных булевых
// проверок все решения собраны здесь и в scope.go.
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// CanReadRequest — просмотр одной заявки.
// Manager видит всё; Technician — заявки своих команд;
// User — только созданные им самим.
func (g *Gatekeeper) CanReadRequest(actor *entities.User, r *entities.Request) bool {
	switch actor.Role {
	case entities.RoleManager:
		return true
	case entities.RoleTechnician:
		return r.TeamID != nil && actor.MemberOf(*r.TeamID)
	case entities.RoleUser:
		return r.CreatedByID == actor.ID
	}
	return false
}

// CanWriteRequest — смена статуса и прочие записи по заявке.
// Обычный User писать не может никогда, даже в собственные заявки.
func (g *Gatekeeper) CanWriteRequest(actor *entities.User, r *entities.Request) bool {
	switch actor.Role {
	case entities.RoleManager:
		return true
	case entities.RoleTechnician:
		return r.TeamID != nil && actor.MemberOf(*r.TeamID)
	}
	return false
}

// CanCreateRequest — создавать заявки могут все роли.
func (g *Gatekeeper) CanCreateRequest(actor *entities.User) bool {
	return actor.Role.Valid()
}

// CanManageEquipment — создание и редактирование оборудования.
func (g *Gatekeeper) CanManageEquipment(actor *entities.User) bool {
	return actor.Role == entities.RoleManager
}

// CanManageTeams — создание, редактирование и удаление команд.
func (g *Gatekeeper) CanManageTeams(actor *entities.User) bool {
	return actor.Role == entities.RoleManager
}
