package authz

import (
	sq "github.com/Masterminds/squirrel"

	"gearguard/internal/entities"
)

// RequestScope — единая область видимости заявок для пользователя.
// Одна и та же область подставляется во все списковые выборки (список,
// доска, календарь, дашборд), чтобы проекции не расходились: вне области
// элементы молча исключаются, точечный доступ отвечает отказом.
//
// SQLCondition == nil означает глобальную область (Manager).
type RequestScope struct {
	role    entities.Role
	userID  uint64
	teamIDs []uint64
}

// ScopeFor строит область видимости по актору.
func ScopeFor(actor *entities.User) RequestScope {
	return RequestScope{
		role:    actor.Role,
		userID:  actor.ID,
		teamIDs: actor.TeamIDs,
	}
}

// SQLCondition — условие для squirrel-построителя; колонки берутся
// по алиасу r (requests r).
func (s RequestScope) SQLCondition() sq.Sqlizer {
	switch s.role {
	case entities.RoleManager:
		return nil
	case entities.RoleTechnician:
		// Пустой список команд squirrel сворачивает в (1=0).
		return sq.Eq{"r.team_id": s.teamIDs}
	default:
		return sq.Eq{"r.created_by": s.userID}
	}
}

// EquipmentSQLCondition — область видимости оборудования для дашборда;
// колонки берутся по алиасу e (equipments e). Технику видно оборудование
// его команд, пользователю — закреплённое за ним.
func (s RequestScope) EquipmentSQLCondition() sq.Sqlizer {
	switch s.role {
	case entities.RoleManager:
		return nil
	case entities.RoleTechnician:
		return sq.Eq{"e.team_id": s.teamIDs}
	default:
		return sq.Eq{"e.assigned_user_id": s.userID}
	}
}

// Contains — тот же предикат в памяти, для уже загруженных заявок.
func (s RequestScope) Contains(r *entities.Request) bool {
	switch s.role {
	case entities.RoleManager:
		return true
	case entities.RoleTechnician:
		if r.TeamID == nil {
			return false
		}
		for _, id := range s.teamIDs {
			if id == *r.TeamID {
				return true
			}
		}
		return false
	default:
		return r.CreatedByID == s.userID
	}
}
