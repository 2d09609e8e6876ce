package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gearguard/internal/entities"
)

func uintPtr(v uint64) *uint64 { return &v }

var (
	manager    = &entities.User{ID: 1, Role: entities.RoleManager}
	technician = &entities.User{ID: 2, Role: entities.RoleTechnician, TeamIDs: []uint64{10}}
	user       = &entities.User{ID: 3, Role: entities.RoleUser}
)

func TestCanReadRequest(t *testing.T) {
	g := NewGatekeeper()

	teamRequest := &entities.Request{TeamID: uintPtr(10), CreatedByID: 99}
	otherTeamRequest := &entities.Request{TeamID: uintPtr(20), CreatedByID: 99}
	noTeamRequest := &entities.Request{CreatedByID: 99}
	ownRequest := &entities.Request{CreatedByID: 3}

	assert.True(t, g.CanReadRequest(manager, otherTeamRequest))
	assert.True(t, g.CanReadRequest(technician, teamRequest))
	assert.False(t, g.CanReadRequest(technician, otherTeamRequest))
	assert.False(t, g.CanReadRequest(technician, noTeamRequest))
	assert.True(t, g.CanReadRequest(user, ownRequest))
	assert.False(t, g.CanReadRequest(user, teamRequest))
}

func TestCanWriteRequest(t *testing.T) {
	g := NewGatekeeper()

	teamRequest := &entities.Request{TeamID: uintPtr(10)}
	otherTeamRequest := &entities.Request{TeamID: uintPtr(20)}
	ownRequest := &entities.Request{CreatedByID: 3}

	assert.True(t, g.CanWriteRequest(manager, otherTeamRequest))
	assert.True(t, g.CanWriteRequest(technician, teamRequest))
	assert.False(t, g.CanWriteRequest(technician, otherTeamRequest))

	// Обычный пользователь не пишет даже в собственные заявки.
	assert.False(t, g.CanWriteRequest(user, ownRequest))
}

func TestCanCreateRequest(t *testing.T) {
	g := NewGatekeeper()

	assert.True(t, g.CanCreateRequest(manager))
	assert.True(t, g.CanCreateRequest(technician))
	assert.True(t, g.CanCreateRequest(user))
	assert.False(t, g.CanCreateRequest(&entities.User{Role: "ghost"}))
}

func TestManagementPermissions(t *testing.T) {
	g := NewGatekeeper()

	assert.True(t, g.CanManageEquipment(manager))
	assert.False(t, g.CanManageEquipment(technician))
	assert.False(t, g.CanManageEquipment(user))

	assert.True(t, g.CanManageTeams(manager))
	assert.False(t, g.CanManageTeams(technician))
	assert.False(t, g.CanManageTeams(user))
}
