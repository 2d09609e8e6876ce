package authz

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearguard/internal/entities"
)

func TestScopeSQLCondition(t *testing.T) {
	t.Run("менеджер видит всё", func(t *testing.T) {
		scope := ScopeFor(&entities.User{ID: 1, Role: entities.RoleManager})
		assert.Nil(t, scope.SQLCondition())
	})

	t.Run("техник ограничен командами", func(t *testing.T) {
		scope := ScopeFor(&entities.User{ID: 2, Role: entities.RoleTechnician, TeamIDs: []uint64{10, 20}})

		cond := scope.SQLCondition()
		require.NotNil(t, cond)
		sql, args, err := cond.ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "r.team_id IN")
		assert.Len(t, args, 2)
	})

	t.Run("техник без команд не видит ничего", func(t *testing.T) {
		scope := ScopeFor(&entities.User{ID: 2, Role: entities.RoleTechnician})

		cond := scope.SQLCondition()
		require.NotNil(t, cond)
		sql, _, err := cond.ToSql()
		require.NoError(t, err)
		// Пустой список squirrel сворачивает в заведомо ложное условие.
		assert.Contains(t, sql, "(1=0)")
	})

	t.Run("пользователь видит только свои", func(t *testing.T) {
		scope := ScopeFor(&entities.User{ID: 3, Role: entities.RoleUser})

		cond := scope.SQLCondition()
		require.NotNil(t, cond)
		assert.Equal(t, sq.Eq{"r.created_by": uint64(3)}, cond)
	})
}

func TestScopeEquipmentSQLCondition(t *testing.T) {
	managerScope := ScopeFor(&entities.User{ID: 1, Role: entities.RoleManager})
	assert.Nil(t, managerScope.EquipmentSQLCondition())

	techScope := ScopeFor(&entities.User{ID: 2, Role: entities.RoleTechnician, TeamIDs: []uint64{10}})
	assert.Equal(t, sq.Eq{"e.team_id": []uint64{10}}, techScope.EquipmentSQLCondition())

	userScope := ScopeFor(&entities.User{ID: 3, Role: entities.RoleUser})
	assert.Equal(t, sq.Eq{"e.assigned_user_id": uint64(3)}, userScope.EquipmentSQLCondition())
}

func TestScopeContains(t *testing.T) {
	teamRequest := &entities.Request{TeamID: uintPtr(10), CreatedByID: 99}
	otherTeamRequest := &entities.Request{TeamID: uintPtr(20), CreatedByID: 99}
	noTeamRequest := &entities.Request{CreatedByID: 3}

	managerScope := ScopeFor(&entities.User{ID: 1, Role: entities.RoleManager})
	assert.True(t, managerScope.Contains(teamRequest))
	assert.True(t, managerScope.Contains(noTeamRequest))

	techScope := ScopeFor(&entities.User{ID: 2, Role: entities.RoleTechnician, TeamIDs: []uint64{10}})
	assert.True(t, techScope.Contains(teamRequest))
	assert.False(t, techScope.Contains(otherTeamRequest))
	assert.False(t, techScope.Contains(noTeamRequest))

	userScope := ScopeFor(&entities.User{ID: 3, Role: entities.RoleUser})
	assert.True(t, userScope.Contains(noTeamRequest))
	assert.False(t, userScope.Contains(teamRequest))
}
