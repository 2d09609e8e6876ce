package repositories

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquipmentCountsExcludesScrappedFromTotal(t *testing.T) {
	sql, args, err := equipmentCountsBuilder(nil).ToSql()
	require.NoError(t, err)
	require.Empty(t, args)

	// Первая колонка считает только действующее оборудование.
	assert.Contains(t, sql, "COUNT(*) FILTER (WHERE NOT e.is_scrapped)")
	assert.Contains(t, sql, "COUNT(*) FILTER (WHERE e.is_scrapped)")
	assert.NotContains(t, sql, "SELECT COUNT(*),")
}

func TestEquipmentCountsAppliesScope(t *testing.T) {
	sql, args, err := equipmentCountsBuilder(sq.Eq{"e.team_id": []uint64{10}}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "e.team_id IN ($1)")
	assert.Equal(t, []interface{}{uint64(10)}, args)
}

func TestRequestCountsColumns(t *testing.T) {
	sql, _, err := requestCountsBuilder(nil).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "r.status NOT IN ('Repaired', 'Scrap')")
	assert.Contains(t, sql, "r.kind = 'Preventive' AND r.scheduled_at < NOW() AND r.status != 'Repaired'")
	assert.Contains(t, sql, "r.completed_at >= date_trunc('day', NOW())")
}
