package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/dto"
)

func TestBoardGroupsByStatus(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	requestRepo.listItems = []dto.RequestDTO{
		{ID: 1, Status: "New"},
		{ID: 2, Status: "In Progress"},
		{ID: 3, Status: "New"},
		{ID: 4, Status: "Scrap"},
	}
	svc := NewProjectionService(requestRepo, zap.NewNop())

	columns, err := svc.Board(context.Background(), testManager)
	require.NoError(t, err)
	require.Len(t, columns, 4)

	assert.Equal(t, "New", columns[0].Status)
	assert.Len(t, columns[0].Requests, 2)
	assert.Equal(t, "In Progress", columns[1].Status)
	assert.Len(t, columns[1].Requests, 1)

	// Пустая колонка присутствует, а не пропадает.
	assert.Equal(t, "Repaired", columns[2].Status)
	assert.Empty(t, columns[2].Requests)

	assert.Equal(t, "Scrap", columns[3].Status)
	assert.Len(t, columns[3].Requests, 1)
}

func TestCalendarEntries(t *testing.T) {
	scheduled := time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC)

	requestRepo := newFakeRequestRepo()
	requestRepo.listItems = []dto.RequestDTO{
		{
			ID: 1, Subject: "Плановое ТО", Status: "New",
			Equipment:   dto.ShortEquipmentDTO{Name: "Компрессор"},
			Team:        &dto.ShortTeamDTO{Name: "Механики"},
			ScheduledAt: null.TimeFrom(scheduled),
		},
		{
			ID: 2, Subject: "Ревизия", Status: "In Progress",
			Equipment:   dto.ShortEquipmentDTO{Name: "Щит"},
			ScheduledAt: null.TimeFrom(scheduled),
			IsOverdue:   true,
		},
	}
	svc := NewProjectionService(requestRepo, zap.NewNop())

	entries, err := svc.Calendar(context.Background(), testManager,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "Плановое ТО", first.Title)
	assert.Equal(t, "2026-08-15", first.Start)
	// Событие занимает один день.
	assert.Equal(t, first.Start, first.End)
	assert.Equal(t, "Механики", first.Team)
	assert.Equal(t, "info", first.Color)

	// Просрочка перекрывает цвет статуса.
	second := entries[1]
	assert.True(t, second.Overdue)
	assert.Equal(t, "danger", second.Color)
}

func TestCalendarColorByStatus(t *testing.T) {
	cases := []struct {
		status  string
		overdue bool
		color   string
	}{
		{"New", false, "info"},
		{"In Progress", false, "warning"},
		{"Repaired", false, "success"},
		{"Scrap", false, "secondary"},
		{"In Progress", true, "danger"},
	}

	for _, tc := range cases {
		got := calendarColor(dto.RequestDTO{Status: tc.status, IsOverdue: tc.overdue})
		assert.Equal(t, tc.color, got, "статус %s, просрочка %v", tc.status, tc.overdue)
	}
}
