package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/types"
)

// Верхняя граница выборки для доски: колонки не пагинируются.
const boardLimit = 500

// Цвета событий календаря. Просрочка перекрывает цвет статуса.
const (
	calendarColorInfo    = "info"
	calendarColorWarning = "warning"
	calendarColorSuccess = "success"
	calendarColorMuted   = "secondary"
	calendarColorDanger  = "danger"
)

type ProjectionServiceInterface interface {
	Board(ctx context.Context, actor *entities.User) ([]dto.BoardColumnDTO, error)
	Calendar(ctx context.Context, actor *entities.User, from, to time.Time) ([]dto.CalendarEntryDTO, error)
}

// ProjectionService строит доску и календарь поверх той же области
// видимости, что и список заявок: проекции никогда не показывают больше,
// чем прямой список.
type ProjectionService struct {
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewProjectionService(requestRepo repositories.RequestRepositoryInterface, logger *zap.Logger) *ProjectionService {
	return &ProjectionService{requestRepo: requestRepo, logger: logger}
}

// Board группирует видимые заявки по статусам. Колонки идут в порядке
// жизненного цикла и присутствуют все, даже пустые.
func (s *ProjectionService) Board(ctx context.Context, actor *entities.User) ([]dto.BoardColumnDTO, error) {
	scope := authz.ScopeFor(actor)
	items, _, err := s.requestRepo.ListRequests(ctx, scope.SQLCondition(), types.Filter{Limit: boardLimit})
	if err != nil {
		return nil, err
	}

	columns := make([]dto.BoardColumnDTO, 0, len(entities.AllStatuses))
	buckets := make(map[string][]dto.RequestDTO, len(entities.AllStatuses))
	for _, item := range items {
		buckets[item.Status] = append(buckets[item.Status], item)
	}
	for _, status := range entities.AllStatuses {
		requests := buckets[string(status)]
		if requests == nil {
			requests = make([]dto.RequestDTO, 0)
		}
		columns = append(columns, dto.BoardColumnDTO{
			Status:   string(status),
			Requests: requests,
		})
	}
	return columns, nil
}

// Calendar отдаёт плановые заявки с назначенной датой в диапазоне.
// Каждая заявка — событие в день scheduled_at; просроченные подсвечиваются
// независимо от статуса.
func (s *ProjectionService) Calendar(ctx context.Context, actor *entities.User, from, to time.Time) ([]dto.CalendarEntryDTO, error) {
	scope := authz.ScopeFor(actor)
	items, err := s.requestRepo.ListCalendar(ctx, scope.SQLCondition(), from, to)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.CalendarEntryDTO, 0, len(items))
	for _, item := range items {
		entry := dto.CalendarEntryDTO{
			ID:        item.ID,
			Title:     item.Subject,
			Status:    item.Status,
			Equipment: item.Equipment.Name,
			Overdue:   item.IsOverdue,
			Color:     calendarColor(item),
		}
		if item.ScheduledAt.Valid {
			day := item.ScheduledAt.Time.Format("2006-01-02")
			entry.Start = day
			entry.End = day
		}
		if item.Team != nil {
			entry.Team = item.Team.Name
		}
		if item.Technician != nil {
			entry.Technician = item.Technician.Fio
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func calendarColor(item dto.RequestDTO) string {
	if item.IsOverdue {
		return calendarColorDanger
	}
	switch entities.RequestStatus(item.Status) {
	case entities.StatusInProgress:
		return calendarColorWarning
	case entities.StatusRepaired:
		return calendarColorSuccess
	case entities.StatusScrap:
		return calendarColorMuted
	default:
		return calendarColorInfo
	}
}
