package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/types"
)

const reportSheetName = "Заявки"

type ReportServiceInterface interface {
	RequestsReport(ctx context.Context, actor *entities.User, filter types.Filter) ([]byte, error)
}

// ReportService выгружает заявки в xlsx. В отчёт попадают только заявки
// из области видимости актора, с теми же фильтрами, что и в списке.
type ReportService struct {
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(requestRepo repositories.RequestRepositoryInterface, logger *zap.Logger) *ReportService {
	return &ReportService{requestRepo: requestRepo, logger: logger}
}

func (s *ReportService) RequestsReport(ctx context.Context, actor *entities.User, filter types.Filter) ([]byte, error) {
	scope := authz.ScopeFor(actor)
	filter.Limit = 500
	filter.Offset = 0

	items, _, err := s.requestRepo.ListRequests(ctx, scope.SQLCondition(), filter)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn("не удалось закрыть файл отчёта", zap.Error(err))
		}
	}()

	sheetIndex, err := file.NewSheet(reportSheetName)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания листа отчёта: %w", err)
	}
	file.SetActiveSheet(sheetIndex)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("ошибка удаления листа по умолчанию: %w", err)
	}

	header := []interface{}{
		"ID", "Тема", "Оборудование", "Команда", "Техник",
		"Вид", "Статус", "Назначено", "Завершено", "Часы", "Просрочена", "Создана",
	}
	if err := file.SetSheetRow(reportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("ошибка записи заголовка отчёта: %w", err)
	}

	for i, item := range items {
		team, technician := "", ""
		if item.Team != nil {
			team = item.Team.Name
		}
		if item.Technician != nil {
			technician = item.Technician.Fio
		}
		scheduledAt, completedAt := "", ""
		if item.ScheduledAt.Valid {
			scheduledAt = item.ScheduledAt.Time.Format("2006-01-02")
		}
		if item.CompletedAt.Valid {
			completedAt = item.CompletedAt.Time.Format("2006-01-02 15:04")
		}
		hours := ""
		if item.DurationHours.Valid {
			hours = fmt.Sprintf("%.1f", item.DurationHours.Float64)
		}
		overdue := "нет"
		if item.IsOverdue {
			overdue = "да"
		}

		row := []interface{}{
			item.ID, item.Subject, item.Equipment.Name, team, technician,
			item.Kind, item.Status, scheduledAt, completedAt, hours, overdue, item.CreatedAt,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := file.SetSheetRow(reportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("ошибка записи строки отчёта: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("ошибка сериализации отчёта: %w", err)
	}
	return buf.Bytes(), nil
}
