package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/dto"
)

type DashboardRepositoryInterface interface {
	RequestCounts(ctx context.Context, scope sq.Sqlizer) (total, open, overdue, completedToday int64, err error)
	EquipmentCounts(ctx context.Context, scope sq.Sqlizer) (total, scrapped int64, err error)
	CountByStatus(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error)
	CountByKind(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
}

func NewDashboardRepository(storage *pgxpool.Pool) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage}
}

func requestCountsBuilder(scope sq.Sqlizer) sq.SelectBuilder {
	b := sq.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE r.status NOT IN ('Repaired', 'Scrap'))",
		"COUNT(*) FILTER (WHERE r.kind = 'Preventive' AND r.scheduled_at < NOW() AND r.status != 'Repaired')",
		"COUNT(*) FILTER (WHERE r.completed_at >= date_trunc('day', NOW()))",
	).
		From("requests r").
		PlaceholderFormat(sq.Dollar)
	if scope != nil {
		b = b.Where(scope)
	}
	return b
}

// equipmentCountsBuilder: в «всего» входит только действующее оборудование,
// списанное считается отдельной колонкой.
func equipmentCountsBuilder(scope sq.Sqlizer) sq.SelectBuilder {
	b := sq.Select(
		"COUNT(*) FILTER (WHERE NOT e.is_scrapped)",
		"COUNT(*) FILTER (WHERE e.is_scrapped)",
	).
		From("equipments e").
		PlaceholderFormat(sq.Dollar)
	if scope != nil {
		b = b.Where(scope)
	}
	return b
}

// RequestCounts собирает сводку одной выборкой: FILTER-агрегаты дешевле
// четырёх отдельных запросов и гарантированно согласованы между собой.
func (repo *DashboardRepository) RequestCounts(ctx context.Context, scope sq.Sqlizer) (int64, int64, int64, int64, error) {
	query, args, err := requestCountsBuilder(scope).ToSql()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	var total, open, overdue, completedToday int64
	err = repo.storage.QueryRow(ctx, query, args...).Scan(&total, &open, &overdue, &completedToday)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("ошибка сводки по заявкам: %w", err)
	}
	return total, open, overdue, completedToday, nil
}

func (repo *DashboardRepository) EquipmentCounts(ctx context.Context, scope sq.Sqlizer) (int64, int64, error) {
	query, args, err := equipmentCountsBuilder(scope).ToSql()
	if err != nil {
		return 0, 0, err
	}

	var total, scrapped int64
	err = repo.storage.QueryRow(ctx, query, args...).Scan(&total, &scrapped)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка сводки по оборудованию: %w", err)
	}
	return total, scrapped, nil
}

func (repo *DashboardRepository) CountByStatus(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error) {
	return repo.countByColumn(ctx, scope, "r.status")
}

func (repo *DashboardRepository) CountByKind(ctx context.Context, scope sq.Sqlizer) ([]dto.DashboardCountByGroup, error) {
	return repo.countByColumn(ctx, scope, "r.kind")
}

func (repo *DashboardRepository) countByColumn(ctx context.Context, scope sq.Sqlizer, column string) ([]dto.DashboardCountByGroup, error) {
	b := sq.Select(column+" AS group_name", "COUNT(*) AS count").
		From("requests r").
		GroupBy(column).
		OrderBy("count DESC").
		PlaceholderFormat(sq.Dollar)
	if scope != nil {
		b = b.Where(scope)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := repo.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка группировки заявок: %w", err)
	}
	defer rows.Close()

	items := make([]dto.DashboardCountByGroup, 0)
	for rows.Next() {
		var item dto.DashboardCountByGroup
		if err := rows.Scan(&item.GroupName, &item.Count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования группировки: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
