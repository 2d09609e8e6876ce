package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

type RequestRepositoryInterface interface {
	CreateRequestInTx(ctx context.Context, tx pgx.Tx, r *entities.Request) (uint64, error)
	FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error)
	UpdateRequestInTx(ctx context.Context, tx pgx.Tx, r *entities.Request) error
	FindRequest(ctx context.Context, id uint64) (*entities.Request, error)
	FindRequestDTO(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	ListRequests(ctx context.Context, scope sq.Sqlizer, filter types.Filter) ([]dto.RequestDTO, uint64, error)
	ListCalendar(ctx context.Context, scope sq.Sqlizer, from, to time.Time) ([]dto.RequestDTO, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
}

func NewRequestRepository(storage *pgxpool.Pool) RequestRepositoryInterface {
	return &RequestRepository{storage: storage}
}

const requestEntityColumns = `id, subject, description, equipment_id, team_id, kind, status,
	technician_id, scheduled_at, duration_hours, completed_at, created_by, created_at, updated_at`

func scanRequestEntity(row pgx.Row) (*entities.Request, error) {
	var r entities.Request
	err := row.Scan(
		&r.ID, &r.Subject, &r.Description, &r.EquipmentID, &r.TeamID, &r.Kind, &r.Status,
		&r.TechnicianID, &r.ScheduledAt, &r.DurationHrs, &r.CompletedAt, &r.CreatedByID,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}
	return &r, nil
}

func (repo *RequestRepository) CreateRequestInTx(ctx context.Context, tx pgx.Tx, r *entities.Request) (uint64, error) {
	query := `
		INSERT INTO requests (subject, description, equipment_id, team_id, kind, status,
			technician_id, scheduled_at, duration_hours, completed_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := tx.QueryRow(ctx, query,
		r.Subject, r.Description, r.EquipmentID, r.TeamID, r.Kind, r.Status,
		r.TechnicianID, r.ScheduledAt, r.DurationHrs, r.CompletedAt, r.CreatedByID,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return newID, nil
}

// FindRequestForUpdateInTx читает заявку с блокировкой строки: два
// одновременных перехода по одной заявке сериализуются, проверка
// легальности всегда идёт по свежему состоянию.
func (repo *RequestRepository) FindRequestForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1 FOR UPDATE`, requestEntityColumns)
	return scanRequestEntity(tx.QueryRow(ctx, query, id))
}

func (repo *RequestRepository) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, r *entities.Request) error {
	query := `
		UPDATE requests
		SET subject = $2, description = $3, team_id = $4, status = $5, technician_id = $6,
			scheduled_at = $7, duration_hours = $8, completed_at = $9, updated_at = NOW()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		r.ID, r.Subject, r.Description, r.TeamID, r.Status, r.TechnicianID,
		r.ScheduledAt, r.DurationHrs, r.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления заявки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (repo *RequestRepository) FindRequest(ctx context.Context, id uint64) (*entities.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1`, requestEntityColumns)
	return scanRequestEntity(repo.storage.QueryRow(ctx, query, id))
}

// requestDTOBuilder — общая заготовка выборки заявки с денормализованными
// полями. Просрочка вычисляется прямо в выборке и нигде не хранится.
func requestDTOBuilder() sq.SelectBuilder {
	return sq.Select(
		"r.id", "r.subject", "r.description", "r.kind", "r.status",
		"r.scheduled_at", "r.completed_at", "r.duration_hours",
		"r.created_at", "r.updated_at",
		"e.id", "e.name", "e.is_scrapped",
		"t.id", "t.name",
		"tech.id", "tech.fio",
		"creator.id", "creator.fio",
		"(r.kind = 'Preventive' AND r.scheduled_at < NOW() AND r.status != 'Repaired') AS is_overdue",
	).
		From("requests r").
		Join("equipments e ON r.equipment_id = e.id").
		LeftJoin("teams t ON r.team_id = t.id").
		LeftJoin("users tech ON r.technician_id = tech.id").
		Join("users creator ON r.created_by = creator.id").
		PlaceholderFormat(sq.Dollar)
}

func scanRequestDTO(rows pgx.Row) (*dto.RequestDTO, error) {
	var (
		item                             dto.RequestDTO
		scheduledAt, completedAt         *time.Time
		durationHours                    *float64
		createdAt, updatedAt             time.Time
		teamID, techID                   *uint64
		teamName, techFio                *string
	)

	err := rows.Scan(
		&item.ID, &item.Subject, &item.Description, &item.Kind, &item.Status,
		&scheduledAt, &completedAt, &durationHours,
		&createdAt, &updatedAt,
		&item.Equipment.ID, &item.Equipment.Name, &item.Equipment.IsScrapped,
		&teamID, &teamName,
		&techID, &techFio,
		&item.CreatedBy.ID, &item.CreatedBy.Fio,
		&item.IsOverdue,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
	}

	if scheduledAt != nil {
		item.ScheduledAt = null.TimeFrom(*scheduledAt)
	}
	if completedAt != nil {
		item.CompletedAt = null.TimeFrom(*completedAt)
	}
	if durationHours != nil {
		item.DurationHours = null.Float64From(*durationHours)
	}
	if teamID != nil {
		item.Team = &dto.ShortTeamDTO{ID: *teamID, Name: *teamName}
	}
	if techID != nil {
		item.Technician = &dto.ShortUserDTO{ID: *techID, Fio: *techFio}
	}
	item.CreatedAt = createdAt.Local().Format("2006-01-02 15:04:05")
	item.UpdatedAt = updatedAt.Local().Format("2006-01-02 15:04:05")

	return &item, nil
}

func (repo *RequestRepository) FindRequestDTO(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	query, args, err := requestDTOBuilder().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequestDTO(repo.storage.QueryRow(ctx, query, args...))
}

// ListRequests возвращает заявки в области видимости вызывающего.
// scope == nil означает глобальную область (Manager).
func (repo *RequestRepository) ListRequests(ctx context.Context, scope sq.Sqlizer, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	applyConditions := func(b sq.SelectBuilder) sq.SelectBuilder {
		if scope != nil {
			b = b.Where(scope)
		}
		if v, ok := filter.Filter["status"]; ok {
			b = b.Where(sq.Eq{"r.status": v})
		}
		if v, ok := filter.Filter["kind"]; ok {
			b = b.Where(sq.Eq{"r.kind": v})
		}
		if v, ok := filter.Filter["equipment_id"]; ok {
			b = b.Where(sq.Eq{"r.equipment_id": v})
		}
		if v, ok := filter.Filter["team_id"]; ok {
			b = b.Where(sq.Eq{"r.team_id": v})
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"r.subject": pattern},
				sq.ILike{"r.description": pattern},
			})
		}
		return b
	}

	countBuilder := applyConditions(
		sq.Select("COUNT(*)").From("requests r").PlaceholderFormat(sq.Dollar),
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := repo.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта заявок: %w", err)
	}

	listBuilder := applyConditions(requestDTOBuilder()).
		OrderBy("r.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := repo.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	items := make([]dto.RequestDTO, 0)
	for rows.Next() {
		item, err := scanRequestDTO(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

// ListCalendar — плановые заявки с назначенной датой в диапазоне,
// в той же области видимости, что и остальные проекции.
func (repo *RequestRepository) ListCalendar(ctx context.Context, scope sq.Sqlizer, from, to time.Time) ([]dto.RequestDTO, error) {
	b := requestDTOBuilder().
		Where(sq.Eq{"r.kind": string(entities.KindPreventive)}).
		Where(sq.NotEq{"r.scheduled_at": nil}).
		Where(sq.GtOrEq{"r.scheduled_at": from}).
		Where(sq.LtOrEq{"r.scheduled_at": to}).
		OrderBy("r.scheduled_at ASC")
	if scope != nil {
		b = b.Where(scope)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := repo.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения календаря: %w", err)
	}
	defer rows.Close()

	items := make([]dto.RequestDTO, 0)
	for rows.Next() {
		item, err := scanRequestDTO(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
