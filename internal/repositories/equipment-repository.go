package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

type EquipmentRepositoryInterface interface {
	CreateEquipment(ctx context.Context, eq *entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, eq *entities.Equipment) error
	FindEquipmentByID(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	MarkScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	FindEquipmentDTO(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	ListEquipment(ctx context.Context) ([]dto.EquipmentDTO, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

const equipmentEntityColumns = `id, name, serial_number, department, location,
	team_id, assigned_user_id, is_scrapped, created_at, updated_at`

func (repo *EquipmentRepository) findEquipment(ctx context.Context, q querier, where string, args ...any) (*entities.Equipment, error) {
	query := fmt.Sprintf(`SELECT %s FROM equipments WHERE %s`, equipmentEntityColumns, where)

	var eq entities.Equipment
	err := q.QueryRow(ctx, query, args...).Scan(
		&eq.ID, &eq.Name, &eq.SerialNumber, &eq.Department, &eq.Location,
		&eq.TeamID, &eq.AssignedUserID, &eq.IsScrapped, &eq.CreatedAt, &eq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования оборудования: %w", err)
	}
	return &eq, nil
}

func (repo *EquipmentRepository) CreateEquipment(ctx context.Context, eq *entities.Equipment) (uint64, error) {
	query := `
		INSERT INTO equipments (name, serial_number, department, location,
			team_id, assigned_user_id, is_scrapped, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := repo.storage.QueryRow(ctx, query,
		eq.Name, eq.SerialNumber, eq.Department, eq.Location,
		eq.TeamID, eq.AssignedUserID, eq.IsScrapped,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания оборудования: %w", err)
	}
	return newID, nil
}

func (repo *EquipmentRepository) UpdateEquipment(ctx context.Context, eq *entities.Equipment) error {
	query := `
		UPDATE equipments
		SET name = $2, serial_number = $3, department = $4, location = $5,
			team_id = $6, assigned_user_id = $7, is_scrapped = $8, updated_at = NOW()
		WHERE id = $1`

	tag, err := repo.storage.Exec(ctx, query,
		eq.ID, eq.Name, eq.SerialNumber, eq.Department, eq.Location,
		eq.TeamID, eq.AssignedUserID, eq.IsScrapped,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления оборудования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (repo *EquipmentRepository) FindEquipmentByID(ctx context.Context, id uint64) (*entities.Equipment, error) {
	return repo.findEquipment(ctx, repo.storage, "id = $1", id)
}

// FindEquipmentForUpdateInTx блокирует строку оборудования: проверка
// «не списано» и последующая запись заявки видят одно состояние.
func (repo *EquipmentRepository) FindEquipmentForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return repo.findEquipment(ctx, tx, "id = $1 FOR UPDATE", id)
}

// MarkScrappedInTx идемпотентен: повторное списание уже списанного
// оборудования ничего не меняет и не считается ошибкой.
func (repo *EquipmentRepository) MarkScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE equipments SET is_scrapped = TRUE, updated_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("ошибка списания оборудования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const equipmentDTOQuery = `
	SELECT e.id, e.name, e.serial_number, e.department, e.location,
		t.id, t.name, u.id, u.fio, e.is_scrapped, e.created_at
	FROM equipments e
	LEFT JOIN teams t ON e.team_id = t.id
	LEFT JOIN users u ON e.assigned_user_id = u.id`

func scanEquipmentDTO(row pgx.Row) (*dto.EquipmentDTO, error) {
	var (
		item             dto.EquipmentDTO
		serialNumber     *string
		teamID, userID   *uint64
		teamName, userFio *string
		createdAt        time.Time
	)

	err := row.Scan(
		&item.ID, &item.Name, &serialNumber, &item.Department, &item.Location,
		&teamID, &teamName, &userID, &userFio, &item.IsScrapped, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования оборудования: %w", err)
	}

	if serialNumber != nil {
		item.SerialNumber = null.StringFrom(*serialNumber)
	}
	if teamID != nil {
		item.Team = &dto.ShortTeamDTO{ID: *teamID, Name: *teamName}
	}
	if userID != nil {
		item.AssignedUser = &dto.ShortUserDTO{ID: *userID, Fio: *userFio}
	}
	item.CreatedAt = createdAt.Local().Format("2006-01-02 15:04:05")
	return &item, nil
}

func (repo *EquipmentRepository) FindEquipmentDTO(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	return scanEquipmentDTO(repo.storage.QueryRow(ctx, equipmentDTOQuery+` WHERE e.id = $1`, id))
}

func (repo *EquipmentRepository) ListEquipment(ctx context.Context) ([]dto.EquipmentDTO, error) {
	rows, err := repo.storage.Query(ctx, equipmentDTOQuery+` ORDER BY e.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка оборудования: %w", err)
	}
	defer rows.Close()

	items := make([]dto.EquipmentDTO, 0)
	for rows.Next() {
		item, err := scanEquipmentDTO(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
