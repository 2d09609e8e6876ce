package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

type TeamRepositoryInterface interface {
	CreateTeam(ctx context.Context, team *entities.Team) (uint64, error)
	UpdateTeam(ctx context.Context, team *entities.Team) error
	DeleteTeam(ctx context.Context, id uint64) error
	FindTeamByID(ctx context.Context, id uint64) (*entities.Team, error)
	FindTeamDTO(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	ListTeams(ctx context.Context) ([]dto.TeamDTO, error)
}

type TeamRepository struct {
	storage   *pgxpool.Pool
	txManager TxManagerInterface
}

func NewTeamRepository(storage *pgxpool.Pool, txManager TxManagerInterface) TeamRepositoryInterface {
	return &TeamRepository{storage: storage, txManager: txManager}
}

func (repo *TeamRepository) CreateTeam(ctx context.Context, team *entities.Team) (uint64, error) {
	var newID uint64
	err := repo.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO teams (name, created_at, updated_at) VALUES ($1, NOW(), NOW()) RETURNING id`,
			team.Name,
		).Scan(&newID)
		if err != nil {
			return fmt.Errorf("ошибка создания команды: %w", err)
		}
		return repo.replaceMembersInTx(ctx, tx, newID, team.Members)
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}

func (repo *TeamRepository) UpdateTeam(ctx context.Context, team *entities.Team) error {
	return repo.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE teams SET name = $2, updated_at = NOW() WHERE id = $1`,
			team.ID, team.Name,
		)
		if err != nil {
			return fmt.Errorf("ошибка обновления команды: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return repo.replaceMembersInTx(ctx, tx, team.ID, team.Members)
	})
}

func (repo *TeamRepository) replaceMembersInTx(ctx context.Context, tx pgx.Tx, teamID uint64, members []uint64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("ошибка очистки состава команды: %w", err)
	}
	for _, userID := range members {
		_, err := tx.Exec(ctx,
			`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`,
			teamID, userID,
		)
		if err != nil {
			return fmt.Errorf("ошибка добавления участника команды: %w", err)
		}
	}
	return nil
}

// DeleteTeam отказывает, пока на команду ссылается оборудование или заявки:
// история работ не должна терять исполнителя.
func (repo *TeamRepository) DeleteTeam(ctx context.Context, id uint64) error {
	return repo.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var refs int64
		err := tx.QueryRow(ctx, `
			SELECT (SELECT COUNT(*) FROM equipments WHERE team_id = $1)
				 + (SELECT COUNT(*) FROM requests WHERE team_id = $1)`,
			id,
		).Scan(&refs)
		if err != nil {
			return fmt.Errorf("ошибка проверки ссылок на команду: %w", err)
		}
		if refs > 0 {
			return apperrors.ErrTeamInUse
		}

		if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, id); err != nil {
			return fmt.Errorf("ошибка очистки состава команды: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("ошибка удаления команды: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

func (repo *TeamRepository) FindTeamByID(ctx context.Context, id uint64) (*entities.Team, error) {
	query := `
		SELECT t.id, t.name,
			COALESCE(array_agg(tm.user_id) FILTER (WHERE tm.user_id IS NOT NULL), '{}') AS members,
			t.created_at, t.updated_at
		FROM teams t
		LEFT JOIN team_members tm ON tm.team_id = t.id
		WHERE t.id = $1
		GROUP BY t.id`

	var team entities.Team
	err := repo.storage.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.Members, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования команды: %w", err)
	}
	return &team, nil
}

func (repo *TeamRepository) FindTeamDTO(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	items, err := repo.listTeamDTOs(ctx, "WHERE t.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &items[0], nil
}

func (repo *TeamRepository) ListTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	return repo.listTeamDTOs(ctx, "")
}

func (repo *TeamRepository) listTeamDTOs(ctx context.Context, where string, args ...any) ([]dto.TeamDTO, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.name, t.created_at
		FROM teams t
		%s
		ORDER BY t.name ASC`, where)

	rows, err := repo.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка команд: %w", err)
	}
	defer rows.Close()

	items := make([]dto.TeamDTO, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var item dto.TeamDTO
		var createdAt time.Time
		if err := rows.Scan(&item.ID, &item.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования команды: %w", err)
		}
		item.CreatedAt = createdAt.Local().Format("2006-01-02 15:04:05")
		item.Members = make([]dto.ShortUserDTO, 0)
		index[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	memberRows, err := repo.storage.Query(ctx, `
		SELECT tm.team_id, u.id, u.fio
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		ORDER BY u.fio ASC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения участников команд: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var teamID uint64
		var member dto.ShortUserDTO
		if err := memberRows.Scan(&teamID, &member.ID, &member.Fio); err != nil {
			return nil, fmt.Errorf("ошибка сканирования участника команды: %w", err)
		}
		if i, ok := index[teamID]; ok {
			items[i].Members = append(items[i].Members, member)
		}
	}
	return items, memberRows.Err()
}
