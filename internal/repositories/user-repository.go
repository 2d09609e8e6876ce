package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

type UserRepositoryInterface interface {
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) (uint64, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

// Команды пользователя подтягиваются одним запросом: роль и членство
// нужны на каждом запросе, отдельный поход за ними был бы лишним.
const userSelectQuery = `
	SELECT u.id, u.fio, u.email, u.password_hash, u.role,
		COALESCE(array_agg(tm.team_id) FILTER (WHERE tm.team_id IS NOT NULL), '{}') AS team_ids,
		u.created_at, u.updated_at
	FROM users u
	LEFT JOIN team_members tm ON tm.user_id = u.id
	WHERE %s
	GROUP BY u.id`

func (repo *UserRepository) scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Fio, &user.Email, &user.PasswordHash, &user.Role,
		&user.TeamIDs, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
	}
	return &user, nil
}

func (repo *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(userSelectQuery, "u.id = $1")
	return repo.scanUser(repo.storage.QueryRow(ctx, query, id))
}

func (repo *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf(userSelectQuery, "u.email = $1")
	return repo.scanUser(repo.storage.QueryRow(ctx, query, email))
}

func (repo *UserRepository) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	query := `
		INSERT INTO users (fio, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := repo.storage.QueryRow(ctx, query,
		user.Fio, user.Email, user.PasswordHash, user.Role,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return newID, nil
}
