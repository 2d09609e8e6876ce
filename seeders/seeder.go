// Package seeders наполняет базу демо-данными для локальной разработки.
package seeders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Run перезаписывает содержимое всех таблиц демо-данными.
func Run(ctx context.Context, db *pgxpool.Pool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"TRUNCATE TABLE requests, equipments, team_members, teams, users RESTART IDENTITY CASCADE"); err != nil {
		return err
	}

	teamIDs, err := seedTeams(ctx, tx)
	if err != nil {
		return fmt.Errorf("ошибка наполнения команд: %w", err)
	}
	userIDs, err := seedUsers(ctx, tx, teamIDs)
	if err != nil {
		return fmt.Errorf("ошибка наполнения пользователей: %w", err)
	}
	equipmentIDs, err := seedEquipments(ctx, tx, teamIDs, userIDs)
	if err != nil {
		return fmt.Errorf("ошибка наполнения оборудования: %w", err)
	}
	if err := seedRequests(ctx, tx, equipmentIDs, userIDs); err != nil {
		return fmt.Errorf("ошибка наполнения заявок: %w", err)
	}

	return tx.Commit(ctx)
}

func seedTeams(ctx context.Context, tx pgx.Tx) (map[string]uint64, error) {
	log.Println("  - Наполнение таблицы 'teams'...")
	ids := make(map[string]uint64, len(teamsData))
	for _, t := range teamsData {
		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO teams (name) VALUES ($1) RETURNING id`, t.Name,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[t.Name] = id
	}
	return ids, nil
}

func seedUsers(ctx context.Context, tx pgx.Tx, teamIDs map[string]uint64) (map[string]uint64, error) {
	log.Println("  - Наполнение таблицы 'users'...")
	ids := make(map[string]uint64, len(usersData))
	for _, u := range usersData {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		var id uint64
		err = tx.QueryRow(ctx,
			`INSERT INTO users (fio, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`,
			u.Fio, u.Email, string(hash), u.Role,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[u.Email] = id

		for _, teamName := range u.Teams {
			teamID, ok := teamIDs[teamName]
			if !ok {
				log.Printf("ПРЕДУПРЕЖДЕНИЕ: команда '%s' не найдена, пропускаем.", teamName)
				continue
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`, teamID, id); err != nil {
				return nil, err
			}
		}
	}
	return ids, nil
}

func seedEquipments(ctx context.Context, tx pgx.Tx, teamIDs, userIDs map[string]uint64) (map[string]uint64, error) {
	log.Println("  - Наполнение таблицы 'equipments'...")
	ids := make(map[string]uint64, len(equipmentsData))
	for _, e := range equipmentsData {
		var teamID, assignedID *uint64
		if e.TeamName != "" {
			if id, ok := teamIDs[e.TeamName]; ok {
				teamID = &id
			}
		}
		if e.AssignedTo != "" {
			if id, ok := userIDs[e.AssignedTo]; ok {
				assignedID = &id
			}
		}
		var serial *string
		if e.SerialNumber != "" {
			serial = &e.SerialNumber
		}

		var id uint64
		err := tx.QueryRow(ctx, `
			INSERT INTO equipments (name, serial_number, department, location, team_id, assigned_user_id)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			e.Name, serial, e.Department, e.Location, teamID, assignedID,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids[e.Name] = id
	}
	return ids, nil
}

func seedRequests(ctx context.Context, tx pgx.Tx, equipmentIDs, userIDs map[string]uint64) error {
	log.Println("  - Наполнение таблицы 'requests'...")
	for _, r := range requestsData {
		equipmentID, ok := equipmentIDs[r.EquipmentName]
		if !ok {
			log.Printf("ПРЕДУПРЕЖДЕНИЕ: оборудование '%s' не найдено, пропускаем заявку.", r.EquipmentName)
			continue
		}
		createdBy, ok := userIDs[r.CreatedBy]
		if !ok {
			log.Printf("ПРЕДУПРЕЖДЕНИЕ: пользователь '%s' не найден, пропускаем заявку.", r.CreatedBy)
			continue
		}

		var scheduledAt *time.Time
		if r.Kind == "Preventive" {
			t := time.Now().AddDate(0, 0, r.ScheduledDays)
			scheduledAt = &t
		}

		// Команда наследуется от оборудования, как при создании через API.
		_, err := tx.Exec(ctx, `
			INSERT INTO requests (subject, description, equipment_id, team_id, kind, status, scheduled_at, created_by)
			VALUES ($1, $2, $3, (SELECT team_id FROM equipments WHERE id = $3), $4, $5, $6, $7)`,
			r.Subject, r.Description, equipmentID, r.Kind, r.Status, scheduledAt, createdBy,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
