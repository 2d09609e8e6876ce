// Наполнение базы демо-данными: go run ./seeders/cmd/seed
package main

import (
	"context"
	"log"

	"gearguard/pkg/config"
	"gearguard/pkg/database/postgresql"
	"gearguard/seeders"
)

func main() {
	cfg := config.New()

	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	log.Println("Запуск наполнения базы демо-данными...")
	if err := seeders.Run(context.Background(), db); err != nil {
		log.Fatalf("наполнение завершилось с ошибкой: %v", err)
	}
	log.Println("Готово.")
}
