package main

import (
	"database/sql"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskmaster/config"
	"github.com/oksasatya/taskmaster/pkg/helpers"
)

// seeds a demo account matching the password rules of the register view
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		helpers.LogError(logger, "failed to open db", err, nil)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	username := "demoUser"
	email := "demo@taskmaster.dev"
	password := "Demo1234"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		helpers.LogError(logger, "failed to hash password", err, nil)
		os.Exit(1)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = now()
		RETURNING id
	`, username, email, hash).Scan(&id)
	if err != nil {
		helpers.LogError(logger, "failed to seed user", err, logrus.Fields{"email": email})
		os.Exit(1)
	}
	helpers.LogInfo(logger, "seeded user", logrus.Fields{"id": id, "username": username, "email": email, "password": password})
}
