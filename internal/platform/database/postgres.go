package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"

	"github.com/rideshare-market/backend/internal/platform/config"
)

//go:embed migrations
var migrationsFS embed.FS

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = DB.Ping(); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

// Migrate brings the named service's schema up to date. Run once at process
// start; safe to call again.
func Migrate(ctx context.Context, db *sql.DB, service string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations/"+service); err != nil {
		return fmt.Errorf("migrating %s schema: %w", service, err)
	}
	return nil
}

// Reset tears the named service's schema down to nothing and rebuilds it.
// Backing store for the maintenance reset operation; idempotent.
func Reset(ctx context.Context, db *sql.DB, service string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	dir := "migrations/" + service
	if err := goose.DownToContext(ctx, db, dir, 0); err != nil {
		return fmt.Errorf("tearing down %s schema: %w", service, err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("rebuilding %s schema: %w", service, err)
	}
	return nil
}
