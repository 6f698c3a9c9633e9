package postgres

import (
	"embed"
	"errors"
	"fmt"

	"todoBoard/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrate(connString string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, connString)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return m, nil
}

// Migrate applies every pending up migration. Running it on an up-to-date
// schema is a no-op.
func Migrate(connString string) error {
	logger.Info("Repository: applying migrations")

	m, err := newMigrate(connString)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: migration failed", err)
		return fmt.Errorf("applying migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Repository: migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func Down(connString string) error {
	logger.Info("Repository: rolling back migrations")

	m, err := newMigrate(connString)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: rollback failed", err)
		return fmt.Errorf("rolling back migrations: %w", err)
	}
	return nil
}
