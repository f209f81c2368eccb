package baseline

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

func configureGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// Migrate runs all pending migrations.
func (s *Store) Migrate() error {
	if err := configureGoose(); err != nil {
		return err
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Version returns the current migration version.
func (s *Store) Version() (int64, error) {
	if err := configureGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(s.db)
}
