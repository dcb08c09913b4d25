package postgres

import (
	"embed"
	stderrors "errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5 database driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies all pending schema migrations from the embedded migration
// files.  Already-applied migrations are skipped; a dirty database state is
// reported as an error rather than repaired automatically.
func Migrate(cfg config.DatabaseConfig, log logging.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load embedded migrations")
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateDSN(cfg))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to initialise migrator")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warn("migration source close failed", logging.Err(srcErr))
		}
		if dbErr != nil {
			log.Warn("migration db close failed", logging.Err(dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema up to date")
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migration failed")
	}

	version, dirty, _ := m.Version()
	log.Info("database migrated",
		logging.Int("version", int(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// migrateDSN rewrites the pool DSN with the pgx5 scheme golang-migrate
// expects.
func migrateDSN(cfg config.DatabaseConfig) string {
	return "pgx5" + BuildDSN(cfg)[len("postgres"):]
}
