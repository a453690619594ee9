package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/types"
	"github.com/decisionlab/simulator-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPostgresService connects to Postgres using DATABASE_URL, falling
// back to the discrete POSTGRES_* variables when it is unset.
func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	dsn := utils.GetEnv("DATABASE_URL", "", log)
	if dsn == "" {
		postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
		postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
		postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		postgresName := utils.GetEnv("POSTGRES_NAME", "simulator", log)
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)
	}

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

// AutoMigrateAll idempotently creates every table, index and foreign
// key the normalizer writes to. Safe to run on each start; it never
// drops existing data.
func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// AutoMigrateAll runs schema creation on an arbitrary GORM handle.
// Parents are migrated before children so foreign keys resolve.
func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		// Reference entities
		&types.User{},
		&types.Version{},
		&types.Mechanic{},
		&types.Stakeholder{},

		// Root
		&types.Session{},

		// Derived rows
		&types.ExplicitDecision{},
		&types.ExpectedAction{},
		&types.CanonicalAction{},
		&types.MechanicEvent{},
		&types.Comparison{},
		&types.ProcessLog{},
		&types.PlayerAction{},
		&types.SessionState{},
		&types.SessionStakeholder{},

		// Written out-of-band only
		&types.Report{},
	)
}
