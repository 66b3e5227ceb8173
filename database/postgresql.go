package database

import (
	"context"
	"time"

	"GlobalDent/config"
	"GlobalDent/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormConfig is shared by the server and the test harness so both translate
// driver errors into gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func GormConfig(logMode logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: false,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logMode),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// InitDB initializes the database connection, migrates the schema and seeds roles.
func InitDB(ctx context.Context, cfg *config.AppConfig) (*gorm.DB, error) {
	logMode := logger.Silent
	if cfg.IsDev() {
		logMode = logger.Info
	}

	gormCfg := GormConfig(logMode)
	gormCfg.PrepareStmt = true

	db, err := gorm.Open(postgres.Open(cfg.DBURL), gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := configureConnectionPool(db, cfg); err != nil {
		return nil, err
	}

	if err := testDatabaseConnection(ctx, db); err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := models.SeedRoles(db); err != nil {
		return nil, errors.Wrap(err, "failed to seed roles")
	}

	log.Info().Msg("Database initialized successfully")
	return db, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool(db *gorm.DB, cfg *config.AppConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpen)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdle)
	sqlDB.SetConnMaxLifetime(cfg.DBLifetime)
	return nil
}

// testDatabaseConnection verifies that the database connection is functional.
func testDatabaseConnection(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// Migrate performs database schema migrations.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Patient{},
		&models.ClinicalHistory{},
		&models.Tooth{},
		&models.Procedure{},
		&models.Consultation{},
		&models.ToothProcedure{},
		&models.Payment{},
		&models.Appointment{},
	)
	return errors.Wrap(err, "failed to run migrations")
}
