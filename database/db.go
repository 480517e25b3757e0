// Package database opens the gorm connection shared by the services and
// migrates the users and predictions tables.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/resalelab/carprice/config"
	"github.com/resalelab/carprice/database/model"
	"github.com/resalelab/carprice/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	dbType config.DatabaseType
)

func initModels() error {
	models := []any{
		&model.User{},
		&model.Prediction{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logger.Errorf("auto migrating %T: %v", m, err)
			return err
		}
	}
	return nil
}

// InitDB opens the configured database and migrates the schema.
func InitDB(cfg *config.DatabaseConfig) error {
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectoryExists(); err != nil {
		return err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case config.DatabaseTypePostgreSQL:
		dialector = postgres.Open(cfg.GetDSN())
	default:
		dialector = sqlite.Open(cfg.GetDSN())
	}

	conn, err := gorm.Open(dialector, c)
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.Type, err)
	}
	db = conn
	dbType = cfg.Type

	if cfg.IsSQLite() {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		// sqlite allows a single writer; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		if _, err = sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			return err
		}
	}

	return initModels()
}

func CloseDB() error {
	if db == nil {
		return nil
	}
	if err := Checkpoint(); err != nil {
		logger.Warning("error executing checkpoint: ", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	err = sqlDB.Close()
	db = nil
	return err
}

// Ping checks that the database answers.
func Ping(ctx context.Context) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Checkpoint flushes the sqlite WAL into the main file. It is a no-op on
// PostgreSQL.
func Checkpoint() error {
	if db == nil || dbType != config.DatabaseTypeSQLite {
		return nil
	}
	return db.Exec("PRAGMA wal_checkpoint(TRUNCATE);").Error
}
