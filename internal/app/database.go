package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/talkincode/catalogadmin/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const memoryDSN = ":memory:"

func getDatabase(cfg config.DBConfig, dataDir string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Type) {
	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
		dialector = postgres.Open(dsn)
	case "sqlite":
		file, err := sqlitePath(cfg.Name, dataDir)
		if err != nil {
			return nil, err
		}
		dialector = sqlite.Open(file)
	default:
		return nil, errors.Errorf("unsupported database type %q", cfg.Type)
	}

	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Type)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get database handle")
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.IdleConn)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if cfg.Name == memoryDSN {
		// each connection to :memory: opens its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// sqlitePath resolves a bare database name to <dataDir>/<name>.db.
func sqlitePath(name, dataDir string) (string, error) {
	if name == memoryDSN || strings.HasPrefix(name, "file:") || filepath.IsAbs(name) {
		return name, nil
	}
	if name == "" {
		name = "catalogadmin"
	}
	if filepath.Ext(name) == "" {
		name += ".db"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create data dir %s", dataDir)
	}
	return filepath.Join(dataDir, name), nil
}
