package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simpro/backend/internal/infrastructure/config"
	"github.com/simpro/backend/internal/infrastructure/persistence/models"
)

// Database is the GORM handle shared by every repository
type Database struct {
	DB *gorm.DB
}

// Open connects to the configured store and checks it answers. A nil
// logger keeps GORM silent.
func Open(cfg *config.DatabaseConfig, log gormlogger.Interface) (*Database, error) {
	if log == nil {
		log = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 log,
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver != "sqlite",
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driverName(cfg.Driver), err)
	}

	pool, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" {
		// every statement must see the same :memory: store
		pool.SetMaxOpenConns(1)
	} else {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
		pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
		pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}

	d := &Database{DB: db}
	if err := d.Ping(context.Background()); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return d, nil
}

func driverName(driver string) string {
	if driver == "" {
		return "postgres"
	}
	return driver
}

// AutoMigrate builds the schema from the models. It serves sqlite; postgres
// deployments run the versioned migrations.
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(models.AllModels()...)
}

func (d *Database) Ping(ctx context.Context) error {
	pool, err := d.DB.DB()
	if err != nil {
		return err
	}
	if err := pool.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	pool, err := d.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// ForAccount limits a query to the rows of one back office. Every
// repository read and delete goes through it.
func ForAccount(accountID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("account_id = ?", accountID)
	}
}
