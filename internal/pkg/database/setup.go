package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PromptManager/app/models"
	"github.com/ManuelReschke/PromptManager/internal/pkg/config"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// SetupDatabase connects with retries and migrates the schema. It panics when
// the database stays unreachable.
func SetupDatabase(cfg config.Database, log *zap.Logger) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(Dialector(cfg), &gorm.Config{TranslateError: true})
		if err == nil {
			if err = Migrate(db); err != nil {
				panic(err)
			}
			return db
		}

		log.Warn("failed to connect to database",
			zap.String("driver", cfg.Driver),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err),
		)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	panic(err)
}

// Dialector returns the gorm dialector for the configured driver.
func Dialector(cfg config.Database) gorm.Dialector {
	if cfg.Driver == config.DriverPostgres {
		return postgres.Open(DSN(cfg))
	}
	return mysql.New(mysql.Config{
		DSN:                       DSN(cfg),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	})
}

// DSN builds the driver specific data source name.
func DSN(cfg config.Database) string {
	if cfg.Driver == config.DriverPostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// MigrationURL is the golang-migrate database URL for the configured driver.
func MigrationURL(cfg config.Database) string {
	if cfg.Driver == config.DriverPostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	}
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// Migrate creates or updates the tables owned by this application.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Customer{},
		&models.BillingWebhookEvent{},
	)
}
