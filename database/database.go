// File: /database/database.go
package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"friendgraph-api/models"
)

// Initialize opens the database for the configured driver ("mysql" or
// "postgres"), retrying while the server comes up.
func Initialize(driver, databaseURL string, debug bool, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := openWithRetry(dialector, &gorm.Config{
		Logger:                                   newGormLogger(log, debug),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}, 6, time.Second, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// newGormLogger sends gorm's statement and slow-query output through the
// service's zap logger under the "gorm" name.
func newGormLogger(log *zap.Logger, debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func dialectorFor(driver, databaseURL string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(databaseURL), nil
	case "postgres", "postgresql":
		return postgres.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func openWithRetry(dialector gorm.Dialector, cfg *gorm.Config, attempts int, wait time.Duration, log *zap.Logger) (*gorm.DB, error) {
	var last error
	for i := 1; i <= attempts; i++ {
		db, err := gorm.Open(dialector, cfg)
		if err == nil {
			if last = ping(db); last == nil {
				return db, nil
			}
		} else {
			last = err
		}

		log.Warn("database not ready", zap.Int("attempt", i), zap.Error(last))
		if i < attempts {
			time.Sleep(wait)
			if wait < 8*time.Second {
				wait *= 2
			}
		}
	}
	return nil, last
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Friendship{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	addCustomIndexes(db, log)
	addDatabaseConstraints(db, log)

	return nil
}

func addCustomIndexes(db *gorm.DB, log *zap.Logger) {
	// Friend list pages are read newest first per participant.
	statements := map[string]string{
		"idx_friendships_user_status_created":   "CREATE INDEX idx_friendships_user_status_created ON friendships(user_id, status, created_at)",
		"idx_friendships_friend_status_created": "CREATE INDEX idx_friendships_friend_status_created ON friendships(friend_user_id, status, created_at)",
	}

	for name, statement := range statements {
		if db.Migrator().HasIndex(&models.Friendship{}, name) {
			continue
		}
		if err := db.Exec(statement).Error; err != nil {
			log.Warn("could not create index", zap.String("index", name), zap.Error(err))
		}
	}
}

func addDatabaseConstraints(db *gorm.DB, log *zap.Logger) {
	// SQLite cannot add constraints to an existing table.
	if db.Dialector.Name() == "sqlite" {
		return
	}
	if db.Migrator().HasConstraint(&models.Friendship{}, "ck_friendships_no_self") {
		return
	}

	// Prevent self-friendship
	if err := db.Exec("ALTER TABLE friendships ADD CONSTRAINT ck_friendships_no_self CHECK (user_id <> friend_user_id)").Error; err != nil {
		log.Warn("could not add check constraint for friendships", zap.Error(err))
	}
}
