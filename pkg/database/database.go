package database

import (
	"fmt"
	"great_awareness_backend/internal/config"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Content{},
		&model.ContentLike{},
		&model.Comment{},
		&model.Question{},
		&model.QuestionComment{},
		&model.QuestionLike{},
		&model.QuestionSave{},
		&model.Notification{},
		&model.Milestone{},
		&model.UserMilestone{},
		&model.PasswordResetToken{},
	}
}

// DSN builds the driver specific connection string; an explicit URL wins.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	if cfg.Driver == config.DriverMySQL {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.Charset, cfg.ParseTime)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DriverMySQL {
		return mysql.Open(DSN(cfg))
	}
	return postgres.Open(DSN(cfg))
}

func InitDB(cfg *config.DatabaseConfig, mode string, migrate bool) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if mode == config.ModeDebug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := prepare(db, cfg, mode, migrate); err != nil {
		return nil, err
	}
	return db, nil
}

// prepare sizes the pool of an open connection and migrates the schema.
func prepare(db *gorm.DB, cfg *config.DatabaseConfig, mode string, migrate bool) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Log.Info("database connection established",
		zap.String("driver", db.Dialector.Name()),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)

	// release builds only migrate when asked to
	if migrate || mode != config.ModeRelease {
		if err := Migrate(db); err != nil {
			return err
		}
		logger.Log.Info("database migration completed", zap.Int("tables", len(Models())))
	}
	return nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
