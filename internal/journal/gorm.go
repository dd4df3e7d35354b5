package journal

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormBackend persists captures through GORM, preferring Postgres and
// falling back to a local SQLite file when the server is unreachable.
type GormBackend struct {
	DB              *gorm.DB
	ShouldSaveLocal bool
	SqliteFilePath  string
	Logger          zerolog.Logger
}

// NewGormBackend creates an unconnected backend. sqlitePath may be empty,
// in which case the SQLite fallback uses a shared in-memory database.
func NewGormBackend(log zerolog.Logger, sqlitePath string) *GormBackend {
	return &GormBackend{
		SqliteFilePath: sqlitePath,
		Logger:         log,
	}
}

// Init connects and migrates the schema.
func (b *GormBackend) Init() error {
	var err error

	b.DB, err = b.openPostgres()
	if err != nil {
		b.Logger.Error().Err(err).Msg("Failed to connect to Postgres, using local SQLite")
		b.ShouldSaveLocal = true
		b.DB, err = b.openSqlite()
		if err != nil {
			return fmt.Errorf("failed to open local SQLite journal: %w", err)
		}
	}

	if err := b.DB.AutoMigrate(DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate journal schema: %w", err)
	}

	b.Logger.Info().Bool("sqlite", b.ShouldSaveLocal).Msg("Evidence journal ready")
	return nil
}

// Close closes the underlying connection.
func (b *GormBackend) Close() error {
	if b.DB == nil {
		return nil
	}
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordCapture inserts one evidence record.
func (b *GormBackend) RecordCapture(c *Capture) error {
	if b.DB == nil {
		return fmt.Errorf("journal not initialized")
	}
	return b.DB.Create(c).Error
}

// Count reports rows in the captures table.
func (b *GormBackend) Count() (int64, error) {
	if b.DB == nil {
		return 0, fmt.Errorf("journal not initialized")
	}
	var n int64
	err := b.DB.Model(&Capture{}).Count(&n).Error
	return n, err
}

func (b *GormBackend) openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		viper.GetString("journal.db.host"),
		viper.GetString("journal.db.port"),
		viper.GetString("journal.db.username"),
		viper.GetString("journal.db.password"),
		viper.GetString("journal.db.database"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func (b *GormBackend) openSqlite() (*gorm.DB, error) {
	path := b.SqliteFilePath
	if path == "" {
		path = "file::memory:?cache=shared"
	} else {
		b.Logger.Info().Str("path", path).Msg("Using local SQLite journal")
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}
