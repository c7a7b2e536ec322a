package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/studentbooks"
	"github.com/mrlokans/library/internal/database/students"
	liblog "github.com/mrlokans/library/internal/logger"
	"github.com/mrlokans/library/internal/services"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects the database backend.
type Options struct {
	Driver string
	// Path is the SQLite file path.
	Path string
	// DSN is the Postgres connection string.
	DSN string
	// LogLevel sets which gorm statements reach the service logger.
	// Defaults to logger.Warn.
	LogLevel logger.LogLevel
}

type Database struct {
	DB     *gorm.DB
	driver string
	log    *liblog.Logger
}

var _ services.Database = (*Database)(nil)

// NewDatabase opens the configured database and applies pending migrations.
func NewDatabase(opts Options, log *liblog.Logger) (*Database, error) {
	if log == nil {
		log = liblog.Nop()
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "", DriverSQLite:
		opts.Driver = DriverSQLite
		dialector = sqlite.Open(sqliteDSN(opts.Path))
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log, opts.LogLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Driver == DriverSQLite {
		// SQLite allows a single writer; a single connection also keeps the
		// foreign_keys pragma in effect for every statement.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	database := &Database{DB: db, driver: opts.Driver, log: log.With("component", "database")}

	applied, err := database.Migrate(context.Background())
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database.log.Info("Database initialized", "driver", opts.Driver, "migrations_applied", applied)

	return database, nil
}

func sqliteDSN(path string) string {
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

// Driver returns the name of the active backend.
func (d *Database) Driver() string {
	return d.driver
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Stores returns record stores bound to the connection pool.
func (d *Database) Stores() services.Stores {
	return storesFor(d.DB)
}

// InTx runs fn inside one transaction. gorm commits when fn returns nil and
// rolls back on error or panic.
func (d *Database) InTx(ctx context.Context, fn func(stores services.Stores) error) error {
	if fn == nil {
		return nil
	}
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(storesFor(tx))
	})
}

// Counts returns row counts per table, keyed by table name.
func (d *Database) Counts(ctx context.Context) (map[string]int64, error) {
	bookCount, err := books.NewRepository(d.DB).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}
	studentCount, err := students.NewRepository(d.DB).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	linkCount, err := studentbooks.NewRepository(d.DB).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count student books: %w", err)
	}
	return map[string]int64{
		"book":         bookCount,
		"student":      studentCount,
		"student_book": linkCount,
	}, nil
}

// StudentBooks returns the association repository bound to the pool.
func (d *Database) StudentBooks() *studentbooks.Repository {
	return studentbooks.NewRepository(d.DB)
}

func storesFor(db *gorm.DB) services.Stores {
	return services.Stores{
		Books:        books.NewRepository(db),
		Students:     students.NewRepository(db),
		StudentBooks: studentbooks.NewRepository(db),
	}
}
