package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/services"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(Options{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: logger.Silent,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	t.Run("defaults to sqlite", func(t *testing.T) {
		db := setupTestDB(t)
		assert.Equal(t, DriverSQLite, db.Driver())
		assert.NoError(t, db.Ping(context.Background()))
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		_, err := NewDatabase(Options{Driver: "oracle"}, nil)
		assert.ErrorContains(t, err, "unsupported database driver")
	})

	t.Run("postgres requires a DSN", func(t *testing.T) {
		_, err := NewDatabase(Options{Driver: DriverPostgres}, nil)
		assert.Error(t, err)
	})
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	t.Run("creates tables", func(t *testing.T) {
		for _, table := range []string{"book", "student", "student_book", "schema_migrations"} {
			assert.True(t, db.DB.Migrator().HasTable(table), table)
		}
	})

	t.Run("records every script", func(t *testing.T) {
		migrations, err := Migrations(DriverSQLite)
		require.NoError(t, err)
		require.NotEmpty(t, migrations)

		var count int64
		require.NoError(t, db.DB.Model(&SchemaMigration{}).Count(&count).Error)
		assert.Equal(t, int64(len(migrations)), count)
	})

	t.Run("is idempotent", func(t *testing.T) {
		applied, err := db.Migrate(ctx)
		require.NoError(t, err)
		assert.Zero(t, applied)
	})

	t.Run("reopening an existing file applies nothing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reopen.db")
		first, err := NewDatabase(Options{Path: path, LogLevel: logger.Silent}, nil)
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second, err := NewDatabase(Options{Path: path, LogLevel: logger.Silent}, nil)
		require.NoError(t, err)
		defer second.Close()

		applied, err := second.Migrate(ctx)
		require.NoError(t, err)
		assert.Zero(t, applied)
	})
}

func TestMigrations(t *testing.T) {
	sqliteScripts, err := Migrations(DriverSQLite)
	require.NoError(t, err)
	postgresScripts, err := Migrations(DriverPostgres)
	require.NoError(t, err)

	require.Equal(t, len(sqliteScripts), len(postgresScripts))
	for i := range sqliteScripts {
		assert.Equal(t, sqliteScripts[i].Version, postgresScripts[i].Version)
		if i > 0 {
			assert.Less(t, sqliteScripts[i-1].Version, sqliteScripts[i].Version)
		}
	}

	_, err = Migrations("mysql")
	assert.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (id INT);\n\n  CREATE INDEX i ON a (id);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX i ON a (id)"}, stmts)
	assert.Empty(t, splitStatements(" ;\n; "))
}

func TestForeignKeys(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	_, err := db.Stores().StudentBooks.Create(ctx, &entities.StudentBook{StudentID: 999, BookID: 10})
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated, "link to missing rows must violate the foreign keys")
}

func TestInTx(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	t.Run("commits on success", func(t *testing.T) {
		var id uint
		err := db.InTx(ctx, func(stores services.Stores) error {
			var err error
			id, err = stores.Books.Create(ctx, &entities.Book{Title: "Committed"})
			return err
		})
		require.NoError(t, err)

		book, err := db.Stores().Books.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Committed", book.Title)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		var id uint
		err := db.InTx(ctx, func(stores services.Stores) error {
			var err error
			id, err = stores.Books.Create(ctx, &entities.Book{Title: "Rolled back"})
			require.NoError(t, err)
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = db.Stores().Books.FindByID(ctx, id)
		assert.Error(t, err)
	})

	t.Run("cascade delete is atomic", func(t *testing.T) {
		stores := db.Stores()
		studentID, err := stores.Students.Create(ctx, &entities.Student{FirstName: "John"})
		require.NoError(t, err)
		bookID, err := stores.Books.Create(ctx, &entities.Book{Title: "Linked"})
		require.NoError(t, err)
		_, err = stores.StudentBooks.Create(ctx, &entities.StudentBook{StudentID: studentID, BookID: bookID})
		require.NoError(t, err)

		boom := errors.New("boom")
		err = db.InTx(ctx, func(stores services.Stores) error {
			if _, err := stores.StudentBooks.DeleteByBookID(ctx, bookID); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		ids, err := stores.StudentBooks.FindBookIDsByStudentID(ctx, studentID)
		require.NoError(t, err)
		assert.Equal(t, []uint{bookID}, ids)
	})

	t.Run("nil callback", func(t *testing.T) {
		assert.NoError(t, db.InTx(ctx, nil))
	})
}
