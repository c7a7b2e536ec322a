package students

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/entities"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Student{}))
	repo := NewRepository(db)

	t.Run("Create ignores books view", func(t *testing.T) {
		student := entities.Student{FirstName: "John", LastName: "Davis"}.
			WithBooks([]entities.Book{{ID: 1}})
		id, err := repo.Create(ctx, &student)
		require.NoError(t, err)
		assert.NotZero(t, id)

		found, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "John", found.FirstName)
		assert.Equal(t, "Davis", found.LastName)
		assert.Nil(t, found.Books())
	})

	t.Run("FindAll and DeleteByID", func(t *testing.T) {
		id, err := repo.Create(ctx, &entities.Student{FirstName: "Ann", LastName: "Lee"})
		require.NoError(t, err)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		require.NoError(t, repo.DeleteByID(ctx, id))
		_, err = repo.FindByID(ctx, id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
