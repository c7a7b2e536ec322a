// Package books provides database operations for the book table.
//
// This package implements the services.BookStore interface defined in
// internal/services/interfaces.go.
//
// # Interface Implementation
//
//	var _ services.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.FindByID(ctx, 10)
package books

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository. The handle may be a
// transaction, in which case every call joins it.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the book and returns the identifier assigned by the store.
func (r *Repository) Create(ctx context.Context, book *entities.Book) (uint, error) {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return 0, fmt.Errorf("create book: %w", err)
	}
	return book.ID, nil
}

// FindByID retrieves a book by its ID. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// FindAll retrieves every book ordered by ID.
func (r *Repository) FindAll(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Order("id ASC").Find(&books).Error
	return books, err
}

// DeleteByID removes the book row. Associations must be removed first.
func (r *Repository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entities.Book{}, id).Error
}

// Count returns the total number of books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}
