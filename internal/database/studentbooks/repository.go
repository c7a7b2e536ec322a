// Package studentbooks provides database operations for the student_book
// association table.
//
// # Interface Implementation
//
//	var _ services.StudentBookStore = (*Repository)(nil)
//	var _ tasks.OrphanLinksSweeper = (*Repository)(nil)
package studentbooks

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all student_book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new association repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts one association row and returns its ID.
func (r *Repository) Create(ctx context.Context, link *entities.StudentBook) (uint, error) {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return 0, fmt.Errorf("create student book: %w", err)
	}
	return link.ID, nil
}

// DeleteByBookID removes every association referencing the book.
func (r *Repository) DeleteByBookID(ctx context.Context, bookID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&entities.StudentBook{})
	return result.RowsAffected, result.Error
}

// DeleteByStudentID removes every association referencing the student.
func (r *Repository) DeleteByStudentID(ctx context.Context, studentID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&entities.StudentBook{})
	return result.RowsAffected, result.Error
}

// DeleteByStudentIDAndBookID removes the link between a student and a book.
// Removing a link that does not exist is not an error.
func (r *Repository) DeleteByStudentIDAndBookID(ctx context.Context, studentID, bookID uint) error {
	return r.db.WithContext(ctx).
		Where("student_id = ? AND book_id = ?", studentID, bookID).
		Delete(&entities.StudentBook{}).Error
}

// FindBookIDsByStudentID returns the book IDs linked to a student in
// association order. Duplicate links yield duplicate IDs.
func (r *Repository) FindBookIDsByStudentID(ctx context.Context, studentID uint) ([]uint, error) {
	var bookIDs []uint
	err := r.db.WithContext(ctx).Model(&entities.StudentBook{}).
		Where("student_id = ?", studentID).
		Order("id ASC").
		Pluck("book_id", &bookIDs).Error
	return bookIDs, err
}

// Count returns the total number of association rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.StudentBook{}).Count(&count).Error
	return count, err
}

// DeleteOrphans removes association rows whose student or book no longer exists.
func (r *Repository) DeleteOrphans(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		DELETE FROM student_book
		WHERE student_id NOT IN (SELECT id FROM student)
		   OR book_id NOT IN (SELECT id FROM book)
	`)
	if result.Error != nil {
		return 0, fmt.Errorf("delete orphan student books: %w", result.Error)
	}
	return result.RowsAffected, nil
}
