// Package students provides database operations for the student table.
//
//	var _ services.StudentStore = (*Repository)(nil)
package students

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all student database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new students repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the student and returns its new ID.
func (r *Repository) Create(ctx context.Context, student *entities.Student) (uint, error) {
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return 0, fmt.Errorf("create student: %w", err)
	}
	return student.ID, nil
}

// FindByID retrieves a student without books. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Student, error) {
	var student entities.Student
	err := r.db.WithContext(ctx).First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// FindAll retrieves every student ordered by ID.
func (r *Repository) FindAll(ctx context.Context) ([]entities.Student, error) {
	var students []entities.Student
	err := r.db.WithContext(ctx).Order("id ASC").Find(&students).Error
	return students, err
}

// DeleteByID removes the student row.
func (r *Repository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entities.Student{}, id).Error
}

// Count returns the total number of students.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Student{}).Count(&count).Error
	return count, err
}
