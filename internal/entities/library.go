package entities

import (
	"time"
)

type Book struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:512" json:"title"`
	Author         string    `gorm:"size:256" json:"author"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastModifiedAt time.Time `gorm:"column:last_modified_at;autoUpdateTime" json:"last_modified_at"`
}

func (Book) TableName() string {
	return "book"
}

// Student does not own its book list. Books is populated per query by the
// aggregation step and is never persisted.
type Student struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"column:first_name;size:256" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:256" json:"last_name"`

	books []Book `gorm:"-"`
}

func (Student) TableName() string {
	return "student"
}

// Books returns a copy of the resolved books. It is never nil once
// WithBooks has been called.
func (s Student) Books() []Book {
	if s.books == nil {
		return nil
	}
	out := make([]Book, len(s.books))
	copy(out, s.books)
	return out
}

// WithBooks returns the student with its resolved books attached.
func (s Student) WithBooks(books []Book) Student {
	resolved := make([]Book, len(books))
	copy(resolved, books)
	s.books = resolved
	return s
}

// StudentBook is one "student has book" fact. Duplicate links are allowed.
type StudentBook struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StudentID uint `gorm:"column:student_id;index" json:"student_id"`
	BookID    uint `gorm:"column:book_id;index" json:"book_id"`
}

func (StudentBook) TableName() string {
	return "student_book"
}
