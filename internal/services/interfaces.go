package services

import (
	"context"

	"github.com/mrlokans/library/internal/entities"
)

// BookStore provides access to book rows.
type BookStore interface {
	Create(ctx context.Context, book *entities.Book) (uint, error)
	FindByID(ctx context.Context, id uint) (*entities.Book, error)
	FindAll(ctx context.Context) ([]entities.Book, error)
	DeleteByID(ctx context.Context, id uint) error
}

// StudentStore provides access to student rows.
type StudentStore interface {
	Create(ctx context.Context, student *entities.Student) (uint, error)
	FindByID(ctx context.Context, id uint) (*entities.Student, error)
	FindAll(ctx context.Context) ([]entities.Student, error)
	DeleteByID(ctx context.Context, id uint) error
}

// StudentBookStore provides access to association rows.
type StudentBookStore interface {
	Create(ctx context.Context, link *entities.StudentBook) (uint, error)
	DeleteByBookID(ctx context.Context, bookID uint) (int64, error)
	DeleteByStudentID(ctx context.Context, studentID uint) (int64, error)
	DeleteByStudentIDAndBookID(ctx context.Context, studentID, bookID uint) error
	FindBookIDsByStudentID(ctx context.Context, studentID uint) ([]uint, error)
}

// Stores bundles the record stores bound to one connection or transaction.
type Stores struct {
	Books        BookStore
	Students     StudentStore
	StudentBooks StudentBookStore
}

// Transactor runs fn inside a single database transaction. The stores passed
// to fn are bound to that transaction; returning an error rolls it back.
type Transactor interface {
	InTx(ctx context.Context, fn func(stores Stores) error) error
}

// Database is what the services need from the persistence layer.
type Database interface {
	Transactor
	Stores() Stores
}
