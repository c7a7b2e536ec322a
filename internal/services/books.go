package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/dto"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/metrics"
)

// BookService serves book reads and writes, including the cascade delete of
// a book's association rows.
type BookService struct {
	db Database
}

func NewBookService(db Database) *BookService {
	return &BookService{db: db}
}

func (s *BookService) GetAll(ctx context.Context) ([]dto.Book, error) {
	books, err := s.db.Stores().Books.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return dto.FromBooks(books), nil
}

func (s *BookService) GetByID(ctx context.Context, id uint) (*dto.Book, error) {
	book, err := s.db.Stores().Books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	result := dto.FromBook(*book)
	return &result, nil
}

// Save inserts a new book and returns its ID.
func (s *BookService) Save(ctx context.Context, book entities.Book) (uint, error) {
	book.ID = 0
	id, err := s.db.Stores().Books.Create(ctx, &book)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Remove deletes every association referencing the book and then the book,
// in one transaction. Removing an unknown book succeeds.
func (s *BookService) Remove(ctx context.Context, id uint) error {
	var unlinked int64
	err := s.db.InTx(ctx, func(stores Stores) error {
		n, err := stores.StudentBooks.DeleteByBookID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete links of book %d: %w", id, err)
		}
		unlinked = n
		if err := stores.Books.DeleteByID(ctx, id); err != nil {
			return fmt.Errorf("delete book %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.LinksRemoved.WithLabelValues(metrics.ReasonBookCascade).Add(float64(unlinked))
	return nil
}
