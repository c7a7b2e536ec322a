package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/dto"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/metrics"
)

// DefaultFetchConcurrency bounds the parallel store calls issued while
// resolving students and their books.
const DefaultFetchConcurrency = 8

// StudentService aggregates students with their books and manages the
// student/book associations.
type StudentService struct {
	db    Database
	limit int
}

func NewStudentService(db Database) *StudentService {
	return &StudentService{db: db, limit: DefaultFetchConcurrency}
}

// WithFetchConcurrency overrides the fan-out bound. Values below 1 are ignored.
func (s *StudentService) WithFetchConcurrency(n int) *StudentService {
	if n > 0 {
		s.limit = n
	}
	return s
}

func (s *StudentService) GetAll(ctx context.Context) ([]dto.Student, error) {
	stores := s.db.Stores()

	students, err := stores.Students.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	resolved := make([]entities.Student, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i := range students {
		g.Go(func() error {
			student, err := s.withBooks(gctx, stores, students[i])
			if err != nil {
				return err
			}
			resolved[i] = student
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dto.FromStudents(resolved), nil
}

func (s *StudentService) GetByID(ctx context.Context, id uint) (*dto.Student, error) {
	stores := s.db.Stores()

	student, err := stores.Students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get student %d: %w", id, err)
	}

	aggregated, err := s.withBooks(ctx, stores, *student)
	if err != nil {
		return nil, err
	}
	result := dto.FromStudent(aggregated)
	return &result, nil
}

// withBooks resolves the student's linked books in association order.
func (s *StudentService) withBooks(ctx context.Context, stores Stores, student entities.Student) (entities.Student, error) {
	bookIDs, err := stores.StudentBooks.FindBookIDsByStudentID(ctx, student.ID)
	if err != nil {
		return student, fmt.Errorf("list books of student %d: %w", student.ID, err)
	}

	books := make([]entities.Book, len(bookIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, bookID := range bookIDs {
		g.Go(func() error {
			book, err := stores.Books.FindByID(gctx, bookID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("student %d, book %d: %w", student.ID, bookID, ErrDanglingReference)
				}
				return fmt.Errorf("get book %d: %w", bookID, err)
			}
			books[i] = *book
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return student, err
	}

	return student.WithBooks(books), nil
}

// Save inserts a new student and returns its ID. Any books view on the
// argument is ignored.
func (s *StudentService) Save(ctx context.Context, student entities.Student) (uint, error) {
	record := entities.Student{FirstName: student.FirstName, LastName: student.LastName}
	return s.db.Stores().Students.Create(ctx, &record)
}

// AddBook links a book to a student and returns the association ID.
// Duplicate links are allowed.
func (s *StudentService) AddBook(ctx context.Context, studentID, bookID uint) (uint, error) {
	if err := s.checkExists(ctx, studentID, bookID); err != nil {
		return 0, err
	}

	var linkID uint
	err := s.db.InTx(ctx, func(stores Stores) error {
		id, err := stores.StudentBooks.Create(ctx, &entities.StudentBook{StudentID: studentID, BookID: bookID})
		if err != nil {
			// The student or book was deleted after checkExists.
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrStudentOrBookNotFound
			}
			return err
		}
		linkID = id
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.LinksCreated.Inc()
	return linkID, nil
}

// RemoveBook unlinks a book from a student. A missing link is not an error.
func (s *StudentService) RemoveBook(ctx context.Context, studentID, bookID uint) error {
	if err := s.checkExists(ctx, studentID, bookID); err != nil {
		return err
	}

	err := s.db.InTx(ctx, func(stores Stores) error {
		return stores.StudentBooks.DeleteByStudentIDAndBookID(ctx, studentID, bookID)
	})
	if err != nil {
		return fmt.Errorf("unlink book %d from student %d: %w", bookID, studentID, err)
	}

	metrics.LinksRemoved.WithLabelValues(metrics.ReasonUnlink).Inc()
	return nil
}

// Remove deletes the student's associations and then the student, in one
// transaction. Removing an unknown student succeeds.
func (s *StudentService) Remove(ctx context.Context, id uint) error {
	var unlinked int64
	err := s.db.InTx(ctx, func(stores Stores) error {
		n, err := stores.StudentBooks.DeleteByStudentID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete links of student %d: %w", id, err)
		}
		unlinked = n
		if err := stores.Students.DeleteByID(ctx, id); err != nil {
			return fmt.Errorf("delete student %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.LinksRemoved.WithLabelValues(metrics.ReasonStudentCascade).Add(float64(unlinked))
	return nil
}

// checkExists looks up the student and the book concurrently.
func (s *StudentService) checkExists(ctx context.Context, studentID, bookID uint) error {
	stores := s.db.Stores()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := stores.Students.FindByID(gctx, studentID)
		return err
	})
	g.Go(func() error {
		_, err := stores.Books.FindByID(gctx, bookID)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentOrBookNotFound
		}
		return fmt.Errorf("check student %d and book %d: %w", studentID, bookID, err)
	}
	return nil
}
