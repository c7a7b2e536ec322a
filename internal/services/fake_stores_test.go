package services

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

// memoryDB is an in-memory Database. InTx snapshots the tables and restores
// them when fn fails.
type memoryDB struct {
	mu       sync.Mutex
	nextID   uint
	books    map[uint]entities.Book
	students map[uint]entities.Student
	links    []entities.StudentBook

	failLinkDelete error
	// beforeLinkCreate runs just before a link insert checks its parents.
	beforeLinkCreate func()
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		books:    map[uint]entities.Book{},
		students: map[uint]entities.Student{},
	}
}

func (m *memoryDB) Stores() Stores {
	return Stores{
		Books:        memoryBooks{m},
		Students:     memoryStudents{m},
		StudentBooks: memoryLinks{m},
	}
}

func (m *memoryDB) InTx(_ context.Context, fn func(stores Stores) error) error {
	m.mu.Lock()
	books := make(map[uint]entities.Book, len(m.books))
	for k, v := range m.books {
		books[k] = v
	}
	students := make(map[uint]entities.Student, len(m.students))
	for k, v := range m.students {
		students[k] = v
	}
	links := append([]entities.StudentBook(nil), m.links...)
	m.mu.Unlock()

	if err := fn(m.Stores()); err != nil {
		m.mu.Lock()
		m.books, m.students, m.links = books, students, links
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memoryDB) id() uint {
	m.nextID++
	return m.nextID
}

type memoryBooks struct{ m *memoryDB }

func (s memoryBooks) Create(_ context.Context, book *entities.Book) (uint, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	book.ID = s.m.id()
	s.m.books[book.ID] = *book
	return book.ID, nil
}

func (s memoryBooks) FindByID(_ context.Context, id uint) (*entities.Book, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	book, ok := s.m.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &book, nil
}

func (s memoryBooks) FindAll(_ context.Context) ([]entities.Book, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []entities.Book
	for id := uint(1); id <= s.m.nextID; id++ {
		if b, ok := s.m.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s memoryBooks) DeleteByID(_ context.Context, id uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.books, id)
	return nil
}

type memoryStudents struct{ m *memoryDB }

func (s memoryStudents) Create(_ context.Context, student *entities.Student) (uint, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	student.ID = s.m.id()
	s.m.students[student.ID] = *student
	return student.ID, nil
}

func (s memoryStudents) FindByID(_ context.Context, id uint) (*entities.Student, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	student, ok := s.m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &student, nil
}

func (s memoryStudents) FindAll(_ context.Context) ([]entities.Student, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []entities.Student
	for id := uint(1); id <= s.m.nextID; id++ {
		if st, ok := s.m.students[id]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s memoryStudents) DeleteByID(_ context.Context, id uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.students, id)
	return nil
}

type memoryLinks struct{ m *memoryDB }

func (s memoryLinks) Create(_ context.Context, link *entities.StudentBook) (uint, error) {
	if s.m.beforeLinkCreate != nil {
		s.m.beforeLinkCreate()
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	_, hasStudent := s.m.students[link.StudentID]
	_, hasBook := s.m.books[link.BookID]
	if !hasStudent || !hasBook {
		return 0, fmt.Errorf("create student book: %w", gorm.ErrForeignKeyViolated)
	}
	link.ID = s.m.id()
	s.m.links = append(s.m.links, *link)
	return link.ID, nil
}

func (s memoryLinks) deleteWhere(match func(entities.StudentBook) bool) int64 {
	var kept []entities.StudentBook
	var n int64
	for _, l := range s.m.links {
		if match(l) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	s.m.links = kept
	return n
}

func (s memoryLinks) DeleteByBookID(_ context.Context, bookID uint) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failLinkDelete != nil {
		return 0, s.m.failLinkDelete
	}
	return s.deleteWhere(func(l entities.StudentBook) bool { return l.BookID == bookID }), nil
}

func (s memoryLinks) DeleteByStudentID(_ context.Context, studentID uint) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.failLinkDelete != nil {
		return 0, s.m.failLinkDelete
	}
	return s.deleteWhere(func(l entities.StudentBook) bool { return l.StudentID == studentID }), nil
}

func (s memoryLinks) DeleteByStudentIDAndBookID(_ context.Context, studentID, bookID uint) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.deleteWhere(func(l entities.StudentBook) bool { return l.StudentID == studentID && l.BookID == bookID })
	return nil
}

func (s memoryLinks) FindBookIDsByStudentID(_ context.Context, studentID uint) ([]uint, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var ids []uint
	for _, l := range s.m.links {
		if l.StudentID == studentID {
			ids = append(ids, l.BookID)
		}
	}
	return ids, nil
}
