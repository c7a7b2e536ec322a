// Package dto maps stored records to the JSON shapes returned by the API.
package dto

import (
	"time"

	"github.com/mrlokans/library/internal/entities"
)

type Book struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	CreatedAt      time.Time `json:"createdAt"`
	LastModifiedAt time.Time `json:"lastModifiedAt"`
}

// Student carries the resolved books view. Books is never nil so it always
// encodes as a JSON array.
type Student struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Books     []Book `json:"books"`
}

func FromBook(book entities.Book) Book {
	return Book{
		ID:             book.ID,
		Title:          book.Title,
		Author:         book.Author,
		CreatedAt:      book.CreatedAt,
		LastModifiedAt: book.LastModifiedAt,
	}
}

func FromBooks(books []entities.Book) []Book {
	result := make([]Book, 0, len(books))
	for _, b := range books {
		result = append(result, FromBook(b))
	}
	return result
}

func FromStudent(student entities.Student) Student {
	return Student{
		ID:        student.ID,
		FirstName: student.FirstName,
		LastName:  student.LastName,
		Books:     FromBooks(student.Books()),
	}
}

func FromStudents(students []entities.Student) []Student {
	result := make([]Student, 0, len(students))
	for _, s := range students {
		result = append(result, FromStudent(s))
	}
	return result
}

// BookInput is the request body for creating a book.
type BookInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (in BookInput) Entity() entities.Book {
	return entities.Book{Title: in.Title, Author: in.Author}
}

// StudentInput is the request body for creating a student.
type StudentInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (in StudentInput) Entity() entities.Student {
	return entities.Student{FirstName: in.FirstName, LastName: in.LastName}
}
