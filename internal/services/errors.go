package services

import "errors"

var (
	// ErrNotFound is returned when a requested book or student does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStudentOrBookNotFound is returned when linking or unlinking refers to
	// a student or book that does not exist.
	ErrStudentOrBookNotFound = errors.New("No student/book with given id's")

	// ErrDanglingReference is returned when an association row points at a
	// book that no longer resolves.
	ErrDanglingReference = errors.New("association references a missing book")
)
