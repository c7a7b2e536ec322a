// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into table-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, driver selection, transactions
//	├── migrate.go       # Embedded SQL migrations
//	├── migrations/      # Ordered scripts per dialect (sqlite, postgres)
//	├── books/           # book table
//	├── students/        # student table
//	└── studentbooks/    # student_book association table
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(database.Options{Path: "./library.db"}, log)
//
//	stores := db.Stores()
//	book, err := stores.Books.FindByID(ctx, 10)
//
// # Transactions
//
// InTx hands the callback a services.Stores bound to one transaction:
//
//	err := db.InTx(ctx, func(stores services.Stores) error {
//		if _, err := stores.StudentBooks.DeleteByBookID(ctx, id); err != nil {
//			return err
//		}
//		return stores.Books.DeleteByID(ctx, id)
//	})
//
// # Interface Implementations
//
//   - Database: implements services.Database
//   - books.Repository: implements services.BookStore
//   - students.Repository: implements services.StudentStore
//   - studentbooks.Repository: implements services.StudentBookStore and tasks.OrphanLinksSweeper
package database
