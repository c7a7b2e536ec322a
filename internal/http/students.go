package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/dto"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/services"
)

// StudentService is what StudentsController needs from the service layer.
type StudentService interface {
	GetAll(ctx context.Context) ([]dto.Student, error)
	GetByID(ctx context.Context, id uint) (*dto.Student, error)
	Save(ctx context.Context, student entities.Student) (uint, error)
	Remove(ctx context.Context, id uint) error
	AddBook(ctx context.Context, studentID, bookID uint) (uint, error)
	RemoveBook(ctx context.Context, studentID, bookID uint) error
}

type StudentsController struct {
	service StudentService
}

func NewStudentsController(service StudentService) *StudentsController {
	return &StudentsController{service: service}
}

// GetAllStudents handles GET /api/students
func (controller *StudentsController) GetAllStudents(c *gin.Context) {
	students, err := controller.service.GetAll(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list students")
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudent handles GET /api/students/:id
func (controller *StudentsController) GetStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	student, err := controller.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondNotFound(c, "student")
			return
		}
		respondInternalError(c, err, "get student")
		return
	}
	c.JSON(http.StatusOK, student)
}

// CreateStudent handles POST /api/students and returns the new ID.
func (controller *StudentsController) CreateStudent(c *gin.Context) {
	var input dto.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	id, err := controller.service.Save(c.Request.Context(), input.Entity())
	if err != nil {
		respondInternalError(c, err, "create student")
		return
	}
	respondCreated(c, id)
}

// DeleteStudent handles DELETE /api/students/:id
func (controller *StudentsController) DeleteStudent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.service.Remove(c.Request.Context(), id); err != nil {
		respondInternalError(c, err, "delete student")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddBook handles POST /api/students/:id/books/:bookId and returns the
// association ID.
func (controller *StudentsController) AddBook(c *gin.Context) {
	studentID, bookID, ok := parseLinkParams(c)
	if !ok {
		return
	}

	linkID, err := controller.service.AddBook(c.Request.Context(), studentID, bookID)
	if err != nil {
		respondLinkError(c, err, "link book")
		return
	}
	c.JSON(http.StatusOK, linkID)
}

// RemoveBook handles DELETE /api/students/:id/books/:bookId
func (controller *StudentsController) RemoveBook(c *gin.Context) {
	studentID, bookID, ok := parseLinkParams(c)
	if !ok {
		return
	}

	if err := controller.service.RemoveBook(c.Request.Context(), studentID, bookID); err != nil {
		respondLinkError(c, err, "unlink book")
		return
	}
	c.Status(http.StatusNoContent)
}

func parseLinkParams(c *gin.Context) (studentID, bookID uint, ok bool) {
	if studentID, ok = parseIDParam(c, "id"); !ok {
		return 0, 0, false
	}
	if bookID, ok = parseIDParam(c, "bookId"); !ok {
		return 0, 0, false
	}
	return studentID, bookID, true
}

func respondLinkError(c *gin.Context, err error, context string) {
	if errors.Is(err, services.ErrStudentOrBookNotFound) {
		respondError(c, http.StatusNotFound, services.ErrStudentOrBookNotFound.Error())
		return
	}
	respondInternalError(c, err, context)
}
