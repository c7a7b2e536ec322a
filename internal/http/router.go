package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/library/internal/logger"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	BookService    BookService
	StudentService StudentService

	// Database backs the health check. Optional.
	Database Pinger

	// Task queue client (optional)
	TaskQueue TaskQueue

	Logger *logger.Logger

	CORSAllowOrigins []string
	MetricsEnabled   bool

	// Application info
	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "http")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestContext(log))
	router.Use(RequestLogger(log))
	router.Use(SecurityHeaders())
	router.Use(CORS(cfg.CORSAllowOrigins))
	if cfg.MetricsEnabled {
		router.Use(Metrics())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	if cfg.BookService != nil {
		books := NewBooksController(cfg.BookService)
		api.GET("/books", books.GetAllBooks)
		api.GET("/books/:id", books.GetBook)
		api.POST("/books", books.CreateBook)
		api.DELETE("/books/:id", books.DeleteBook)
	}

	if cfg.StudentService != nil {
		students := NewStudentsController(cfg.StudentService)
		api.GET("/students", students.GetAllStudents)
		api.GET("/students/:id", students.GetStudent)
		api.POST("/students", students.CreateStudent)
		api.DELETE("/students/:id", students.DeleteStudent)
		api.POST("/students/:id/books/:bookId", students.AddBook)
		api.DELETE("/students/:id/books/:bookId", students.RemoveBook)
	}

	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
