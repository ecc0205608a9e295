package web

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/Sidyaa10/Task-Zen/internal/auth"
	"github.com/Sidyaa10/Task-Zen/internal/core"
	"github.com/Sidyaa10/Task-Zen/internal/storage"
)

// UserStore is the account lookup surface the auth handlers need.
// Implementations: storage.Store.
type UserStore interface {
	InsertUser(ctx context.Context, user *storage.User) error
	GetUserByEmail(ctx context.Context, email string) (*storage.User, error)
	GetUserByID(ctx context.Context, userID string) (*storage.User, error)
}

// Server is the Task-Zen HTTP server.
type Server struct {
	engine   *core.Engine
	users    UserStore
	secret   string
	tokenTTL time.Duration
	log      *log.Logger
	router   *gin.Engine
}

// ServerDeps holds dependencies for constructing a Server.
type ServerDeps struct {
	Engine   *core.Engine
	Users    UserStore
	Secret   string
	TokenTTL time.Duration
	Logger   *log.Logger
}

// NewServer creates the server and registers all routes.
func NewServer(deps ServerDeps) *Server {
	s := &Server{
		engine:   deps.Engine,
		users:    deps.Users,
		secret:   deps.Secret,
		tokenTTL: deps.TokenTTL,
		log:      deps.Logger,
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = auth.DefaultTokenTTL
	}
	if s.log == nil {
		s.log = log.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	// Public auth routes
	router.POST("/api/auth/signup", s.handleSignup)
	router.POST("/api/auth/login", s.handleLogin)
	router.POST("/logout", s.handleLogout)

	// Everything else requires a verified session
	api := router.Group("/api", s.requireAuth())
	{
		api.GET("/auth/me", s.handleMe)

		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.POST("/tasks/:id/subtasks", s.handleCreateSubtask)
		api.PATCH("/tasks/:id/subtasks/:subtaskId", s.handleUpdateSubtask)
		api.DELETE("/tasks/:id/subtasks/:subtaskId", s.handleDeleteSubtask)

		api.PATCH("/sessions/:id", s.handleMarkSession)

		api.GET("/calendar/month", s.handleMonthPreview)
		api.GET("/profile/stats", s.handleProfileStats)
	}

	s.router = router
	return s
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
