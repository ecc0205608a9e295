package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sidyaa10/Task-Zen/internal/core"
	"github.com/Sidyaa10/Task-Zen/internal/storage"
)

// statusForError maps engine failures to HTTP status codes: missing or
// foreign records are 404, every validation-class failure is 400,
// anything else is a server error.
func statusForError(err error) int {
	var notFound *core.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var (
		validation  *core.ValidationError
		category    *core.InvalidCategoryError
		invalidDate *core.InvalidDateError
		invalidTime *core.InvalidTimeError
		window      *core.ScheduleWindowError
	)
	if errors.As(err, &validation) || errors.As(err, &category) ||
		errors.As(err, &invalidDate) || errors.As(err, &invalidTime) ||
		errors.As(err, &window) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Request.URL.Path, "err", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var input core.TaskCreateInput
	if err := c.BindJSON(&input); err != nil {
		return
	}
	task, err := s.engine.CreateTask(c.Request.Context(), ownerID(c), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (s *Server) handleListTasks(c *gin.Context) {
	date := c.Query("date")
	tab := core.ParseTab(c.Query("tab"))
	view := core.ParseViewMode(c.Query("view"))

	tasks, err := s.engine.ListTasksForDate(c.Request.Context(), ownerID(c), date, tab, view)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.engine.GetTask(c.Request.Context(), ownerID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var input core.TaskUpdateInput
	if err := c.BindJSON(&input); err != nil {
		return
	}
	task, err := s.engine.UpdateTask(c.Request.Context(), ownerID(c), c.Param("id"), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.engine.DeleteTask(c.Request.Context(), ownerID(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCreateSubtask(c *gin.Context) {
	var input core.SubtaskCreateInput
	if err := c.BindJSON(&input); err != nil {
		return
	}
	task, err := s.engine.CreateSubtask(c.Request.Context(), ownerID(c), c.Param("id"), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (s *Server) handleUpdateSubtask(c *gin.Context) {
	var input core.SubtaskUpdateInput
	if err := c.BindJSON(&input); err != nil {
		return
	}
	task, err := s.engine.UpdateSubtask(c.Request.Context(), ownerID(c), c.Param("id"), c.Param("subtaskId"), input)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleDeleteSubtask(c *gin.Context) {
	task, err := s.engine.DeleteSubtask(c.Request.Context(), ownerID(c), c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleMarkSession(c *gin.Context) {
	var input struct {
		Completed *bool `json:"completed"`
	}
	if err := c.BindJSON(&input); err != nil {
		return
	}
	if input.Completed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "completed must be boolean"})
		return
	}
	task, err := s.engine.MarkSession(c.Request.Context(), ownerID(c), c.Param("id"), *input.Completed)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (s *Server) handleMonthPreview(c *gin.Context) {
	month, err := core.ParseMonth(c.Query("month"))
	if err != nil {
		s.fail(c, err)
		return
	}
	days, err := s.engine.MonthPreview(c.Request.Context(), ownerID(c), month)
	if err != nil {
		// Calendar dots are best-effort; never fail the page over them.
		s.log.Warn("month preview failed", "month", month, "err", err)
		c.JSON(http.StatusOK, gin.H{"days": gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// profileResponse merges account info with the engine's aggregates.
type profileResponse struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joinedAt"`
	*core.ProfileStats
}

func (s *Server) handleProfileStats(c *gin.Context) {
	owner := ownerID(c)
	stats, err := s.engine.ProfileStats(c.Request.Context(), owner)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := profileResponse{Name: "Task-Zen User", ProfileStats: stats}
	if user, err := s.users.GetUserByID(c.Request.Context(), owner); err == nil {
		resp.Name = user.Name
		resp.Email = user.Email
		resp.JoinedAt = user.CreatedAt
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		s.log.Warn("user lookup failed", "err", err)
	}
	c.JSON(http.StatusOK, resp)
}
