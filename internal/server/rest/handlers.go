package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/buildinfo"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/labstack/echo/v4"
)

// TaskStore is the part of store.Store the HTTP layer needs.
type TaskStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	ListTasks(ctx context.Context, username string) ([]models.Task, error)
	AddTask(ctx context.Context, username, title string) (*models.Task, error)
	DeleteTask(ctx context.Context, username, taskID string) (bool, error)
	DeleteAllTasks(ctx context.Context, username string) (bool, error)
	DeleteMultiple(ctx context.Context, username string, taskIDs []string) (int, error)
	SetCompletion(ctx context.Context, username, taskID string, completed bool) (bool, error)
	CompleteMultiple(ctx context.Context, username string, taskIDs []string, completed bool) (int, error)
	RenameTask(ctx context.Context, username, taskID, title string) (bool, error)
	ToggleTask(ctx context.Context, username, taskID string) (bool, error)
	Reorder(ctx context.Context, username string, taskIDs []string) (bool, error)
}

// Handlers implements the HTTP endpoints.
type Handlers struct {
	store  TaskStore
	logger logging.Logger
}

func NewHandlers(st TaskStore, l logging.Logger) *Handlers {
	return &Handlers{store: st, logger: l}
}

type validator interface {
	validate() error
}

// bind decodes the JSON body into req and checks required fields.
func bind(c echo.Context, req validator) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return req.validate()
}

func (h *Handlers) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Task Board API"})
}

func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "Task Board API is running",
		Version: buildinfo.Version(),
	})
}

func (h *Handlers) ListUsers(c echo.Context) error {
	users, err := h.store.ListUsers(c.Request().Context())
	if err != nil {
		return storeError(err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

func (h *Handlers) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.store.CreateUser(ctx, *req.Username)
	if err != nil {
		return storeError(err)
	}

	h.logger.Info(ctx, "User created", "username", user.UserName)
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *Handlers) GetUser(c echo.Context) error {
	user, err := h.store.GetUser(c.Request().Context(), c.Param("username"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *Handlers) ListTasks(c echo.Context) error {
	tasks, err := h.store.ListTasks(c.Request().Context(), c.Param("username"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": tasks})
}

func (h *Handlers) AddTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.store.AddTask(ctx, c.Param("username"), *req.Title)
	if err != nil {
		return storeError(err)
	}

	h.logger.Debug(ctx, "Task added", "username", c.Param("username"), "task_id", task.ID)
	return c.JSON(http.StatusOK, echo.Map{"task": task})
}

func (h *Handlers) DeleteMultiple(c echo.Context) error {
	var req TaskIDsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	n, err := h.store.DeleteMultiple(c.Request().Context(), c.Param("username"), *req.TaskIDs)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("%d tasks deleted successfully", n)})
}

func (h *Handlers) DeleteTask(c echo.Context) error {
	ok, err := h.store.DeleteTask(c.Request().Context(), c.Param("username"), c.Param("task_id"))
	if err != nil {
		return storeError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, detailTaskNotFound)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

func (h *Handlers) DeleteAllTasks(c echo.Context) error {
	ok, err := h.store.DeleteAllTasks(c.Request().Context(), c.Param("username"))
	if err != nil {
		return storeError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, detailUserNotFound)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "All tasks deleted successfully"})
}

func (h *Handlers) ToggleTask(c echo.Context) error {
	completed, err := h.store.ToggleTask(c.Request().Context(), c.Param("username"), c.Param("task_id"))
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, ToggleResponse{Message: "Task toggled successfully", Completed: completed})
}

func (h *Handlers) SetCompletion(c echo.Context) error {
	var req CompleteTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ok, err := h.store.SetCompletion(c.Request().Context(), c.Param("username"), c.Param("task_id"), *req.Completed)
	if err != nil {
		return storeError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, detailTaskNotFound)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Task updated successfully"})
}

func (h *Handlers) CompleteMultiple(c echo.Context) error {
	var req CompleteMultipleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	n, err := h.store.CompleteMultiple(c.Request().Context(), c.Param("username"), *req.TaskIDs, *req.Completed)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("%d tasks updated successfully", n)})
}

func (h *Handlers) RenameTask(c echo.Context) error {
	var req UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ok, err := h.store.RenameTask(c.Request().Context(), c.Param("username"), c.Param("task_id"), *req.Title)
	if err != nil {
		return storeError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, detailTaskNotFound)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Task updated successfully"})
}

func (h *Handlers) Reorder(c echo.Context) error {
	var req TaskIDsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ok, err := h.store.Reorder(c.Request().Context(), c.Param("username"), *req.TaskIDs)
	if err != nil {
		return storeError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, detailUserNotFound)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Tasks reordered successfully"})
}
