package rest

import "github.com/labstack/echo/v4"

// Route registers all endpoints on e.
func Route(e *echo.Echo, h *Handlers) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)

	users := e.Group("/api/users")
	users.GET("", h.ListUsers)
	users.POST("", h.CreateUser)
	users.GET("/:username", h.GetUser)

	// static segments win over :task_id in echo's router
	tasks := e.Group("/api/tasks/:username")
	tasks.GET("", h.ListTasks)
	tasks.POST("", h.AddTask)
	tasks.DELETE("", h.DeleteAllTasks)
	tasks.DELETE("/delete-multiple", h.DeleteMultiple)
	tasks.PATCH("/complete-multiple", h.CompleteMultiple)
	tasks.POST("/reorder", h.Reorder)
	tasks.DELETE("/:task_id", h.DeleteTask)
	tasks.PUT("/:task_id", h.RenameTask)
	tasks.PATCH("/:task_id/toggle", h.ToggleTask)
	tasks.PATCH("/:task_id/complete", h.SetCompletion)
}
