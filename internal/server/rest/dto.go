package rest

import (
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/labstack/echo/v4"
)

// Request bodies. Pointer fields tell a missing field from a zero value.

type CreateUserRequest struct {
	Username *string `json:"username"`
}

type CreateTaskRequest struct {
	Title *string `json:"title"`
}

type UpdateTaskRequest struct {
	Title *string `json:"title"`
}

type CompleteTaskRequest struct {
	Completed *bool `json:"completed"`
}

type TaskIDsRequest struct {
	TaskIDs *[]string `json:"task_ids"`
}

type CompleteMultipleRequest struct {
	TaskIDs   *[]string `json:"task_ids"`
	Completed *bool     `json:"completed"`
}

// MessageResponse is the body of most mutating endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

type ToggleResponse struct {
	Message   string `json:"message"`
	Completed bool   `json:"completed"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// required reports the first missing field as a 400 wrapping
// common.ErrorValidation.
func required(fields ...field) error {
	for _, f := range fields {
		if !f.present {
			return echo.NewHTTPError(http.StatusBadRequest, "field required: "+f.name).
				SetInternal(common.ErrorValidation)
		}
	}
	return nil
}

type field struct {
	name    string
	present bool
}

func (r *CreateUserRequest) validate() error {
	return required(field{"username", r.Username != nil})
}

func (r *CreateTaskRequest) validate() error {
	return required(field{"title", r.Title != nil})
}

func (r *UpdateTaskRequest) validate() error {
	return required(field{"title", r.Title != nil})
}

func (r *CompleteTaskRequest) validate() error {
	return required(field{"completed", r.Completed != nil})
}

func (r *TaskIDsRequest) validate() error {
	return required(field{"task_ids", r.TaskIDs != nil})
}

func (r *CompleteMultipleRequest) validate() error {
	return required(
		field{"task_ids", r.TaskIDs != nil},
		field{"completed", r.Completed != nil},
	)
}
