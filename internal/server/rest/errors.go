package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/store"
	"github.com/labstack/echo/v4"
)

const (
	detailUserNotFound = "User not found"
	detailTaskNotFound = "Task not found"
	detailUserExists   = "Username already exists"
	detailStorage      = "Storage failure"
)

// storeError converts a store error into an HTTP error.
func storeError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return echo.NewHTTPError(http.StatusNotFound, detailTaskNotFound).SetInternal(err)
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, detailUserNotFound).SetInternal(err)
	case errors.Is(err, common.ErrorAlreadyExists):
		return echo.NewHTTPError(http.StatusBadRequest, detailUserExists).SetInternal(err)
	case errors.Is(err, common.ErrorStorage):
		return echo.NewHTTPError(http.StatusInternalServerError, detailStorage).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
	}
}

// errorHandler writes every error as {"detail": "..."}.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = storeError(err)
	}

	detail := fmt.Sprint(he.Message)
	if m, ok := he.Message.(string); ok {
		detail = m
	}

	if he.Code >= http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(he.Code)
	} else {
		werr = c.JSON(he.Code, ErrorResponse{Detail: detail})
	}
	if werr != nil {
		s.logger.Error(c.Request().Context(), "writing error response", "error", werr)
	}
}
