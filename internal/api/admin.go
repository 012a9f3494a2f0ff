package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/usecase"
)

const headerAPIKey = "X-API-Key"

func (h *Handler) requireAdminKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.adminKey == "" {
			return echo.NewHTTPError(http.StatusInternalServerError, "Admin API key not configured")
		}
		given := c.Request().Header.Get(headerAPIKey)
		if subtle.ConstantTimeCompare([]byte(given), []byte(h.adminKey)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing API key")
		}
		return next(c)
	}
}

// triggerScrape runs the pipeline synchronously and answers with its summary.
func (h *Handler) triggerScrape(c echo.Context) error {
	if h.runner == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Pipeline not configured")
	}

	// A dropped client connection must not abort a run halfway through.
	ctx := context.WithoutCancel(c.Request().Context())
	summary, err := h.runner.Run(ctx, domain.TriggerAdmin)
	if errors.Is(err, usecase.ErrRunInProgress) {
		return echo.NewHTTPError(http.StatusConflict, "A scrape is already running")
	}
	if err != nil {
		return err
	}
	return ok(c, summary)
}

type statusView struct {
	Stats   domain.Stats       `json:"stats"`
	State   domain.RunState    `json:"pipeline_state"`
	Running bool               `json:"running"`
	LastRun *domain.RunSummary `json:"last_run"`
}

func (h *Handler) status(c echo.Context) error {
	stats, err := h.store.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	view := statusView{Stats: stats, State: domain.StateIdle}
	if h.runner != nil {
		view.State = h.runner.State()
		view.Running = h.runner.Running()
		if last, ok := h.runner.LastRun(); ok {
			view.LastRun = &last
		}
	}
	return ok(c, view)
}
