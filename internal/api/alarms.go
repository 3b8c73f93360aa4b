package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/firedock/reportrack-backend/internal/alarm"
	"github.com/firedock/reportrack-backend/internal/logger"
)

// TriggerAlarms runs one alarm batch on demand and returns its log trail.
// When the engine kill switch is off this is a no-op that still answers
// 200, matching the scheduler's behavior.
func (c *Controller) TriggerAlarms(ctx echo.Context) error {
	if !c.engineEnabled {
		return ctx.JSON(http.StatusOK, map[string]any{
			"message": "Alarm engine is disabled, no checks were run.",
			"logs":    []string{},
		})
	}

	result, err := c.runner.Run(ctx.Request().Context())
	if err != nil {
		c.log.Error("manual alarm run failed",
			zap.String(logger.FieldRunID, result.RunID), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, alarm.ErrBatchFatal) {
			status = http.StatusBadRequest
		}
		return ctx.JSON(status, map[string]any{
			"error": err.Error(),
			"logs":  result.Logs,
		})
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"message": "Alarm checks completed.",
		"runId":   result.RunID,
		"logs":    result.Logs,
	})
}

type resetNotificationsRequest struct {
	IDs []uint `json:"ids"`
}

// ResetNotifications clears the notified marker on the given alarms so
// they become eligible to fire again.
func (c *Controller) ResetNotifications(ctx echo.Context) error {
	var req resetNotificationsRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if len(req.IDs) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "At least one alarm ID is required"})
	}

	count, err := c.alarmRepo.ResetNotified(ctx.Request().Context(), req.IDs)
	if err != nil {
		c.log.Error("failed to reset notifications", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to reset notifications"})
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"message": "Notifications reset.",
		"count":   count,
	})
}

// CountAlarms returns the number of alarms, optionally filtered by the
// active flag via ?active=true or ?active=false.
func (c *Controller) CountAlarms(ctx echo.Context) error {
	var active *bool
	if param := ctx.QueryParam("active"); param != "" {
		v, err := strconv.ParseBool(param)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid active filter"})
		}
		active = &v
	}

	count, err := c.alarmRepo.Count(ctx.Request().Context(), active)
	if err != nil {
		c.log.Error("failed to count alarms", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to count alarms"})
	}

	return ctx.JSON(http.StatusOK, map[string]any{"count": count})
}

// ListRunLogs returns recent batch run records, newest first. The limit
// defaults to 20 and is capped at 100.
func (c *Controller) ListRunLogs(ctx echo.Context) error {
	limit := 0
	if param := ctx.QueryParam("limit"); param != "" {
		v, err := strconv.Atoi(param)
		if err != nil || v < 1 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
		}
		limit = v
	}
	if limit > 100 {
		limit = 100
	}

	runs, err := c.alarmLogRepo.ListRecent(ctx.Request().Context(), limit)
	if err != nil {
		c.log.Error("failed to list run logs", zap.Error(err))
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list run logs"})
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}
