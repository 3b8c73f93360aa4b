// Package api exposes the HTTP surface of the alarm service: the manual
// trigger and maintenance endpoints under /api/alarms, a health probe,
// and the Prometheus scrape endpoint.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/firedock/reportrack-backend/internal/alarm"
	"github.com/firedock/reportrack-backend/internal/datastore/repository"
	"github.com/firedock/reportrack-backend/internal/logger"
)

// Controller wires HTTP handlers to the alarm engine and repositories.
type Controller struct {
	Echo *echo.Echo

	runner        *alarm.Runner
	alarmRepo     repository.AlarmRepository
	alarmLogRepo  repository.AlarmLogRepository
	engineEnabled bool
	log           *zap.Logger
}

// New builds the HTTP controller and registers all routes.
func New(runner *alarm.Runner, alarmRepo repository.AlarmRepository, alarmLogRepo repository.AlarmLogRepository, engineEnabled bool, log *zap.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	c := &Controller{
		Echo:          e,
		runner:        runner,
		alarmRepo:     alarmRepo,
		alarmLogRepo:  alarmLogRepo,
		engineEnabled: engineEnabled,
		log:           log,
	}
	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	c.Echo.GET("/healthz", c.Health)
	c.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	alarms := c.Echo.Group("/api/alarms")
	alarms.POST("/trigger", c.TriggerAlarms)
	alarms.POST("/reset-notifications", c.ResetNotifications)
	alarms.GET("/custom/count", c.CountAlarms)
	alarms.GET("/logs", c.ListRunLogs)
}

// Start runs the HTTP listener until Shutdown is called.
func (c *Controller) Start(addr string) error {
	err := c.Echo.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener gracefully.
func (c *Controller) Shutdown(ctx context.Context) error {
	return c.Echo.Shutdown(ctx)
}

// Health reports liveness.
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
