package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mohammad-safakhou/voyago/config"
	"github.com/mohammad-safakhou/voyago/internal/trip/core"
	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

// Planner is the planning facade the API exposes.
type Planner interface {
	Plan(ctx context.Context, req core.TripRequest) (*core.PlanningState, error)
}

// NewRouter builds the echo instance with all routes registered.
func NewRouter(planner Planner, tele *telemetry.Telemetry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if tele != nil {
		e.GET("/metrics", echo.WrapHandler(tele.MetricsHandler()))
	}

	h := &PlansHandler{Planner: planner}
	h.Register(e.Group("/api"))
	return e
}

// Run wires the real planner and serves the API.
func Run(cfg *config.Config) error {
	tele := telemetry.NewTelemetry(cfg.Telemetry)
	planner, err := core.NewTripPlanner(cfg, tele)
	if err != nil {
		return err
	}

	e := NewRouter(planner, tele)
	addr := cfg.Server.Listen
	if addr == "" {
		addr = ":10010"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// PlansHandler serves planning requests.
type PlansHandler struct {
	Planner Planner
}

func (h *PlansHandler) Register(g *echo.Group) {
	g.POST("/plans", h.createPlan)
}

func (h *PlansHandler) createPlan(c echo.Context) error {
	var req core.TripRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	state, err := h.Planner.Plan(c.Request().Context(), req)
	if err != nil {
		var fatal *core.FatalInputError
		if errors.As(err, &fatal) {
			return echo.NewHTTPError(http.StatusBadRequest, fatal.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, state)
}
