//
//  Copyright © Manetu Inc. All rights reserved.
//

// Package rest implements the HTTP/REST simulation endpoint. Structured
// engine errors map to HTTP status codes via their reason codes, and
// Prometheus collectors are exposed at /metrics.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/options"
	"github.com/manetu/ptsengine/pkg/simpoint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents a REST simulation endpoint server.
type Server struct {
	echo *echo.Echo
}

// handler carries the engine reference for the route handlers.
type handler struct {
	engine sim.Engine
}

// CreateServer creates and starts a new REST simulation endpoint server.
func CreateServer(engine sim.Engine, port int) (simpoint.Server, error) {
	e := echo.New()
	e.HideBanner = true

	h := &handler{engine: engine}

	v1 := e.Group("/v1")
	v1.POST("/scenarios", h.createScenario)
	v1.GET("/scenarios/:id", h.getScenario)
	v1.POST("/scenarios/:id/tests", h.addTest)
	v1.POST("/scenarios/:id/run", h.runSimulation)
	v1.GET("/simulations", h.listSimulations)
	v1.GET("/simulations/:id", h.getSimulation)
	v1.POST("/simulations/:id/cancel", h.cancelSimulation)
	v1.GET("/statistics", h.getStatistics)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Start server in goroutine since e.Start() blocks
	go func() {
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	return &Server{
		echo: e,
	}, nil
}

// Stop gracefully stops the Server by shutting down the Echo HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// errorResponse is the wire form of a structured engine error.
type errorResponse struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// fail maps a structured engine error to an HTTP response.
func fail(c echo.Context, err *common.SimError) error {
	status := http.StatusInternalServerError
	switch err.ReasonCode {
	case common.ReasonNotFound:
		status = http.StatusNotFound
	case common.ReasonValidation:
		status = http.StatusBadRequest
	case common.ReasonCancelled:
		status = http.StatusConflict
	}
	return c.JSON(status, errorResponse{Code: err.ReasonCode.String(), Reason: err.Reason})
}

func (h *handler) createScenario(c echo.Context) error {
	var req sim.CreateScenarioRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, common.NewError(common.ReasonValidation, "malformed scenario request: %s", err.Error()))
	}

	scenario, serr := h.engine.CreateScenario(req)
	if serr != nil {
		return fail(c, serr)
	}
	return c.JSON(http.StatusCreated, scenario)
}

func (h *handler) getScenario(c echo.Context) error {
	scenario, serr := h.engine.GetScenario(c.Param("id"))
	if serr != nil {
		return fail(c, serr)
	}
	return c.JSON(http.StatusOK, scenario)
}

func (h *handler) addTest(c echo.Context) error {
	var test model.TestScenario
	if err := c.Bind(&test); err != nil {
		return fail(c, common.NewError(common.ReasonValidation, "malformed test scenario: %s", err.Error()))
	}

	added, serr := h.engine.AddTestScenario(c.Param("id"), test)
	if serr != nil {
		return fail(c, serr)
	}
	return c.JSON(http.StatusCreated, added)
}

func (h *handler) runSimulation(c echo.Context) error {
	var runOptions []options.RunOptionsFunc
	if actor := c.QueryParam("requestedBy"); actor != "" {
		runOptions = append(runOptions, options.WithRequestedBy(actor))
	}

	result, serr := h.engine.RunSimulation(c.Request().Context(), c.Param("id"), runOptions...)
	if serr != nil {
		return fail(c, serr)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) listSimulations(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fail(c, common.NewError(common.ReasonValidation, "invalid limit: %s", raw))
		}
		limit = parsed
	}
	return c.JSON(http.StatusOK, h.engine.ListSimulations(limit))
}

func (h *handler) getSimulation(c echo.Context) error {
	result, serr := h.engine.GetSimulation(c.Param("id"))
	if serr != nil {
		return fail(c, serr)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) cancelSimulation(c echo.Context) error {
	if serr := h.engine.CancelSimulation(c.Param("id")); serr != nil {
		return fail(c, serr)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *handler) getStatistics(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.GetStatistics())
}
