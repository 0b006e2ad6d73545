package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/reportgen/internal/report"
)

// Server exposes the report pipeline over HTTP.
type Server struct {
	pipeline *report.Pipeline
	logger   *log.Logger
}

func New(pipeline *report.Pipeline) *Server {
	return &Server{
		pipeline: pipeline,
		logger:   log.New(log.Writer(), "[HTTP] ", log.LstdFlags),
	}
}

// Echo builds the configured echo instance so tests can drive handlers
// without binding a port.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
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
		s.logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/reports", s.createReport)
	e.GET("/reports/:id", s.getReport)
	return e
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	return s.Echo().Start(addr)
}

type createReportRequest struct {
	Theme string `json:"theme"`
}

type createReportResponse struct {
	ID          string                        `json:"id"`
	Theme       string                        `json:"theme"`
	Sections    []string                      `json:"sections"`
	FinalReport string                        `json:"final_report"`
	References  map[string][]report.Reference `json:"references"`
	Summaries   map[string]string             `json:"summaries"`
}

func (s *Server) createReport(c echo.Context) error {
	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	runID, state, err := s.pipeline.Run(c.Request().Context(), req.Theme)
	if errors.Is(err, report.ErrEmptyTheme) {
		return echo.NewHTTPError(http.StatusBadRequest, report.ErrEmptyTheme.Error())
	}
	var upstream *report.UpstreamError
	if errors.As(err, &upstream) {
		return echo.NewHTTPError(http.StatusBadGateway, upstream.Error())
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, createReportResponse{
		ID:          runID,
		Theme:       state.Theme,
		Sections:    state.Sections,
		FinalReport: state.FinalReport(),
		References:  state.References,
		Summaries:   state.Summaries,
	})
}

func (s *Server) getReport(c echo.Context) error {
	status, ok := s.pipeline.GetStatus(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown report run")
	}
	return c.JSON(http.StatusOK, status)
}
