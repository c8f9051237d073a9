package api

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	models "SwingPull/internal/domain/models"
	"SwingPull/internal/usecase"
	xhttp "SwingPull/pkg/http"
	xlogger "SwingPull/pkg/logger"
)

//go:embed dashboard.html
var dashboardHTML []byte

// manual refreshes run detached from the request so a closed browser tab
// cannot abort a cycle mid-flight
const manualRefreshTimeout = 90 * time.Second

// DashboardHandler serves the dashboard page and its JSON API.
type DashboardHandler struct {
	logger *xlogger.Logger
	job    *usecase.DashboardJob
	cache  *usecase.SnapshotCache
	hub    *WSHub

	latestPath func() string
}

func NewDashboardHandler(
	logger *xlogger.Logger,
	job *usecase.DashboardJob,
	cache *usecase.SnapshotCache,
	hub *WSHub,
	latestPath func() string,
) *DashboardHandler {
	return &DashboardHandler{
		logger:     logger,
		job:        job,
		cache:      cache,
		hub:        hub,
		latestPath: latestPath,
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/healthz", h.Health)
	e.GET("/download", h.Download)
	e.GET("/ws", h.hub.Serve)

	g := e.Group("/api")
	g.GET("/data", h.Data)
	g.GET("/refresh", h.Refresh)
	g.POST("/refresh", h.Refresh)
	g.GET("/logs", h.Logs)
}

func (h *DashboardHandler) Index(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, dashboardHTML)
}

// Data returns the current snapshot, or 404 before the first successful cycle.
func (h *DashboardHandler) Data(c echo.Context) error {
	snap := h.cache.Read()
	if snap == nil {
		return xhttp.AppErrorResponse(c,
			xhttp.NotFoundError("snapshot not yet available"))
	}
	return xhttp.SuccessResponse(c, snap)
}

// Refresh triggers one full cycle (fetch, score, export) without email.
// A cycle already in flight answers 409 immediately.
func (h *DashboardHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), manualRefreshTimeout)
	defer cancel()

	if err := h.job.Run(ctx, false); err != nil {
		switch {
		case errors.Is(err, usecase.ErrRefreshInProgress):
			return xhttp.AppErrorResponse(c,
				xhttp.ConflictError("ERR_REFRESH_IN_PROGRESS", "a refresh cycle is already running"))
		case errors.Is(err, usecase.ErrAllSymbolsFailed):
			return xhttp.AppErrorResponse(c,
				xhttp.InternalError("upstream unavailable for every symbol"))
		default:
			h.logger.Error("manual refresh failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}

	return xhttp.SuccessResponse(c, h.cache.Read())
}

func (h *DashboardHandler) Download(c echo.Context) error {
	path := h.latestPath()
	if _, err := os.Stat(path); err != nil {
		return xhttp.AppErrorResponse(c,
			xhttp.NotFoundError("no workbook generated yet"))
	}
	return c.Attachment(path, "swing_dashboard.xlsx")
}

func (h *DashboardHandler) Health(c echo.Context) error {
	body := map[string]interface{}{"status": "ok"}
	if snap := h.cache.Read(); snap != nil {
		body["snapshot_at"] = snap.GeneratedAt
		body["instruments"] = len(snap.Instruments)
	}
	return c.JSON(http.StatusOK, body)
}

// Logs returns recent log entries, newest first. ?n= bounds the count.
func (h *DashboardHandler) Logs(c echo.Context) error {
	req := &models.LogsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	collector := h.logger.Collector()
	if collector == nil {
		return xhttp.SuccessResponse(c, []xlogger.Entry{})
	}
	return xhttp.SuccessResponse(c, collector.Recent(req.N))
}
