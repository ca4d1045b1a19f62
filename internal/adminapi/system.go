package adminapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/catalogadmin/internal/webserver"
	"go.uber.org/zap"
)

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) registerSystemRoutes(s *webserver.Server) {
	s.GET("/healthz", h.health)
	s.ApiGET("/system/oprlogs", h.listOprLogs)
	s.ApiGET("/system/dbinfo", h.dbmsGetServerInfo)
}

func (h *Handlers) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		zap.L().Warn("health check failed", zap.Error(err))
		return fail(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable", nil)
	}
	return ok(c, healthResponse{Status: "ok"})
}

func (h *Handlers) listOprLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)
	logs, total, err := h.oprlogs.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operation logs", err.Error())
	}
	return paged(c, logs, total, page, pageSize)
}
