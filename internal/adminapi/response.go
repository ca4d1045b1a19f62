package adminapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/catalogadmin/internal/domain"
	"github.com/talkincode/catalogadmin/internal/webserver"
)

// PagedResponse is the envelope of paginated list endpoints.
type PagedResponse struct {
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, PagedResponse{
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// fail writes the common error body. detail is only sent for server errors.
func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	resp := webserver.ErrorResponse{Code: code, Message: message}
	if detail != nil {
		resp.Error = fmt.Sprint(detail)
	}
	return c.JSON(status, resp)
}

// failWith maps a service error to its status code.
func failWith(c echo.Context, err error) error {
	msg := domain.MessageOf(err)
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	case domain.KindNotFound:
		return fail(c, http.StatusNotFound, "NOT_FOUND", msg, nil)
	case domain.KindInvalidCredential:
		return fail(c, http.StatusBadRequest, "INVALID_CREDENTIALS", msg, nil)
	case domain.KindUnauthenticated:
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", msg, nil)
	default:
		return fail(c, http.StatusInternalServerError, "SERVER_ERROR", msg, errorDetail(err))
	}
}

func errorDetail(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && de.Err != nil {
		return de.Err.Error()
	}
	return err.Error()
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parsePagination reads page and perPage (or the older pageSize).
func parsePagination(c echo.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	size := c.QueryParam("perPage")
	if size == "" {
		size = c.QueryParam("pageSize")
	}
	if ps, err := strconv.Atoi(size); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}
