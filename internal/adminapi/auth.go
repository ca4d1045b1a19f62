package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/catalogadmin/internal/domain"
	"github.com/talkincode/catalogadmin/internal/webserver"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handlers) registerAuthRoutes(s *webserver.Server) {
	s.POST("/auth/login", h.login)
}

func (h *Handlers) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Email and password are required", nil)
	}

	token, err := h.auth.Login(c.Request().Context(), payload.Email, payload.Password)
	if err != nil {
		// an unknown admin is reported like a bad password, as 400
		if domain.KindOf(err) == domain.KindNotFound {
			return fail(c, http.StatusBadRequest, "ADMIN_NOT_FOUND", domain.MessageOf(err), nil)
		}
		return failWith(c, err)
	}
	return ok(c, loginResponse{Token: token})
}
