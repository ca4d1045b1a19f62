package webserver

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/catalogadmin/internal/auth"
	"github.com/talkincode/catalogadmin/internal/domain"
)

// IdentityKey is the echo context key holding the verified domain.Identity.
const IdentityKey = "identity"

const bearerPrefix = "Bearer "

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Gate rejects requests without a valid bearer token with 401. On success the
// caller identity is attached to both the echo context and the request context.
func Gate(tokens TokenValidator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + bearerPrefix,
		ContextKey:  "claims",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := tokens.Validate(token)
			if err != nil {
				return nil, err
			}
			id := domain.Identity{ID: claims.ID, Email: claims.Email, Role: claims.Role}
			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithIdentity(req.Context(), id)))
			c.Set(IdentityKey, id)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: gateMessage(c.Request().Header.Get(echo.HeaderAuthorization)),
			})
		},
	})
}

func gateMessage(header string) string {
	switch {
	case strings.TrimSpace(header) == "":
		return "Missing authorization token"
	case len(header) <= len(bearerPrefix),
		!strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix),
		strings.TrimSpace(header[len(bearerPrefix):]) == "":
		return "Invalid authorization header format"
	default:
		return "Invalid or expired token"
	}
}

// IdentityFrom returns the identity stored by Gate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(IdentityKey).(domain.Identity)
	return id, ok
}
