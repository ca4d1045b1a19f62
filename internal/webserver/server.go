package webserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/talkincode/catalogadmin/config"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Server is the admin API http server. Routes registered with the Api*
// methods are guarded by the token gate; the others are public.
type Server struct {
	root     *echo.Echo
	gate     echo.MiddlewareFunc
	config   *config.AppConfig
	registry *prometheus.Registry
}

func New(cfg *config.AppConfig, tokens TokenValidator) *Server {
	s := &Server{
		root:   echo.New(),
		gate:   Gate(tokens),
		config: cfg,
	}
	e := s.root
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.System.Debug
	if cfg.System.Debug {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.INFO)
	}
	e.JSONSerializer = &JSONSerializer{}
	e.Validator = NewValidator()
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Web.CorsOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	if cfg.Web.Metrics {
		s.registry = prometheus.NewRegistry()
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "catalogadmin",
			Registerer: s.registry,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: s.registry,
		}))
	}
	return s
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				zap.L().Warn("admin api request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zap.L().Debug("admin api request", fields...)
			return nil
		},
	})
}

// handleError renders errors that escaped the handlers, such as unknown
// routes or a panic caught by Recover, with the common error body.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	resp := ErrorResponse{Message: "Server error"}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		resp.Message = fmt.Sprint(he.Message)
	} else {
		zap.L().Error("unhandled admin api error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		resp.Error = err.Error()
	}
	resp.Code = statusCode(status)

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, resp)
	}
	if err != nil {
		zap.L().Error("failed to write error response", zap.Error(err))
	}
}

// statusCode turns 404 into NOT_FOUND, 405 into METHOD_NOT_ALLOWED and so on.
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// GET registers a public route.
func (s *Server) GET(path string, h echo.HandlerFunc) {
	s.root.GET(path, h)
}

// POST registers a public route.
func (s *Server) POST(path string, h echo.HandlerFunc) {
	s.root.POST(path, h)
}

func (s *Server) ApiGET(path string, h echo.HandlerFunc) {
	s.root.GET(path, h, s.gate)
}

func (s *Server) ApiPOST(path string, h echo.HandlerFunc) {
	s.root.POST(path, h, s.gate)
}

func (s *Server) ApiPUT(path string, h echo.HandlerFunc) {
	s.root.PUT(path, h, s.gate)
}

func (s *Server) ApiDELETE(path string, h echo.HandlerFunc) {
	s.root.DELETE(path, h, s.gate)
}

// ServeHTTP lets the server be driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.root.ServeHTTP(w, r)
}

// Start listens on web.host:web.port until Shutdown is called.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Web.Host, strconv.Itoa(s.config.Web.Port))
	srv := &http.Server{
		Addr:         addr,
		ReadTimeout:  time.Duration(s.config.Web.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Web.WriteTimeout) * time.Second,
	}
	zap.S().Infof("admin api listening on %s", addr)
	err := s.root.StartServer(srv)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}
