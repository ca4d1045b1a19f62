package config

import (
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig web server configuration
type WebConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	Secret       string   `yaml:"secret"`        // HMAC secret used to sign admin tokens
	TokenTTL     int      `yaml:"token_ttl"`     // token validity in seconds
	CorsOrigins  []string `yaml:"cors_origins"`  // allowed CORS origins
	Metrics      bool     `yaml:"metrics"`       // expose /metrics
	ReadTimeout  int      `yaml:"read_timeout"`  // seconds
	WriteTimeout int      `yaml:"write_timeout"` // seconds
}

// DBConfig database configuration
type DBConfig struct {
	Type     string `yaml:"type"` // postgres or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// LogConfig logger configuration
type LogConfig struct {
	Mode       string `yaml:"mode"` // development or production
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// AdminConfig default administrator seeded into an empty admins table
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// OprLogConfig audit log retention
type OprLogConfig struct {
	KeepDays int `yaml:"keep_days"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Database DBConfig     `yaml:"database"`
	Logger   LogConfig    `yaml:"logger"`
	Admin    AdminConfig  `yaml:"admin"`
	OprLog   OprLogConfig `yaml:"oprlog"`
}

// GetLogDir returns the log directory under the workdir
func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

// GetDataDir returns the data directory under the workdir
func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

// TokenDuration returns the token validity window
func (c *AppConfig) TokenDuration() time.Duration {
	if c.Web.TokenTTL <= 0 {
		return time.Hour
	}
	return time.Duration(c.Web.TokenTTL) * time.Second
}

// DefaultSecret is the published token secret shipped with the defaults.
const DefaultSecret = "9b6de5cc-0731-1203-xxtt-0f568ac9da37"

// weakSecrets are values that must be replaced before running outside debug mode.
var weakSecrets = map[string]struct{}{
	"":            {},
	DefaultSecret: {},
	"change-me":   {},
}

// WeakSecret reports whether the token secret is empty or a published placeholder.
func (c *AppConfig) WeakSecret() bool {
	_, ok := weakSecrets[strings.TrimSpace(c.Web.Secret)]
	return ok
}

// CheckSecret rejects a weak token secret unless system.debug is set.
func (c *AppConfig) CheckSecret() error {
	if c.WeakSecret() && !c.System.Debug {
		return errors.New("web.secret is empty or a published default, set CATALOG_WEB_SECRET or JWT_SECRET")
	}
	return nil
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "CatalogAdmin",
		Location: "Local",
		Workdir:  "/var/catalogadmin",
		Debug:    false,
	},
	Web: WebConfig{
		Host:         "0.0.0.0",
		Port:         3001,
		Secret:       DefaultSecret,
		TokenTTL:     3600,
		CorsOrigins:  []string{"http://localhost:3000"},
		Metrics:      false,
		ReadTimeout:  30,
		WriteTimeout: 30,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "catalogadmin",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/catalogadmin/logs/catalogadmin.log",
	},
	Admin: AdminConfig{
		Email:    "admin@example.com",
		Password: "catalogadmin",
	},
	OprLog: OprLogConfig{
		KeepDays: 365,
	},
}

// LoadConfig reads cfile (if it exists) over the defaults and applies
// environment overrides.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := *DefaultAppConfig
	cfg.Web.CorsOrigins = append([]string(nil), DefaultAppConfig.Web.CorsOrigins...)

	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err != nil {
				return nil, errors.Wrapf(err, "read config %s", cfile)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", cfile)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat config %s", cfile)
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// setEnvValue sets *val from the first non empty environment variable in names.
func setEnvValue(val *string, names ...string) {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*val = v
			return
		}
	}
}

func setEnvIntValue(val *int, names ...string) {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			if n, err := cast.ToIntE(v); err == nil {
				*val = n
				return
			}
		}
	}
}

func setEnvBoolValue(val *bool, names ...string) {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			if b, err := cast.ToBoolE(v); err == nil {
				*val = b
				return
			}
		}
	}
}

func applyEnv(cfg *AppConfig) {
	setEnvValue(&cfg.System.Workdir, "CATALOG_SYSTEM_WORKER_DIR")
	setEnvValue(&cfg.System.Location, "CATALOG_SYSTEM_LOCATION")
	setEnvBoolValue(&cfg.System.Debug, "CATALOG_SYSTEM_DEBUG")

	setEnvValue(&cfg.Web.Host, "CATALOG_WEB_HOST")
	setEnvIntValue(&cfg.Web.Port, "CATALOG_WEB_PORT", "APP_PORT")
	setEnvValue(&cfg.Web.Secret, "CATALOG_WEB_SECRET", "JWT_SECRET")
	setEnvIntValue(&cfg.Web.TokenTTL, "CATALOG_WEB_TOKEN_TTL")
	setEnvBoolValue(&cfg.Web.Metrics, "CATALOG_WEB_METRICS")
	if v := strings.TrimSpace(os.Getenv("CATALOG_WEB_CORS_ORIGINS")); v != "" {
		cfg.Web.CorsOrigins = cast.ToStringSlice(strings.ReplaceAll(v, ",", " "))
	}

	setEnvValue(&cfg.Database.Type, "CATALOG_DB_TYPE")
	setEnvValue(&cfg.Database.Host, "CATALOG_DB_HOST", "DB_HOST")
	setEnvIntValue(&cfg.Database.Port, "CATALOG_DB_PORT", "DB_PORT")
	setEnvValue(&cfg.Database.Name, "CATALOG_DB_NAME", "DB_NAME")
	setEnvValue(&cfg.Database.User, "CATALOG_DB_USER", "DB_USER")
	setEnvValue(&cfg.Database.Passwd, "CATALOG_DB_PWD", "DB_PASSWORD")
	setEnvIntValue(&cfg.Database.MaxConn, "CATALOG_DB_MAX_CONN")
	setEnvIntValue(&cfg.Database.IdleConn, "CATALOG_DB_IDLE_CONN")
	setEnvBoolValue(&cfg.Database.Debug, "CATALOG_DB_DEBUG")

	setEnvValue(&cfg.Logger.Mode, "CATALOG_LOGGER_MODE")
	setEnvBoolValue(&cfg.Logger.FileEnable, "CATALOG_LOGGER_FILE_ENABLE")

	setEnvValue(&cfg.Admin.Email, "CATALOG_ADMIN_EMAIL")
	setEnvValue(&cfg.Admin.Password, "CATALOG_ADMIN_PASSWORD")

	setEnvIntValue(&cfg.OprLog.KeepDays, "CATALOG_OPRLOG_KEEP_DAYS")
}
