package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/catalogadmin/internal/domain"
)

// DBMSTableInfo is the row count of one managed table.
type DBMSTableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"rowCount"`
}

// DBMSServerInfo describes the connected database.
type DBMSServerInfo struct {
	DatabaseType    string          `json:"databaseType"`
	DatabaseVersion string          `json:"databaseVersion"`
	ServerTime      string          `json:"serverTime"`
	Tables          []DBMSTableInfo `json:"tables"`
}

type tabler interface {
	TableName() string
}

func (h *Handlers) dbmsGetServerInfo(c echo.Context) error {
	db := h.db.WithContext(c.Request().Context())
	dbType := db.Dialector.Name()

	info := DBMSServerInfo{
		DatabaseType: dbType,
		ServerTime:   time.Now().Format("2006-01-02 15:04:05"),
		Tables:       make([]DBMSTableInfo, 0, len(domain.Tables)),
	}

	var version string
	switch dbType {
	case "postgres":
		db.Raw("SELECT version()").Scan(&version)
		info.DatabaseVersion = version
	case "sqlite":
		db.Raw("SELECT sqlite_version()").Scan(&version)
		info.DatabaseVersion = "SQLite " + version
	}

	for _, model := range domain.Tables {
		t, ok := model.(tabler)
		if !ok {
			continue
		}
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query table "+t.TableName(), err.Error())
		}
		info.Tables = append(info.Tables, DBMSTableInfo{Name: t.TableName(), RowCount: count})
	}

	return ok(c, info)
}
