package app

import (
	"strings"
	"time"

	"github.com/talkincode/catalogadmin/internal/auth"
	"github.com/talkincode/catalogadmin/internal/domain"
	"go.uber.org/zap"
)

// checkSuper seeds the configured default admin when the admins table is empty.
func (a *Application) checkSuper() {
	var count int64
	if err := a.gormDB.Model(&domain.Admin{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to query admins", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	email := strings.TrimSpace(a.appConfig.Admin.Email)
	if email == "" || a.appConfig.Admin.Password == "" {
		zap.L().Warn("no admin account exists and no default admin is configured")
		return
	}

	hashedPassword, err := auth.HashPassword(a.appConfig.Admin.Password)
	if err != nil {
		zap.L().Error("failed to hash default admin password", zap.Error(err))
		return
	}
	if err := a.gormDB.Create(&domain.Admin{
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}).Error; err != nil {
		zap.L().Error("failed to create default admin", zap.Error(err))
		return
	}
	zap.L().Info("initialized default admin account", zap.String("email", email))
}
