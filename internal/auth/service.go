package auth

import (
	"context"
	"fmt"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/talkincode/catalogadmin/internal/audit"
	"github.com/talkincode/catalogadmin/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the login flow: lookup, password check, token issuance.
type Service struct {
	admins AdminRepository
	tokens *TokenService
	bus    EventBus.Bus
}

// NewService creates the login service. bus may be nil.
func NewService(admins AdminRepository, tokens *TokenService, bus EventBus.Bus) *Service {
	return &Service{admins: admins, tokens: tokens, bus: bus}
}

// Login verifies the credentials and returns a signed admin token.
// An unknown email and a wrong password fail with different messages.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.NotFoundError("Admin not found")
	} else if err != nil {
		zap.L().Error("admin lookup failed", zap.String("email", email), zap.Error(err))
		return "", domain.InternalError(err)
	}

	valid, err := VerifyPassword(password, admin.Password)
	if err != nil {
		zap.L().Error("admin password verification failed", zap.Int64("admin_id", admin.ID), zap.Error(err))
		return "", domain.InternalError(err)
	}
	if !valid {
		return "", domain.InvalidCredentialError("Invalid Password")
	}

	token, err := s.tokens.Issue(admin.ID, admin.Email, domain.RoleAdmin)
	if err != nil {
		return "", domain.InternalError(err)
	}

	audit.Publish(s.bus, audit.Event{
		OprId:   admin.ID,
		OprName: admin.Email,
		Action:  audit.ActionLogin,
		Desc:    fmt.Sprintf("admin %s logged in", admin.Email),
	})
	zap.L().Info("admin logged in", zap.Int64("admin_id", admin.ID))
	return token, nil
}
