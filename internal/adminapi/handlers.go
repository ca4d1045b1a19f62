package adminapi

import (
	"context"
	"io"

	"github.com/talkincode/catalogadmin/internal/audit"
	"github.com/talkincode/catalogadmin/internal/catalog"
	"github.com/talkincode/catalogadmin/internal/domain"
	"github.com/talkincode/catalogadmin/internal/webserver"
	"gorm.io/gorm"
)

// Authenticator is the login flow.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// ProductService is the product management surface used by the handlers.
type ProductService interface {
	Add(ctx context.Context, in catalog.ProductInput) (int64, error)
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, in catalog.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (*domain.ProductRef, error)
	BulkDelete(ctx context.Context, ids []int64) (*catalog.BulkDeleteResult, error)
	Search(ctx context.Context, q catalog.SearchQuery) (*catalog.SearchResult, error)
	Export(ctx context.Context, w io.Writer) error
}

type Handlers struct {
	auth     Authenticator
	products ProductService
	oprlogs  audit.OprLogRepository
	db       *gorm.DB
}

func New(auth Authenticator, products ProductService, oprlogs audit.OprLogRepository, db *gorm.DB) *Handlers {
	return &Handlers{
		auth:     auth,
		products: products,
		oprlogs:  oprlogs,
		db:       db,
	}
}

// Register mounts every admin api route on s.
func (h *Handlers) Register(s *webserver.Server) {
	h.registerAuthRoutes(s)
	h.registerProductRoutes(s)
	h.registerSystemRoutes(s)
}
