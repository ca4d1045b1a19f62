package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/talkincode/catalogadmin/internal/audit"
	"github.com/talkincode/catalogadmin/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

// ProductInput carries the writable product fields for add and update.
// Name and price are required; description may be null and stock defaults to 0.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
}

// SearchQuery is a paginated substring search over name and description.
type SearchQuery struct {
	Query  string
	Limit  int // 0 means DefaultSearchLimit
	Offset int
}

type SearchResult struct {
	Products []domain.Product `json:"products"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
	Query    string           `json:"query"`
}

type BulkDeleteResult struct {
	DeletedCount    int64               `json:"deletedCount"`
	DeletedProducts []domain.ProductRef `json:"deletedProducts"`
}

// Service implements the product management rules over a ProductRepository.
type Service struct {
	repo     ProductRepository
	bus      EventBus.Bus
	validate *validator.Validate
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the time source used for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithEventBus publishes audit events for every mutation.
func WithEventBus(bus EventBus.Bus) Option {
	return func(s *Service) {
		s.bus = bus
	}
}

func NewService(repo ProductRepository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) checkInput(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.InternalError(err)
	}
	for _, fe := range verrs {
		switch {
		case fe.Tag() == "required":
			return domain.ValidationError("Name and price are required")
		case fe.Field() == "Price":
			return domain.ValidationError("Price must be a non-negative number")
		case fe.Field() == "Stock":
			return domain.ValidationError("Stock must be a non-negative integer")
		case fe.Field() == "Name":
			return domain.ValidationError("Name must be at most 255 characters")
		}
	}
	return domain.ValidationError("Invalid product")
}

func checkID(id int64) error {
	if id <= 0 {
		return domain.ValidationError("Product id is required")
	}
	return nil
}

// Add creates a product and returns its generated id.
func (s *Service) Add(ctx context.Context, in ProductInput) (int64, error) {
	if err := s.checkInput(&in); err != nil {
		return 0, err
	}

	p := domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		CreatedAt:   s.now(),
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		zap.L().Error("failed to create product", zap.String("name", p.Name), zap.Error(err))
		return 0, domain.InternalError(err)
	}

	audit.PublishFromContext(ctx, s.bus, audit.ActionProductAdd, fmt.Sprintf("created product %d (%s)", p.ID, p.Name))
	return p.ID, nil
}

// List returns all products, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		zap.L().Error("failed to list products", zap.Error(err))
		return nil, domain.InternalError(err)
	}
	return products, nil
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError("Product not found")
	} else if err != nil {
		return nil, domain.InternalError(err)
	}
	return p, nil
}

// Update replaces name, description, price and stock of an existing product
// and returns the record as stored. The existence read and the update are not
// atomic; a row deleted in between is reported through the affected-row count.
func (s *Service) Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := s.checkInput(&in); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	fields := map[string]interface{}{
		"name":        in.Name,
		"description": in.Description,
		"price":       *in.Price,
		"stock":       stock,
		"updated_at":  s.now(),
	}
	affected, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		zap.L().Error("failed to update product", zap.Int64("id", id), zap.Error(err))
		return nil, domain.InternalError(err)
	}
	if affected == 0 {
		return nil, domain.NotFoundError("Product not found")
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	audit.PublishFromContext(ctx, s.bus, audit.ActionProductUpdate, fmt.Sprintf("updated product %d (%s)", p.ID, p.Name))
	return p, nil
}

// Delete removes one product and returns its id and name.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.ProductRef, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		zap.L().Error("failed to delete product", zap.Int64("id", id), zap.Error(err))
		return nil, domain.InternalError(err)
	}
	if affected == 0 {
		return nil, domain.NotFoundError("Product not found")
	}

	audit.PublishFromContext(ctx, s.bus, audit.ActionProductDelete, fmt.Sprintf("deleted product %d (%s)", p.ID, p.Name))
	return &domain.ProductRef{ID: p.ID, Name: p.Name}, nil
}

// BulkDelete removes every product in ids and reports the ones that existed.
func (s *Service) BulkDelete(ctx context.Context, ids []int64) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, domain.ValidationError("ids must be a non-empty array")
	}
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, domain.ValidationError("ids must contain positive integers")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	refs, err := s.repo.FindRefs(ctx, unique)
	if err != nil {
		return nil, domain.InternalError(err)
	}
	if len(refs) == 0 {
		return nil, domain.NotFoundError("No products found")
	}

	affected, err := s.repo.DeleteByIDs(ctx, unique)
	if err != nil {
		zap.L().Error("failed to bulk delete products", zap.Int64s("ids", unique), zap.Error(err))
		return nil, domain.InternalError(err)
	}
	if affected == 0 {
		return nil, domain.NotFoundError("No products found")
	}

	audit.PublishFromContext(ctx, s.bus, audit.ActionProductBulkDel, fmt.Sprintf("bulk deleted %d products %v", affected, unique))
	return &BulkDeleteResult{DeletedCount: affected, DeletedProducts: refs}, nil
}

// Search returns one page of products whose name or description contains q.
func (s *Service) Search(ctx context.Context, sq SearchQuery) (*SearchResult, error) {
	q := strings.TrimSpace(sq.Query)
	if q == "" {
		return nil, domain.ValidationError("Search query is required")
	}
	limit := sq.Limit
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	if limit < 0 || limit > MaxSearchLimit {
		return nil, domain.ValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxSearchLimit))
	}
	if sq.Offset < 0 {
		return nil, domain.ValidationError("offset must be a non-negative integer")
	}

	products, total, err := s.repo.Search(ctx, q, limit, sq.Offset)
	if err != nil {
		zap.L().Error("failed to search products", zap.String("q", q), zap.Error(err))
		return nil, domain.InternalError(err)
	}
	return &SearchResult{
		Products: products,
		Total:    total,
		Limit:    limit,
		Offset:   sq.Offset,
		Query:    q,
	}, nil
}
