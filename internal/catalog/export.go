package catalog

import (
	"context"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/talkincode/catalogadmin/internal/domain"
)

type productCSVRow struct {
	ID          int64   `csv:"id"`
	Name        string  `csv:"name"`
	Description string  `csv:"description"`
	Price       float64 `csv:"price"`
	Stock       int     `csv:"stock"`
	CreatedAt   string  `csv:"created_at"`
	UpdatedAt   string  `csv:"updated_at"`
}

// Export writes every product as CSV, newest first.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	products, err := s.List(ctx)
	if err != nil {
		return err
	}

	rows := make([]*productCSVRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, toCSVRow(p))
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return domain.InternalError(errors.Wrap(err, "write products csv"))
	}
	return nil
}

func toCSVRow(p domain.Product) *productCSVRow {
	row := &productCSVRow{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.Description != nil {
		row.Description = *p.Description
	}
	if p.UpdatedAt != nil {
		row.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return row
}
