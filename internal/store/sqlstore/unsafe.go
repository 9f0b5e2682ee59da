package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"northwind-orders/internal/store"
)

// UnsafeFindProductByName builds its query by string concatenation and is
// trivially injectable. It exists only to back the CLI's SQL-injection
// demonstration and must never be called with real user input. The safe
// equivalent is FindProductByName.
func (s *Store) UnsafeFindProductByName(ctx context.Context, name string) (store.ProductRef, error) {
	query := fmt.Sprintf(
		"SELECT productid, unitprice FROM %s WHERE productname = '%s'",
		s.table("products"), name)
	var (
		id    int
		price sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, query).Scan(&id, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ProductRef{}, &store.NotFoundError{Entity: "product", Name: name}
	}
	if err != nil {
		return store.ProductRef{}, fmt.Errorf("unsafe find product: %w", err)
	}
	return store.ProductRef{ID: id, UnitPrice: price.Float64}, nil
}
