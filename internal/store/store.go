package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"northwind-orders/internal/models"
)

// Store is the data-access contract shared by the two realizations
// (sqlstore for parameterized driver queries, gormstore for the ORM).
// Both must return the same result shapes and the same numbers.
type Store interface {
	// FindCustomerIDByName resolves a company name to its customer id.
	FindCustomerIDByName(ctx context.Context, companyName string) (string, error)
	// FindEmployeeIDByName resolves a first+last name pair to an employee id.
	FindEmployeeIDByName(ctx context.Context, firstName, lastName string) (int, error)
	// FindProductByName resolves a product name to its id and current unit
	// price. A stored NULL price resolves to 0.
	FindProductByName(ctx context.Context, name string) (ProductRef, error)

	// NextOrderID returns max(orderid)+1, or 1 for an empty table. The
	// schema does not generate order keys, so callers insert with this id.
	// Read-only; the allocate-then-insert window is not atomic.
	NextOrderID(ctx context.Context) (int, error)

	// InsertOrder allocates the next order id, stamps it on the header and
	// inserts it. Returns the assigned id.
	InsertOrder(ctx context.Context, order *models.Order) (int, error)
	// InsertOrderDetail inserts a single line item for an existing order.
	InsertOrderDetail(ctx context.Context, detail *models.OrderDetail) error

	// FindOrderWithDetails returns the full order report, or a NotFoundError
	// when the order id does not exist (or its customer/employee row is
	// gone, matching the inner-join semantics of the report query).
	FindOrderWithDetails(ctx context.Context, orderID int) (*OrderReport, error)

	// EmployeeSalesRanking aggregates orders whose orderdate falls within
	// [start, end]: per employee, the count of distinct orders and the sum
	// of discounted line revenue, sorted by total descending. An empty
	// window yields an empty slice and no error.
	EmployeeSalesRanking(ctx context.Context, start, end time.Time) ([]RankingEntry, error)
}

// ProductRef is the resolver's view of a product.
type ProductRef struct {
	ID        int
	UnitPrice float64
}

type OrderReport struct {
	OrderID      int
	OrderDate    time.Time
	CustomerName string
	EmployeeName string
	Items        []ReportItem
	Total        float64
}

type ReportItem struct {
	ProductName string
	Quantity    int
	LineTotal   float64
}

type RankingEntry struct {
	EmployeeName string
	OrderCount   int
	Total        float64
}

// PlaceholderProduct is shown on the read path when a detail row points at
// a product that no longer exists. The write path fails fast instead; the
// asymmetry is deliberate.
const PlaceholderProduct = "Unknown"

// NotFoundError reports that a named entity (or an order id) did not
// resolve. It is distinct from infrastructure failures, which surface as
// plain wrapped errors.
type NotFoundError struct {
	Entity string // "customer", "employee", "product", "order"
	Name   string // lookup key as given by the caller
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Name)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// LineTotal computes unitPrice * quantity * (1 - discount). Both
// realizations compute report lines through it; the ranking queries use
// the same expression in SQL, so the two numbers cannot drift.
func LineTotal(unitPrice float64, quantity int, discount float64) float64 {
	return unitPrice * float64(quantity) * (1 - discount)
}

// Round2 rounds to two decimal places, used for ranking totals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
