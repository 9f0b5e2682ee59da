package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"northwind-orders/internal/models"
	"northwind-orders/internal/store"
)

// ErrHeaderInsert marks a failure to persist the order header. Nothing has
// been written when it is returned.
var ErrHeaderInsert = errors.New("order header insert failed")

// ValidationError rejects bad input before any query runs. Code is an i18n
// message code.
type ValidationError struct {
	Code string
}

func (e *ValidationError) Error() string { return e.Code }

// LineItemInput names a product to order. Quantity is expected >= 1 and
// Discount is a fraction in [0,1); the input layer applies defaults.
type LineItemInput struct {
	ProductName string
	Quantity    int
	Discount    float64
}

// ShippingInfo carries the optional shipping fields of an order header.
// Nil pointers mean absent; Freight defaults to 0.
type ShippingInfo struct {
	RequiredDate   *time.Time
	ShippedDate    *time.Time
	ShipperID      *int
	Freight        float64
	ShipName       *string
	ShipAddress    *string
	ShipCity       *string
	ShipRegion     *string
	ShipPostalCode *string
	ShipCountry    *string
}

type CreateOrderInput struct {
	CustomerName      string
	EmployeeFirstName string
	EmployeeLastName  string
	Items             []LineItemInput
	Shipping          ShippingInfo
}

// OrderService orchestrates order creation and the two reports over a
// Store. It is realization-agnostic: the CLI builds one service per
// data-access mode.
type OrderService struct {
	store store.Store
	log   zerolog.Logger
}

func NewOrderService(st store.Store, log zerolog.Logger) *OrderService {
	return &OrderService{store: st, log: log}
}

// CreateOrder resolves the named customer and employee, inserts the order
// header under a freshly allocated id, then resolves and inserts each line
// item in the caller's order. A line item whose product does not resolve
// aborts the loop immediately; the header and any details already inserted
// stay in storage. There is no transaction around the sequence.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (int, error) {
	customerID, err := s.store.FindCustomerIDByName(ctx, in.CustomerName)
	if err != nil {
		return 0, s.logInfra(err, "resolve customer")
	}
	employeeID, err := s.store.FindEmployeeIDByName(ctx, in.EmployeeFirstName, in.EmployeeLastName)
	if err != nil {
		return 0, s.logInfra(err, "resolve employee")
	}

	order := &models.Order{
		CustomerID:     customerID,
		EmployeeID:     employeeID,
		OrderDate:      time.Now(),
		RequiredDate:   in.Shipping.RequiredDate,
		ShippedDate:    in.Shipping.ShippedDate,
		ShipperID:      in.Shipping.ShipperID,
		Freight:        in.Shipping.Freight,
		ShipName:       in.Shipping.ShipName,
		ShipAddress:    in.Shipping.ShipAddress,
		ShipCity:       in.Shipping.ShipCity,
		ShipRegion:     in.Shipping.ShipRegion,
		ShipPostalCode: in.Shipping.ShipPostalCode,
		ShipCountry:    in.Shipping.ShipCountry,
	}
	orderID, err := s.store.InsertOrder(ctx, order)
	if err != nil {
		s.log.Error().Err(err).Msg("insert order header")
		return 0, errors.Join(ErrHeaderInsert, err)
	}

	for _, item := range in.Items {
		product, err := s.store.FindProductByName(ctx, item.ProductName)
		if err != nil {
			// Header and earlier details remain committed.
			return 0, s.logInfra(err, "resolve product")
		}
		detail := &models.OrderDetail{
			OrderID:   orderID,
			ProductID: product.ID,
			UnitPrice: product.UnitPrice,
			Quantity:  item.Quantity,
			Discount:  item.Discount,
		}
		if err := s.store.InsertOrderDetail(ctx, detail); err != nil {
			return 0, s.logInfra(err, "insert order detail")
		}
	}
	return orderID, nil
}

// OrderReport fetches the full report for orderID. Non-positive ids are
// rejected before any query.
func (s *OrderService) OrderReport(ctx context.Context, orderID int) (*store.OrderReport, error) {
	if orderID <= 0 {
		return nil, &ValidationError{Code: "order_id_positive"}
	}
	report, err := s.store.FindOrderWithDetails(ctx, orderID)
	if err != nil {
		return nil, s.logInfra(err, "order report")
	}
	return report, nil
}

// EmployeeRanking aggregates sales per employee over the inclusive window
// [start, end]. start after end is rejected before any query. An empty
// window is a successful, empty result.
func (s *OrderService) EmployeeRanking(ctx context.Context, start, end time.Time) ([]store.RankingEntry, error) {
	if start.After(end) {
		return nil, &ValidationError{Code: "date_range_invalid"}
	}
	entries, err := s.store.EmployeeSalesRanking(ctx, start, end)
	if err != nil {
		return nil, s.logInfra(err, "employee ranking")
	}
	return entries, nil
}

// logInfra logs infrastructure errors and passes everything through
// unchanged. Not-found is a business outcome, not worth an error line.
func (s *OrderService) logInfra(err error, op string) error {
	if !store.IsNotFound(err) {
		s.log.Error().Err(err).Msg(op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
