// Package gormstore implements store.Store through the ORM, with eager
// loading for the order report. On postgres the connection's search_path
// points at the northwind schema, so model table names stay unqualified.
package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"northwind-orders/internal/models"
	"northwind-orders/internal/store"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCustomerIDByName(ctx context.Context, companyName string) (string, error) {
	var customer models.Customer
	// Take, not First: the lookup is first-match in whatever order the
	// database returns, same as the driver realization.
	err := s.db.WithContext(ctx).Where("companyname = ?", companyName).Take(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", &store.NotFoundError{Entity: "customer", Name: companyName}
	}
	if err != nil {
		return "", fmt.Errorf("find customer %q: %w", companyName, err)
	}
	return customer.CustomerID, nil
}

func (s *Store) FindEmployeeIDByName(ctx context.Context, firstName, lastName string) (int, error) {
	var employee models.Employee
	err := s.db.WithContext(ctx).
		Where("firstname = ? AND lastname = ?", firstName, lastName).
		Take(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, &store.NotFoundError{Entity: "employee", Name: firstName + " " + lastName}
	}
	if err != nil {
		return 0, fmt.Errorf("find employee %q %q: %w", firstName, lastName, err)
	}
	return employee.EmployeeID, nil
}

func (s *Store) FindProductByName(ctx context.Context, name string) (store.ProductRef, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("productname = ?", name).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ProductRef{}, &store.NotFoundError{Entity: "product", Name: name}
	}
	if err != nil {
		return store.ProductRef{}, fmt.Errorf("find product %q: %w", name, err)
	}
	ref := store.ProductRef{ID: product.ProductID}
	if product.UnitPrice != nil {
		ref.UnitPrice = *product.UnitPrice
	}
	return ref, nil
}

func (s *Store) NextOrderID(ctx context.Context) (int, error) {
	var max sql.NullInt64
	row := s.db.WithContext(ctx).Model(&models.Order{}).Select("MAX(orderid)").Row()
	if err := row.Scan(&max); err != nil {
		return 0, fmt.Errorf("next order id: %w", err)
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}

func (s *Store) InsertOrder(ctx context.Context, order *models.Order) (int, error) {
	id, err := s.NextOrderID(ctx)
	if err != nil {
		return 0, err
	}
	order.OrderID = id
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return 0, fmt.Errorf("insert order %d: %w", order.OrderID, err)
	}
	return id, nil
}

func (s *Store) InsertOrderDetail(ctx context.Context, detail *models.OrderDetail) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(detail).Error; err != nil {
		return fmt.Errorf("insert order detail %d/%d: %w", detail.OrderID, detail.ProductID, err)
	}
	return nil
}

func (s *Store) FindOrderWithDetails(ctx context.Context, orderID int) (*store.OrderReport, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Employee").
		Preload("Details.Product").
		Take(&order, "orderid = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &store.NotFoundError{Entity: "order", Name: strconv.Itoa(orderID)}
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	// The report joins customer and employee inner-style: an order whose
	// customer or employee row is gone is unreachable, not a soft error.
	if order.Customer.CustomerID == "" || order.Employee.EmployeeID == 0 {
		return nil, &store.NotFoundError{Entity: "order", Name: strconv.Itoa(orderID)}
	}

	report := &store.OrderReport{
		OrderID:      order.OrderID,
		OrderDate:    order.OrderDate,
		CustomerName: order.Customer.CompanyName,
		EmployeeName: order.Employee.FirstName + " " + order.Employee.LastName,
	}
	for _, detail := range order.Details {
		productName := detail.Product.ProductName
		if detail.Product.ProductID == 0 {
			productName = store.PlaceholderProduct
		}
		lineTotal := store.LineTotal(detail.UnitPrice, detail.Quantity, detail.Discount)
		report.Items = append(report.Items, store.ReportItem{
			ProductName: productName,
			Quantity:    detail.Quantity,
			LineTotal:   lineTotal,
		})
		report.Total += lineTotal
	}
	return report, nil
}

func (s *Store) EmployeeSalesRanking(ctx context.Context, start, end time.Time) ([]store.RankingEntry, error) {
	var rows []struct {
		FirstName   string          `gorm:"column:firstname"`
		LastName    string          `gorm:"column:lastname"`
		TotalOrders int             `gorm:"column:total_orders"`
		TotalValue  sql.NullFloat64 `gorm:"column:total_value"`
	}
	err := s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Select("employees.firstname AS firstname, employees.lastname AS lastname," +
			" COUNT(DISTINCT orders.orderid) AS total_orders," +
			" SUM(order_details.quantity * order_details.unitprice * (1 - order_details.discount)) AS total_value").
		Joins("INNER JOIN orders ON orders.employeeid = employees.employeeid").
		Joins("INNER JOIN order_details ON order_details.orderid = orders.orderid").
		Where("orders.orderdate BETWEEN ? AND ?", start, end).
		Group("employees.employeeid, employees.firstname, employees.lastname").
		Order("total_value DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sales ranking: %w", err)
	}

	entries := []store.RankingEntry{}
	for _, row := range rows {
		entries = append(entries, store.RankingEntry{
			EmployeeName: row.FirstName + " " + row.LastName,
			OrderCount:   row.TotalOrders,
			Total:        store.Round2(row.TotalValue.Float64),
		})
	}
	return entries, nil
}
