// Package sqlstore implements store.Store with explicit parameterized
// queries over database/sql. It works against postgres (pgx stdlib driver,
// $n placeholders, "northwind." table prefix) and sqlite (? placeholders,
// no prefix), which is what the tests run on.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"northwind-orders/internal/models"
	"northwind-orders/internal/store"
)

// BindStyle selects the placeholder syntax of the underlying driver.
type BindStyle int

const (
	BindQuestion BindStyle = iota // sqlite
	BindDollar                    // postgres
)

type Config struct {
	// TablePrefix is prepended to every table name, e.g. "northwind."
	// for the production schema. Empty for sqlite.
	TablePrefix string
	Bind        BindStyle
}

type Store struct {
	db  *sql.DB
	cfg Config
}

func New(db *sql.DB, cfg Config) *Store {
	return &Store{db: db, cfg: cfg}
}

// rebind rewrites ? placeholders to $1..$n when the driver needs them.
// Queries in this package are written with ? only.
func (s *Store) rebind(query string) string {
	if s.cfg.Bind != BindDollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) table(name string) string {
	return s.cfg.TablePrefix + name
}

func (s *Store) FindCustomerIDByName(ctx context.Context, companyName string) (string, error) {
	query := s.rebind("SELECT customerid FROM " + s.table("customers") + " WHERE companyname = ?")
	var id string
	err := s.db.QueryRowContext(ctx, query, companyName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &store.NotFoundError{Entity: "customer", Name: companyName}
	}
	if err != nil {
		return "", fmt.Errorf("find customer %q: %w", companyName, err)
	}
	return id, nil
}

func (s *Store) FindEmployeeIDByName(ctx context.Context, firstName, lastName string) (int, error) {
	query := s.rebind("SELECT employeeid FROM " + s.table("employees") + " WHERE firstname = ? AND lastname = ?")
	var id int
	err := s.db.QueryRowContext(ctx, query, firstName, lastName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &store.NotFoundError{Entity: "employee", Name: firstName + " " + lastName}
	}
	if err != nil {
		return 0, fmt.Errorf("find employee %q %q: %w", firstName, lastName, err)
	}
	return id, nil
}

func (s *Store) FindProductByName(ctx context.Context, name string) (store.ProductRef, error) {
	query := s.rebind("SELECT productid, unitprice FROM " + s.table("products") + " WHERE productname = ?")
	var (
		id    int
		price sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, query, name).Scan(&id, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ProductRef{}, &store.NotFoundError{Entity: "product", Name: name}
	}
	if err != nil {
		return store.ProductRef{}, fmt.Errorf("find product %q: %w", name, err)
	}
	return store.ProductRef{ID: id, UnitPrice: price.Float64}, nil
}

func (s *Store) NextOrderID(ctx context.Context) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(orderid) FROM "+s.table("orders")).Scan(&max)
	if err != nil {
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

	query := s.rebind("INSERT INTO " + s.table("orders") +
		" (orderid, customerid, employeeid, orderdate, requireddate, shippeddate, shipperid, freight," +
		" shipname, shipaddress, shipcity, shipregion, shippostalcode, shipcountry)" +
		" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	_, err = s.db.ExecContext(ctx, query,
		order.OrderID, order.CustomerID, order.EmployeeID, order.OrderDate,
		order.RequiredDate, order.ShippedDate, order.ShipperID, order.Freight,
		order.ShipName, order.ShipAddress, order.ShipCity, order.ShipRegion,
		order.ShipPostalCode, order.ShipCountry)
	if err != nil {
		return 0, fmt.Errorf("insert order %d: %w", order.OrderID, err)
	}
	return id, nil
}

func (s *Store) InsertOrderDetail(ctx context.Context, detail *models.OrderDetail) error {
	query := s.rebind("INSERT INTO " + s.table("order_details") +
		" (orderid, productid, unitprice, quantity, discount) VALUES (?, ?, ?, ?, ?)")
	_, err := s.db.ExecContext(ctx, query,
		detail.OrderID, detail.ProductID, detail.UnitPrice, detail.Quantity, detail.Discount)
	if err != nil {
		return fmt.Errorf("insert order detail %d/%d: %w", detail.OrderID, detail.ProductID, err)
	}
	return nil
}

func (s *Store) FindOrderWithDetails(ctx context.Context, orderID int) (*store.OrderReport, error) {
	headerQuery := s.rebind(
		"SELECT o.orderid, o.orderdate, c.companyname, e.firstname, e.lastname" +
			" FROM " + s.table("orders") + " o" +
			" INNER JOIN " + s.table("customers") + " c ON o.customerid = c.customerid" +
			" INNER JOIN " + s.table("employees") + " e ON o.employeeid = e.employeeid" +
			" WHERE o.orderid = ?")

	var (
		report    store.OrderReport
		firstName string
		lastName  string
	)
	err := s.db.QueryRowContext(ctx, headerQuery, orderID).Scan(
		&report.OrderID, &report.OrderDate, &report.CustomerName, &firstName, &lastName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &store.NotFoundError{Entity: "order", Name: strconv.Itoa(orderID)}
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	report.EmployeeName = firstName + " " + lastName

	// LEFT JOIN keeps detail rows whose product has been deleted; the
	// report shows a placeholder name for those instead of failing.
	itemsQuery := s.rebind(
		"SELECT p.productname, od.quantity, od.unitprice, od.discount" +
			" FROM " + s.table("order_details") + " od" +
			" LEFT JOIN " + s.table("products") + " p ON od.productid = p.productid" +
			" WHERE od.orderid = ?")
	rows, err := s.db.QueryContext(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order %d items: %w", orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name      sql.NullString
			quantity  int
			unitPrice float64
			discount  float64
		)
		if err := rows.Scan(&name, &quantity, &unitPrice, &discount); err != nil {
			return nil, fmt.Errorf("scan order %d item: %w", orderID, err)
		}
		productName := name.String
		if !name.Valid {
			productName = store.PlaceholderProduct
		}
		lineTotal := store.LineTotal(unitPrice, quantity, discount)
		report.Items = append(report.Items, store.ReportItem{
			ProductName: productName,
			Quantity:    quantity,
			LineTotal:   lineTotal,
		})
		report.Total += lineTotal
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order %d items: %w", orderID, err)
	}
	return &report, nil
}

func (s *Store) EmployeeSalesRanking(ctx context.Context, start, end time.Time) ([]store.RankingEntry, error) {
	query := s.rebind(
		"SELECT e.firstname, e.lastname, COUNT(DISTINCT o.orderid)," +
			" SUM(od.quantity * od.unitprice * (1 - od.discount))" +
			" FROM " + s.table("employees") + " e" +
			" INNER JOIN " + s.table("orders") + " o ON e.employeeid = o.employeeid" +
			" INNER JOIN " + s.table("order_details") + " od ON o.orderid = od.orderid" +
			" WHERE o.orderdate BETWEEN ? AND ?" +
			" GROUP BY e.employeeid, e.firstname, e.lastname" +
			" ORDER BY SUM(od.quantity * od.unitprice * (1 - od.discount)) DESC")
	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("sales ranking: %w", err)
	}
	defer rows.Close()

	entries := []store.RankingEntry{}
	for rows.Next() {
		var (
			firstName string
			lastName  string
			count     int
			total     sql.NullFloat64
		)
		if err := rows.Scan(&firstName, &lastName, &count, &total); err != nil {
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}
		entries = append(entries, store.RankingEntry{
			EmployeeName: firstName + " " + lastName,
			OrderCount:   count,
			Total:        store.Round2(total.Float64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranking rows: %w", err)
	}
	return entries, nil
}
