// Package storetest runs one property suite against both Store
// realizations, so the driver and ORM variants cannot drift apart in
// result shape or arithmetic. Implementation test files call Run with a
// factory that opens a fresh database.
package storetest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"northwind-orders/internal/models"
	"northwind-orders/internal/store"
)

// Factory opens a store under test plus a gorm handle on the same
// database for fixtures and direct assertions.
type Factory func(t *testing.T) (store.Store, *gorm.DB)

// OpenTestDB opens a per-test in-memory sqlite database with the
// northwind tables migrated.
func OpenTestDB(t *testing.T) *gorm.DB {
	db, _ := OpenTestDBDSN(t)
	return db
}

// OpenTestDBDSN also returns the DSN so a second connection (database/sql
// for the driver realization) can attach to the same shared-cache
// database.
func OpenTestDBDSN(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db, dsn
}

func seedBase(t *testing.T, db *gorm.DB) {
	t.Helper()
	chaiPrice := 18.0
	changPrice := 19.0
	fixtures := []any{
		&models.Customer{CustomerID: "ALFKI", CompanyName: "Alfreds Futterkiste"},
		&models.Customer{CustomerID: "ANATR", CompanyName: "Ana Trujillo Emparedados y helados"},
		&models.Employee{EmployeeID: 1, FirstName: "Nancy", LastName: "Davolio"},
		&models.Employee{EmployeeID: 2, FirstName: "Andrew", LastName: "Fuller"},
		&models.Product{ProductID: 1, ProductName: "Chai", UnitPrice: &chaiPrice},
		&models.Product{ProductID: 2, ProductName: "Chang", UnitPrice: &changPrice},
		&models.Product{ProductID: 3, ProductName: "Mishi Kobe Niku"}, // price NULL
	}
	for _, fixture := range fixtures {
		if err := db.Create(fixture).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func seedOrder(t *testing.T, db *gorm.DB, orderID int, customerID string, employeeID int, orderDate time.Time) {
	t.Helper()
	order := models.Order{OrderID: orderID, CustomerID: customerID, EmployeeID: employeeID, OrderDate: orderDate}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order %d: %v", orderID, err)
	}
}

func seedDetail(t *testing.T, db *gorm.DB, orderID, productID int, price float64, qty int, discount float64) {
	t.Helper()
	detail := models.OrderDetail{OrderID: orderID, ProductID: productID, UnitPrice: price, Quantity: qty, Discount: discount}
	if err := db.Create(&detail).Error; err != nil {
		t.Fatalf("seed detail %d/%d: %v", orderID, productID, err)
	}
}

var mayDay = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

// Run executes the shared property suite against the given realization.
func Run(t *testing.T, newHarness Factory) {
	ctx := context.Background()

	t.Run("NextOrderIDEmptyTable", func(t *testing.T) {
		st, _ := newHarness(t)
		id, err := st.NextOrderID(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, id)
	})

	t.Run("NextOrderIDIsMaxPlusOne", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		seedOrder(t, db, 11077, "ALFKI", 1, mayDay)
		id, err := st.NextOrderID(ctx)
		require.NoError(t, err)
		require.Equal(t, 11078, id)
	})

	t.Run("ResolveCustomer", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		id, err := st.FindCustomerIDByName(ctx, "Alfreds Futterkiste")
		require.NoError(t, err)
		require.Equal(t, "ALFKI", id)

		_, err = st.FindCustomerIDByName(ctx, "No Such Company")
		require.True(t, store.IsNotFound(err), "want not-found, got %v", err)
	})

	t.Run("ResolveEmployee", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		id, err := st.FindEmployeeIDByName(ctx, "Nancy", "Davolio")
		require.NoError(t, err)
		require.Equal(t, 1, id)

		// Exact match on both parts, not just the last name.
		_, err = st.FindEmployeeIDByName(ctx, "Anne", "Davolio")
		require.True(t, store.IsNotFound(err))
	})

	t.Run("ResolveProduct", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		product, err := st.FindProductByName(ctx, "Chai")
		require.NoError(t, err)
		require.Equal(t, store.ProductRef{ID: 1, UnitPrice: 18.0}, product)

		// NULL unit price resolves to 0.
		product, err = st.FindProductByName(ctx, "Mishi Kobe Niku")
		require.NoError(t, err)
		require.Equal(t, store.ProductRef{ID: 3, UnitPrice: 0}, product)

		_, err = st.FindProductByName(ctx, "Nope")
		require.True(t, store.IsNotFound(err))
	})

	t.Run("InsertOrderAssignsNextID", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		seedOrder(t, db, 11077, "ALFKI", 1, mayDay)

		order := models.Order{CustomerID: "ALFKI", EmployeeID: 1, OrderDate: mayDay, Freight: 5.0}
		id, err := st.InsertOrder(ctx, &order)
		require.NoError(t, err)
		require.Equal(t, 11078, id)
		require.Equal(t, 11078, order.OrderID)

		var count int64
		require.NoError(t, db.Model(&models.Order{}).Where("orderid = ?", id).Count(&count).Error)
		require.EqualValues(t, 1, count)
	})

	t.Run("OrderRoundTrip", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)

		order := models.Order{CustomerID: "ALFKI", EmployeeID: 1, OrderDate: mayDay}
		id, err := st.InsertOrder(ctx, &order)
		require.NoError(t, err)
		require.NoError(t, st.InsertOrderDetail(ctx, &models.OrderDetail{OrderID: id, ProductID: 1, UnitPrice: 18.0, Quantity: 2}))
		require.NoError(t, st.InsertOrderDetail(ctx, &models.OrderDetail{OrderID: id, ProductID: 2, UnitPrice: 19.0, Quantity: 3, Discount: 0.1}))

		report, err := st.FindOrderWithDetails(ctx, id)
		require.NoError(t, err)
		require.Equal(t, id, report.OrderID)
		require.Equal(t, "Alfreds Futterkiste", report.CustomerName)
		require.Equal(t, "Nancy Davolio", report.EmployeeName)
		require.Len(t, report.Items, 2)

		wantTotal := store.LineTotal(18.0, 2, 0) + store.LineTotal(19.0, 3, 0.1)
		require.InDelta(t, wantTotal, report.Total, 1e-9)

		// Read-only: a second fetch returns identical data.
		again, err := st.FindOrderWithDetails(ctx, id)
		require.NoError(t, err)
		require.Equal(t, report, again)

		// The ranking over a window containing the order agrees with the
		// report total to ranking precision.
		entries, err := st.EmployeeSalesRanking(ctx, mayDay.AddDate(0, 0, -9), mayDay.AddDate(0, 0, 21))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "Nancy Davolio", entries[0].EmployeeName)
		require.Equal(t, 1, entries[0].OrderCount)
		require.InDelta(t, store.Round2(wantTotal), entries[0].Total, 1e-9)
	})

	t.Run("EmptyOrderHasZeroTotal", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		seedOrder(t, db, 100, "ALFKI", 1, mayDay)

		report, err := st.FindOrderWithDetails(ctx, 100)
		require.NoError(t, err)
		require.Empty(t, report.Items)
		require.Zero(t, report.Total)
	})

	t.Run("ReportNotFound", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		_, err := st.FindOrderWithDetails(ctx, 99999)
		require.True(t, store.IsNotFound(err), "want not-found, got %v", err)
	})

	t.Run("MissingProductGetsPlaceholder", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		seedOrder(t, db, 200, "ALFKI", 1, mayDay)
		seedDetail(t, db, 200, 42, 10.0, 1, 0) // product 42 does not exist

		report, err := st.FindOrderWithDetails(ctx, 200)
		require.NoError(t, err)
		require.Len(t, report.Items, 1)
		require.Equal(t, store.PlaceholderProduct, report.Items[0].ProductName)
		require.InDelta(t, 10.0, report.Total, 1e-9)
	})

	t.Run("RankingEmptyWindow", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		seedOrder(t, db, 300, "ALFKI", 1, mayDay)
		seedDetail(t, db, 300, 1, 18.0, 1, 0)

		entries, err := st.EmployeeSalesRanking(ctx,
			time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.NotNil(t, entries)
		require.Empty(t, entries)
	})

	t.Run("RankingOrderAndAggregation", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		// Nancy: two orders, modest revenue. Andrew: one order, bigger.
		seedOrder(t, db, 400, "ALFKI", 1, mayDay)
		seedDetail(t, db, 400, 1, 18.0, 2, 0)
		seedOrder(t, db, 401, "ANATR", 1, mayDay.AddDate(0, 0, 1))
		seedDetail(t, db, 401, 2, 19.0, 1, 0.5)
		seedOrder(t, db, 402, "ALFKI", 2, mayDay.AddDate(0, 0, 2))
		seedDetail(t, db, 402, 2, 19.0, 10, 0)
		// Outside the window, must not count.
		seedOrder(t, db, 403, "ALFKI", 1, mayDay.AddDate(1, 0, 0))
		seedDetail(t, db, 403, 1, 18.0, 100, 0)

		entries, err := st.EmployeeSalesRanking(ctx, mayDay.AddDate(0, 0, -9), mayDay.AddDate(0, 0, 21))
		require.NoError(t, err)
		require.Len(t, entries, 2)

		require.Equal(t, "Andrew Fuller", entries[0].EmployeeName)
		require.Equal(t, 1, entries[0].OrderCount)
		require.InDelta(t, 190.0, entries[0].Total, 1e-9)

		require.Equal(t, "Nancy Davolio", entries[1].EmployeeName)
		require.Equal(t, 2, entries[1].OrderCount)
		require.InDelta(t, store.Round2(36.0+9.5), entries[1].Total, 1e-9)
	})

	// Two creations racing through the allocate-then-insert window compute
	// the same next id; storage then rejects the loser on the primary key.
	// Documented behavior, not something the store resolves.
	t.Run("AllocateThenInsertRace", func(t *testing.T) {
		st, db := newHarness(t)
		seedBase(t, db)
		seedOrder(t, db, 500, "ALFKI", 1, mayDay)

		first, err := st.NextOrderID(ctx)
		require.NoError(t, err)
		second, err := st.NextOrderID(ctx)
		require.NoError(t, err)
		require.Equal(t, first, second, "overlapping windows allocate the same id")

		require.NoError(t, db.Create(&models.Order{OrderID: first, CustomerID: "ALFKI", EmployeeID: 1, OrderDate: mayDay}).Error)
		err = db.Create(&models.Order{OrderID: second, CustomerID: "ANATR", EmployeeID: 2, OrderDate: mayDay}).Error
		require.Error(t, err, "second insert with the raced id must collide")
	})
}
