package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"northwind-orders/internal/models"
	"northwind-orders/internal/store"
	"northwind-orders/internal/store/gormstore"
	"northwind-orders/internal/store/storetest"
)

func setupService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := storetest.OpenTestDB(t)
	return NewOrderService(gormstore.New(db), zerolog.Nop()), db
}

func seedNorthwind(t *testing.T, db *gorm.DB) {
	t.Helper()
	chaiPrice := 18.0
	fixtures := []any{
		&models.Customer{CustomerID: "ALFKI", CompanyName: "Alfreds Futterkiste"},
		&models.Employee{EmployeeID: 1, FirstName: "Nancy", LastName: "Davolio"},
		&models.Product{ProductID: 1, ProductName: "Chai", UnitPrice: &chaiPrice},
	}
	for _, fixture := range fixtures {
		if err := db.Create(fixture).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestCreateOrderAndReport(t *testing.T) {
	svc, db := setupService(t)
	seedNorthwind(t, db)
	ctx := context.Background()

	orderID, err := svc.CreateOrder(ctx, CreateOrderInput{
		CustomerName:      "Alfreds Futterkiste",
		EmployeeFirstName: "Nancy",
		EmployeeLastName:  "Davolio",
		Items:             []LineItemInput{{ProductName: "Chai", Quantity: 2}},
		Shipping:          ShippingInfo{Freight: 5.0},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if orderID != 1 {
		t.Errorf("orderID = %d, want 1 on empty orders table", orderID)
	}

	report, err := svc.OrderReport(ctx, orderID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.Items) != 1 || report.Items[0].ProductName != "Chai" || report.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", report.Items)
	}
	// Line priced from the product's current unit price at insert time.
	if want := 2 * 18.0; report.Total != want {
		t.Errorf("total = %f, want %f", report.Total, want)
	}

	var saved models.Order
	if err := db.Take(&saved, "orderid = ?", orderID).Error; err != nil {
		t.Fatalf("load saved order: %v", err)
	}
	if saved.Freight != 5.0 {
		t.Errorf("freight = %f, want 5", saved.Freight)
	}
}

func TestCreateOrderIDIncreasesFromPriorMax(t *testing.T) {
	svc, db := setupService(t)
	seedNorthwind(t, db)
	if err := db.Create(&models.Order{OrderID: 11077, CustomerID: "ALFKI", EmployeeID: 1, OrderDate: time.Now()}).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}

	orderID, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:      "Alfreds Futterkiste",
		EmployeeFirstName: "Nancy",
		EmployeeLastName:  "Davolio",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if orderID != 11078 {
		t.Errorf("orderID = %d, want prior max + 1", orderID)
	}
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	svc, db := setupService(t)
	seedNorthwind(t, db)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:      "Nobody GmbH",
		EmployeeFirstName: "Nancy",
		EmployeeLastName:  "Davolio",
	})
	var notFound *store.NotFoundError
	if !errors.As(err, &notFound) || notFound.Entity != "customer" {
		t.Fatalf("want customer not-found, got %v", err)
	}
	// Nothing was written.
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil || count != 0 {
		t.Fatalf("orders count = %d, err = %v", count, err)
	}
}

// A line item that fails to resolve aborts the loop, but the header and
// any details already written stay committed. This is the documented
// partial-write behavior, not a bug.
func TestCreateOrderUnknownProductLeavesHeader(t *testing.T) {
	svc, db := setupService(t)
	seedNorthwind(t, db)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName:      "Alfreds Futterkiste",
		EmployeeFirstName: "Nancy",
		EmployeeLastName:  "Davolio",
		Items: []LineItemInput{
			{ProductName: "Chai", Quantity: 1},
			{ProductName: "No Such Tea", Quantity: 1},
		},
	})
	var notFound *store.NotFoundError
	if !errors.As(err, &notFound) || notFound.Entity != "product" || notFound.Name != "No Such Tea" {
		t.Fatalf("want product not-found, got %v", err)
	}

	var headerCount, detailCount int64
	if err := db.Model(&models.Order{}).Count(&headerCount).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if err := db.Model(&models.OrderDetail{}).Count(&detailCount).Error; err != nil {
		t.Fatalf("count details: %v", err)
	}
	if headerCount != 1 {
		t.Errorf("header rows = %d, want 1 despite the failure", headerCount)
	}
	if detailCount != 1 {
		t.Errorf("detail rows = %d, want the pre-failure item kept", detailCount)
	}
}

// guardStore fails the test if any query reaches storage; validation must
// reject first.
type guardStore struct {
	t *testing.T
}

func (g guardStore) fail() {
	g.t.Helper()
	g.t.Fatal("storage touched before validation")
}

func (g guardStore) FindCustomerIDByName(context.Context, string) (string, error) {
	g.fail()
	return "", nil
}
func (g guardStore) FindEmployeeIDByName(context.Context, string, string) (int, error) {
	g.fail()
	return 0, nil
}
func (g guardStore) FindProductByName(context.Context, string) (store.ProductRef, error) {
	g.fail()
	return store.ProductRef{}, nil
}
func (g guardStore) NextOrderID(context.Context) (int, error) {
	g.fail()
	return 0, nil
}
func (g guardStore) InsertOrder(context.Context, *models.Order) (int, error) {
	g.fail()
	return 0, nil
}
func (g guardStore) InsertOrderDetail(context.Context, *models.OrderDetail) error {
	g.fail()
	return nil
}
func (g guardStore) FindOrderWithDetails(context.Context, int) (*store.OrderReport, error) {
	g.fail()
	return nil, nil
}
func (g guardStore) EmployeeSalesRanking(context.Context, time.Time, time.Time) ([]store.RankingEntry, error) {
	g.fail()
	return nil, nil
}

func TestOrderReportRejectsNonPositiveID(t *testing.T) {
	svc := NewOrderService(guardStore{t}, zerolog.Nop())
	for _, orderID := range []int{0, -4} {
		_, err := svc.OrderReport(context.Background(), orderID)
		var validation *ValidationError
		if !errors.As(err, &validation) || validation.Code != "order_id_positive" {
			t.Errorf("orderID %d: want validation error, got %v", orderID, err)
		}
	}
}

func TestEmployeeRankingRejectsInvertedRange(t *testing.T) {
	svc := NewOrderService(guardStore{t}, zerolog.Nop())
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.EmployeeRanking(context.Background(), start, end)
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Code != "date_range_invalid" {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestEmployeeRankingEmptyWindowIsSuccess(t *testing.T) {
	svc, db := setupService(t)
	seedNorthwind(t, db)

	entries, err := svc.EmployeeRanking(context.Background(),
		time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("want empty successful result, got %#v", entries)
	}
}
