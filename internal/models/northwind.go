package models

import "time"

// Northwind schema. The tables pre-exist and are managed outside this
// application, so column names must match the external schema exactly.
// Orders have no database-generated key; the application assigns orderid.

type Customer struct {
	CustomerID   string `gorm:"column:customerid;primaryKey"`
	CompanyName  string `gorm:"column:companyname"`
	ContactName  string `gorm:"column:contactname"`
	ContactTitle string `gorm:"column:contacttitle"`
	Address      string `gorm:"column:address"`
	City         string `gorm:"column:city"`
	Region       string `gorm:"column:region"`
	PostalCode   string `gorm:"column:postalcode"`
	Country      string `gorm:"column:country"`
	Phone        string `gorm:"column:phone"`
	Fax          string `gorm:"column:fax"`
}

func (Customer) TableName() string { return "customers" }

type Employee struct {
	EmployeeID      int        `gorm:"column:employeeid;primaryKey;autoIncrement:false"`
	LastName        string     `gorm:"column:lastname"`
	FirstName       string     `gorm:"column:firstname"`
	Title           string     `gorm:"column:title"`
	TitleOfCourtesy string     `gorm:"column:titleofcourtesy"`
	BirthDate       *time.Time `gorm:"column:birthdate"`
	HireDate        *time.Time `gorm:"column:hiredate"`
	Address         string     `gorm:"column:address"`
	City            string     `gorm:"column:city"`
	Region          string     `gorm:"column:region"`
	PostalCode      string     `gorm:"column:postalcode"`
	Country         string     `gorm:"column:country"`
	HomePhone       string     `gorm:"column:homephone"`
	Extension       string     `gorm:"column:extension"`
	ReportsTo       *int       `gorm:"column:reportsto"`
	Notes           string     `gorm:"column:notes"`
}

func (Employee) TableName() string { return "employees" }

type Product struct {
	ProductID       int      `gorm:"column:productid;primaryKey;autoIncrement:false"`
	SupplierID      *int     `gorm:"column:supplierid"`
	CategoryID      *int     `gorm:"column:categoryid"`
	ProductName     string   `gorm:"column:productname"`
	QuantityPerUnit string   `gorm:"column:quantityperunit"`
	UnitPrice       *float64 `gorm:"column:unitprice"`
	UnitsInStock    *int     `gorm:"column:unitsinstock"`
	UnitsOnOrder    *int     `gorm:"column:unitsonorder"`
	ReorderLevel    *int     `gorm:"column:reorderlevel"`
	Discontinued    string   `gorm:"column:discontinued"`
}

func (Product) TableName() string { return "products" }

type Shipper struct {
	ShipperID   int    `gorm:"column:shipperid;primaryKey;autoIncrement:false"`
	CompanyName string `gorm:"column:companyname"`
	Phone       string `gorm:"column:phone"`
}

func (Shipper) TableName() string { return "shippers" }

type Supplier struct {
	SupplierID   int    `gorm:"column:supplierid;primaryKey;autoIncrement:false"`
	CompanyName  string `gorm:"column:companyname"`
	ContactName  string `gorm:"column:contactname"`
	ContactTitle string `gorm:"column:contacttitle"`
	Address      string `gorm:"column:address"`
	City         string `gorm:"column:city"`
	Region       string `gorm:"column:region"`
	PostalCode   string `gorm:"column:postalcode"`
	Country      string `gorm:"column:country"`
	Phone        string `gorm:"column:phone"`
	Fax          string `gorm:"column:fax"`
	HomePage     string `gorm:"column:homepage"`
}

func (Supplier) TableName() string { return "suppliers" }

type Category struct {
	CategoryID   int    `gorm:"column:categoryid;primaryKey;autoIncrement:false"`
	CategoryName string `gorm:"column:categoryname"`
	Description  string `gorm:"column:description"`
}

func (Category) TableName() string { return "categories" }

type Order struct {
	// Assigned by the application as max(orderid)+1; see store.InsertOrder.
	OrderID        int           `gorm:"column:orderid;primaryKey;autoIncrement:false"`
	CustomerID     string        `gorm:"column:customerid"`
	EmployeeID     int           `gorm:"column:employeeid"`
	OrderDate      time.Time     `gorm:"column:orderdate"`
	RequiredDate   *time.Time    `gorm:"column:requireddate"`
	ShippedDate    *time.Time    `gorm:"column:shippeddate"`
	ShipperID      *int          `gorm:"column:shipperid"`
	Freight        float64       `gorm:"column:freight"`
	ShipName       *string       `gorm:"column:shipname"`
	ShipAddress    *string       `gorm:"column:shipaddress"`
	ShipCity       *string       `gorm:"column:shipcity"`
	ShipRegion     *string       `gorm:"column:shipregion"`
	ShipPostalCode *string       `gorm:"column:shippostalcode"`
	ShipCountry    *string       `gorm:"column:shipcountry"`
	Customer       Customer      `gorm:"foreignKey:CustomerID;references:CustomerID"`
	Employee       Employee      `gorm:"foreignKey:EmployeeID;references:EmployeeID"`
	Details        []OrderDetail `gorm:"foreignKey:OrderID;references:OrderID"`
}

func (Order) TableName() string { return "orders" }

type OrderDetail struct {
	OrderID   int     `gorm:"column:orderid;primaryKey;autoIncrement:false"`
	ProductID int     `gorm:"column:productid;primaryKey;autoIncrement:false"`
	UnitPrice float64 `gorm:"column:unitprice"`
	Quantity  int     `gorm:"column:quantity"`
	Discount  float64 `gorm:"column:discount"`
	Product   Product `gorm:"foreignKey:ProductID;references:ProductID"`
}

func (OrderDetail) TableName() string { return "order_details" }

// All returns every model in migration order, parents before children.
func All() []any {
	return []any{
		&Category{}, &Supplier{}, &Shipper{},
		&Customer{}, &Employee{}, &Product{},
		&Order{}, &OrderDetail{},
	}
}
