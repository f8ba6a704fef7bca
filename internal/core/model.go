package core

import "github.com/shopspring/decimal"

// TableKind selects one of the three record collections.
type TableKind string

const (
	TableInvoices  TableKind = "invoices"
	TableProducts  TableKind = "products"
	TableCustomers TableKind = "customers"
)

// MissingValue is the display sentinel substituted for absent string fields.
const MissingValue = "-"

// InvoiceRecord is one extracted invoice line item. SerialNumber groups the
// line items of a single physical invoice; SourceFile ties the record to the
// upload that produced it.
type InvoiceRecord struct {
	ID           string          `json:"id"`
	SourceFile   string          `json:"sourceFile"`
	SerialNumber string          `json:"serialNumber"`
	CustomerName string          `json:"customerName"`
	ProductName  string          `json:"productName"`
	Quantity     decimal.Decimal `json:"quantity"`
	Tax          decimal.Decimal `json:"tax"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Date         string          `json:"date"`
	Discount     decimal.Decimal `json:"discount"`
}

// ProductRecord is one extracted product. Quantity is derived: it must equal
// the summed quantities of all invoice records sharing (Name, SourceFile).
type ProductRecord struct {
	ID           string          `json:"id"`
	SourceFile   string          `json:"sourceFile"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Tax          decimal.Decimal `json:"tax"`
	PriceWithTax decimal.Decimal `json:"priceWithTax"`
	Discount     decimal.Decimal `json:"discount"`
}

// CustomerRecord is one extracted customer. TotalPurchaseAmount is derived:
// it must equal the summed TotalAmount of all invoice records sharing
// CustomerName, across every source file.
type CustomerRecord struct {
	ID                  string          `json:"id"`
	SourceFile          string          `json:"sourceFile"`
	CustomerName        string          `json:"customerName"`
	PhoneNumber         string          `json:"phoneNumber"`
	TotalPurchaseAmount decimal.Decimal `json:"totalPurchaseAmount"`
}

// Batch is the set of records produced from one successful extraction of one
// uploaded file.
type Batch struct {
	Invoices  []InvoiceRecord  `json:"invoices"`
	Products  []ProductRecord  `json:"products"`
	Customers []CustomerRecord `json:"customers"`
}

// IsEmpty reports whether the batch holds no records of any kind.
func (b Batch) IsEmpty() bool {
	return len(b.Invoices) == 0 && len(b.Products) == 0 && len(b.Customers) == 0
}

// Counts holds per-collection record counts.
type Counts struct {
	Invoices  int `json:"invoices"`
	Products  int `json:"products"`
	Customers int `json:"customers"`
}

// Counts returns the per-collection sizes of the batch.
func (b Batch) Counts() Counts {
	return Counts{
		Invoices:  len(b.Invoices),
		Products:  len(b.Products),
		Customers: len(b.Customers),
	}
}

// Snapshot is a point-in-time copy of the store for read-only consumption by
// presentation layers.
type Snapshot struct {
	Invoices  []InvoiceRecord  `json:"invoices"`
	Products  []ProductRecord  `json:"products"`
	Customers []CustomerRecord `json:"customers"`
	IsLoading bool             `json:"isLoading"`
	LastError string           `json:"lastError,omitempty"`
}
