package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoice-agent/internal/core"

	"github.com/google/uuid"
)

// ErrNoData means the extraction itself succeeded but produced zero records
// of all three kinds. Callers surface it as "no data found", distinct from a
// parse failure.
var ErrNoData = errors.New("no data found in the file")

// Normalizer converts raw extraction results into uniformly shaped record
// batches. Given the same input and source file it always produces the same
// batch, except for the fresh record IDs.
type Normalizer struct {
	// NewID mints a record ID for the given kind. Overridable in tests;
	// defaults to kind-prefixed UUIDs.
	NewID func(kind string) string
	// Now supplies the default invoice date for spreadsheet rows without one.
	Now func() time.Time
}

// NewNormalizer returns a Normalizer with UUID record IDs.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		NewID: func(kind string) string { return kind + "-" + uuid.NewString() },
		Now:   time.Now,
	}
}

// FromRows builds a batch from spreadsheet rows. The first row is the
// header; every following non-empty row yields one invoice record and one
// product record. Customers are aggregated into a single record per source
// file: the purchase total sums over all rows, name and phone come from the
// first row that has them, and "-" stands in when nothing does.
func (n *Normalizer) FromRows(rows [][]string, sourceFile string) (core.Batch, error) {
	if len(rows) < 2 {
		return core.Batch{}, ErrNoData
	}
	header := rows[0]

	var batch core.Batch
	customer := core.CustomerRecord{
		ID:           n.NewID("customer"),
		SourceFile:   sourceFile,
		CustomerName: core.MissingValue,
		PhoneNumber:  core.MissingValue,
	}

	for _, cells := range rows[1:] {
		r := makeRow(header, cells)
		if r.empty() {
			continue
		}

		total := r.decimalField(totalAmountKeys)
		batch.Invoices = append(batch.Invoices, core.InvoiceRecord{
			ID:           n.NewID("invoice"),
			SourceFile:   sourceFile,
			SerialNumber: r.stringField(serialNumberKeys, ""),
			CustomerName: r.stringField(customerNameKeys, ""),
			ProductName:  r.stringField(productNameKeys, ""),
			Quantity:     r.decimalField(quantityKeys),
			Tax:          r.decimalField(taxKeys),
			TotalAmount:  total,
			Date:         r.stringField(dateKeys, n.Now().Format("2006-01-02")),
			Discount:     r.decimalField(discountKeys),
		})
		batch.Products = append(batch.Products, core.ProductRecord{
			ID:           n.NewID("product"),
			SourceFile:   sourceFile,
			Name:         r.stringField(productNameKeys, ""),
			Quantity:     r.decimalField(quantityKeys),
			UnitPrice:    r.decimalField(unitPriceKeys),
			Tax:          r.decimalField(taxKeys),
			PriceWithTax: r.decimalField(priceWithTaxKeys),
			Discount:     r.decimalField(discountKeys),
		})

		customer.TotalPurchaseAmount = customer.TotalPurchaseAmount.Add(total)
		if customer.CustomerName == core.MissingValue {
			if name := r.stringField(customerNameKeys, ""); name != "" {
				customer.CustomerName = name
			}
		}
		if customer.PhoneNumber == core.MissingValue {
			if phone := r.stringField(phoneNumberKeys, ""); phone != "" {
				customer.PhoneNumber = phone
			}
		}
	}

	if len(batch.Invoices) > 0 {
		batch.Customers = append(batch.Customers, customer)
	}
	if batch.IsEmpty() {
		return core.Batch{}, ErrNoData
	}
	return batch, nil
}

// modelPayload is the three-section object the document model returns.
// Records are decoded as loose maps because payloads arrive with either
// machine-cased keys or human labels; the candidate tables resolve both.
type modelPayload struct {
	Invoices  []map[string]any `json:"invoices"`
	Products  []map[string]any `json:"products"`
	Customers []map[string]any `json:"customers"`
}

// FromModelOutput builds a batch from the document model's response text.
// Markdown code fences around the JSON are tolerated. An all-empty payload
// yields ErrNoData.
func (n *Normalizer) FromModelOutput(text, sourceFile string) (core.Batch, error) {
	var payload modelPayload
	if err := json.Unmarshal([]byte(stripFences(text)), &payload); err != nil {
		return core.Batch{}, fmt.Errorf("decode model output: %w", err)
	}
	if len(payload.Invoices) == 0 && len(payload.Products) == 0 && len(payload.Customers) == 0 {
		return core.Batch{}, ErrNoData
	}

	var batch core.Batch
	for _, m := range payload.Invoices {
		batch.Invoices = append(batch.Invoices, core.InvoiceRecord{
			ID:           n.NewID("invoice"),
			SourceFile:   sourceFile,
			SerialNumber: stringValue(m, serialNumberKeys, ""),
			CustomerName: stringValue(m, customerNameKeys, ""),
			ProductName:  stringValue(m, productNameKeys, ""),
			Quantity:     decimalValue(m, quantityKeys),
			Tax:          decimalValue(m, taxKeys),
			TotalAmount:  decimalValue(m, totalAmountKeys),
			Date:         stringValue(m, dateKeys, ""),
			Discount:     decimalValue(m, discountKeys),
		})
	}
	for _, m := range payload.Products {
		batch.Products = append(batch.Products, core.ProductRecord{
			ID:           n.NewID("product"),
			SourceFile:   sourceFile,
			Name:         stringValue(m, productKeys, ""),
			Quantity:     decimalValue(m, quantityKeys),
			UnitPrice:    decimalValue(m, unitPriceKeys),
			Tax:          decimalValue(m, taxKeys),
			PriceWithTax: decimalValue(m, priceWithTaxKeys),
			Discount:     decimalValue(m, discountKeys),
		})
	}
	for _, m := range payload.Customers {
		batch.Customers = append(batch.Customers, core.CustomerRecord{
			ID:                  n.NewID("customer"),
			SourceFile:          sourceFile,
			CustomerName:        stringValue(m, customerNameKeys, ""),
			PhoneNumber:         stringValue(m, phoneNumberKeys, core.MissingValue),
			TotalPurchaseAmount: decimalValue(m, totalPurchaseKeys),
		})
	}
	return batch, nil
}

// stripFences removes a surrounding ```json ... ``` markdown block.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
