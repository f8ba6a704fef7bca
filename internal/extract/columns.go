package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Upstream data is loosely labeled: a field can arrive under a human column
// header or a machine-cased key depending on whether it came from a
// spreadsheet or the document model. Each field therefore has an ordered
// candidate list, tried first to last, with a typed default when nothing
// matches. Matching is case-insensitive on trimmed keys.
var (
	serialNumberKeys  = []string{"Serial Number", "Invoice Number", "serialNumber"}
	customerNameKeys  = []string{"Customer Name", "customerName"}
	productNameKeys   = []string{"Product Name", "productName"}
	productKeys       = []string{"Name", "name", "Product Name", "productName"}
	quantityKeys      = []string{"Quantity", "quantity"}
	taxKeys           = []string{"Tax", "tax"}
	totalAmountKeys   = []string{"Total Amount", "totalAmount"}
	dateKeys          = []string{"Date", "date"}
	discountKeys      = []string{"Discount", "discount"}
	unitPriceKeys     = []string{"Unit Price", "unitPrice"}
	priceWithTaxKeys  = []string{"Price with Tax", "priceWithTax"}
	phoneNumberKeys   = []string{"Phone Number", "phoneNumber"}
	totalPurchaseKeys = []string{"Total Purchase Amount", "totalPurchaseAmount"}
)

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// row is one spreadsheet data row keyed by normalized header cell.
type row map[string]string

// makeRow zips a header row with a data row. Cells beyond the header width
// are dropped; short rows simply leave fields absent.
func makeRow(header, cells []string) row {
	r := make(row, len(header))
	for i, h := range header {
		key := normalizeKey(h)
		if key == "" || i >= len(cells) {
			continue
		}
		if _, dup := r[key]; dup {
			continue
		}
		r[key] = strings.TrimSpace(cells[i])
	}
	return r
}

func (r row) empty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}

func (r row) stringField(candidates []string, def string) string {
	for _, c := range candidates {
		if v, ok := r[normalizeKey(c)]; ok && v != "" {
			return v
		}
	}
	return def
}

func (r row) decimalField(candidates []string) decimal.Decimal {
	for _, c := range candidates {
		v, ok := r[normalizeKey(c)]
		if !ok || v == "" {
			continue
		}
		if d, err := decimal.NewFromString(cleanNumber(v)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// stringValue resolves a string field from a decoded JSON object, trying the
// candidate keys in order. JSON keys are matched case-insensitively.
func stringValue(m map[string]any, candidates []string, def string) string {
	for _, c := range candidates {
		if v, ok := lookupAny(m, c); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return def
}

// decimalValue resolves a numeric field from a decoded JSON object. The model
// usually returns plain numbers, but strings with currency noise show up in
// loosely formatted payloads and are tolerated.
func decimalValue(m map[string]any, candidates []string) decimal.Decimal {
	for _, c := range candidates {
		v, ok := lookupAny(m, c)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return decimal.NewFromFloat(n)
		case string:
			if d, err := decimal.NewFromString(cleanNumber(n)); err == nil {
				return d
			}
		}
	}
	return decimal.Zero
}

func lookupAny(m map[string]any, key string) (any, bool) {
	want := normalizeKey(key)
	for k, v := range m {
		if normalizeKey(k) == want {
			return v, true
		}
	}
	return nil, false
}

// cleanNumber strips currency symbols and thousands separators so that
// "$1,234.50" parses as a decimal.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimLeft(s, "$€£₹ ")
	s = strings.TrimSuffix(s, "%")
	return strings.TrimSpace(s)
}
