package extract

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRowLookup_CandidatePriority(t *testing.T) {
	// Both variants present: the earlier candidate wins.
	r := makeRow(
		[]string{"Serial Number", "Invoice Number"},
		[]string{"S-1", "I-1"},
	)
	if got := r.stringField(serialNumberKeys, ""); got != "S-1" {
		t.Errorf("got %q, want the first candidate's value S-1", got)
	}

	// First candidate absent: fall through in order.
	r = makeRow([]string{"Invoice Number"}, []string{"I-2"})
	if got := r.stringField(serialNumberKeys, ""); got != "I-2" {
		t.Errorf("got %q, want I-2", got)
	}
}

func TestRowLookup_CaseInsensitiveHeaders(t *testing.T) {
	r := makeRow([]string{"  CUSTOMER NAME  ", "qUaNtItY"}, []string{"Alice", "7"})
	if got := r.stringField(customerNameKeys, "-"); got != "Alice" {
		t.Errorf("customer = %q, want Alice", got)
	}
	if got := r.decimalField(quantityKeys); !got.Equal(decimal.NewFromInt(7)) {
		t.Errorf("quantity = %s, want 7", got)
	}
}

func TestRowLookup_TypedDefaults(t *testing.T) {
	r := makeRow([]string{"Unrelated"}, []string{"x"})
	if got := r.stringField(phoneNumberKeys, "-"); got != "-" {
		t.Errorf("phone default = %q, want -", got)
	}
	if got := r.decimalField(totalAmountKeys); !got.IsZero() {
		t.Errorf("amount default = %s, want 0", got)
	}
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234", "1234"},
		{" 1,234.50 ", "1234.50"},
		{"$1,200.00", "1200.00"},
		{"₹500", "500"},
		{"18%", "18"},
	}
	for _, tt := range tests {
		if got := cleanNumber(tt.in); got != tt.want {
			t.Errorf("cleanNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecimalValue_AnyTypes(t *testing.T) {
	m := map[string]any{
		"quantity":    float64(3),
		"totalAmount": "$250.75",
		"tax":         "not a number",
	}
	if got := decimalValue(m, quantityKeys); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("quantity = %s, want 3", got)
	}
	if got := decimalValue(m, totalAmountKeys); !got.Equal(decimal.RequireFromString("250.75")) {
		t.Errorf("totalAmount = %s, want 250.75", got)
	}
	if got := decimalValue(m, taxKeys); !got.IsZero() {
		t.Errorf("tax = %s, want 0 for unparseable value", got)
	}
}
