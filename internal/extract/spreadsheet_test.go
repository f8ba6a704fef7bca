package extract

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestIsSpreadsheet(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"orders.csv", true},
		{"orders.XLSX", true},
		{"legacy.xls", true},
		{"scan.pdf", false},
		{"photo.jpeg", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSpreadsheet(tt.name); got != tt.want {
			t.Errorf("IsSpreadsheet(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseRows_CSV(t *testing.T) {
	data := []byte("Product Name,Quantity,Total Amount\nWidget,3,300\nGear,1,50\n")
	rows, err := ParseRows("orders.csv", data)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if rows[1][0] != "Widget" || rows[2][2] != "50" {
		t.Errorf("rows decoded wrong: %v", rows)
	}
}

func TestParseRows_CSV_RaggedRows(t *testing.T) {
	data := []byte("a,b,c\n1,2\n1,2,3,4\n")
	rows, err := ParseRows("ragged.csv", data)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d rows, want 3 (ragged rows tolerated)", len(rows))
	}
}

func TestParseRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]any{"Product Name", "Quantity"})
	_ = f.SetSheetRow(sheet, "A2", &[]any{"Widget", 3})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("build workbook: %v", err)
	}

	rows, err := ParseRows("orders.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][0] != "Product Name" || rows[1][0] != "Widget" {
		t.Errorf("rows decoded wrong: %v", rows)
	}
}

func TestParseRows_UnsupportedExtension(t *testing.T) {
	if _, err := ParseRows("scan.pdf", []byte("x")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestParseRows_CorruptXLSX(t *testing.T) {
	if _, err := ParseRows("broken.xlsx", []byte("this is not a zip archive")); err == nil {
		t.Error("expected error for corrupt workbook")
	}
}
