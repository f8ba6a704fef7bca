package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"invoice-agent/internal/app"
	"invoice-agent/internal/core"
)

var extMIMETypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
	".csv":  "text/csv",
}

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "extract", "ex", "x":
		if len(args) < 2 {
			log.Fatal("Usage: app extract <file> [<file>...]")
		}
		snap := extractFiles(ctx, svc, args[1:])
		printSnapshot(snap)

	case "extract-json", "json":
		if len(args) < 2 {
			log.Fatal("Usage: app extract-json <file> [<file>...]")
		}
		snap := extractFiles(ctx, svc, args[1:])
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(snap)

	case "edit":
		if len(args) < 2 {
			log.Fatal("Usage: app edit <invoices|products|customers> < record.json")
		}
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read stdin: %v", err)
		}
		snap, err := svc.EditRecord(ctx, core.TableKind(args[1]), payload)
		if err != nil {
			log.Fatalf("Edit failed: %v", err)
		}
		printSnapshot(snap)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: extract, extract-json, edit", args[0])
	}
}

// extractFiles uploads each file in turn into the session store and returns
// the final snapshot.
func extractFiles(ctx context.Context, svc app.ApplicationService, paths []string) core.Snapshot {
	var snap core.Snapshot
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		res, err := svc.ProcessUpload(ctx, app.UploadRequest{
			Filename: filepath.Base(path),
			MIMEType: mimeFor(path, data),
			Data:     data,
		})
		if err != nil {
			log.Fatalf("Extraction failed for %s: %v", path, err)
		}
		fmt.Fprintf(os.Stderr, "%s: %d invoices, %d products, %d customers\n",
			filepath.Base(path), res.Added.Invoices, res.Added.Products, res.Added.Customers)
		snap = res.Snapshot
	}
	return snap
}

func mimeFor(path string, data []byte) string {
	if m, ok := extMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return http.DetectContentType(data)
}

func printSnapshot(snap core.Snapshot) {
	fmt.Println("\n--- INVOICES ---")
	fmt.Printf("%-12s %-20s %-20s %10s %12s %-12s\n", "SERIAL", "CUSTOMER", "PRODUCT", "QTY", "TOTAL", "DATE")
	fmt.Println(strings.Repeat("-", 92))
	for _, r := range snap.Invoices {
		fmt.Printf("%-12s %-20s %-20s %10s %12s %-12s\n",
			r.SerialNumber, r.CustomerName, r.ProductName,
			r.Quantity.String(), r.TotalAmount.StringFixed(2), r.Date)
	}

	fmt.Println("\n--- PRODUCTS ---")
	fmt.Printf("%-20s %10s %12s %8s %14s\n", "NAME", "QTY", "UNIT PRICE", "TAX", "PRICE W/ TAX")
	fmt.Println(strings.Repeat("-", 70))
	for _, p := range snap.Products {
		fmt.Printf("%-20s %10s %12s %8s %14s\n",
			p.Name, p.Quantity.String(), p.UnitPrice.StringFixed(2),
			p.Tax.String(), p.PriceWithTax.StringFixed(2))
	}

	fmt.Println("\n--- CUSTOMERS ---")
	fmt.Printf("%-20s %-16s %16s\n", "NAME", "PHONE", "TOTAL PURCHASES")
	fmt.Println(strings.Repeat("-", 56))
	for _, c := range snap.Customers {
		fmt.Printf("%-20s %-16s %16s\n",
			c.CustomerName, c.PhoneNumber, c.TotalPurchaseAmount.StringFixed(2))
	}
}
