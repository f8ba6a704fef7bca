package app_test

import (
	"context"
	"errors"
	"testing"

	"invoice-agent/internal/app"
	"invoice-agent/internal/core"
	"invoice-agent/internal/extract"

	"github.com/shopspring/decimal"
)

type fakeExtractor struct {
	batch   core.Batch
	err     error
	calls   int
	started chan struct{}
	release chan struct{}
}

func (f *fakeExtractor) Extract(ctx context.Context, req extract.Request) (core.Batch, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.batch, f.err
}

func sampleBatch() core.Batch {
	return core.Batch{
		Invoices: []core.InvoiceRecord{{
			ID:           "invoice-1",
			SourceFile:   "orders.csv",
			SerialNumber: "INV-1",
			CustomerName: "Alice",
			ProductName:  "Widget",
			Quantity:     decimal.NewFromInt(5),
			TotalAmount:  decimal.NewFromInt(100),
		}},
		Products: []core.ProductRecord{{
			ID: "product-1", SourceFile: "orders.csv", Name: "Widget", Quantity: decimal.NewFromInt(5),
		}},
		Customers: []core.CustomerRecord{{
			ID: "customer-1", SourceFile: "orders.csv", CustomerName: "Alice",
			PhoneNumber: "-", TotalPurchaseAmount: decimal.NewFromInt(100),
		}},
	}
}

func upload() app.UploadRequest {
	return app.UploadRequest{Filename: "orders.csv", MIMEType: "text/csv", Data: []byte("x")}
}

func TestProcessUpload_AppendsBatch(t *testing.T) {
	fx := &fakeExtractor{batch: sampleBatch()}
	svc := app.NewAppService(core.NewStore(), fx)

	res, err := svc.ProcessUpload(context.Background(), upload())
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if res.Added.Invoices != 1 || res.Added.Products != 1 || res.Added.Customers != 1 {
		t.Errorf("added counts = %+v", res.Added)
	}
	if res.Snapshot.IsLoading {
		t.Error("loading flag still set after success")
	}

	snap, _ := svc.Records(context.Background())
	if len(snap.Invoices) != 1 {
		t.Errorf("store holds %d invoices, want 1", len(snap.Invoices))
	}
}

// Zero extracted records of all three kinds: nothing is appended, the error
// is surfaced, and the loading flag returns to false.
func TestProcessUpload_EmptyExtraction(t *testing.T) {
	fx := &fakeExtractor{err: extract.ErrNoData}
	svc := app.NewAppService(core.NewStore(), fx)

	_, err := svc.ProcessUpload(context.Background(), upload())
	if !errors.Is(err, extract.ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}

	snap, _ := svc.Records(context.Background())
	if len(snap.Invoices) != 0 || len(snap.Products) != 0 || len(snap.Customers) != 0 {
		t.Error("partial batch appended on empty extraction")
	}
	if snap.IsLoading {
		t.Error("loading flag stuck after empty extraction")
	}
	if snap.LastError == "" {
		t.Error("no error surfaced for empty extraction")
	}
}

func TestProcessUpload_CollaboratorFailure(t *testing.T) {
	fx := &fakeExtractor{err: errors.New("malformed response")}
	svc := app.NewAppService(core.NewStore(), fx)

	_, err := svc.ProcessUpload(context.Background(), upload())
	if !errors.Is(err, app.ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}

	snap, _ := svc.Records(context.Background())
	if len(snap.Invoices) != 0 {
		t.Error("store mutated on extraction failure")
	}
	if snap.IsLoading {
		t.Error("loading flag stuck after failure")
	}
}

func TestProcessUpload_InputRejection(t *testing.T) {
	tests := []struct {
		name string
		req  app.UploadRequest
	}{
		{"missing file", app.UploadRequest{Filename: "orders.csv"}},
		{"missing name", app.UploadRequest{Data: []byte("x")}},
		{"oversized", app.UploadRequest{Filename: "orders.csv", MIMEType: "text/csv", Data: make([]byte, app.MaxUploadSize+1)}},
		{"wrong type", app.UploadRequest{Filename: "notes.docx", MIMEType: "application/msword", Data: []byte("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := &fakeExtractor{batch: sampleBatch()}
			svc := app.NewAppService(core.NewStore(), fx)

			_, err := svc.ProcessUpload(context.Background(), tt.req)
			if !errors.Is(err, app.ErrInputRejected) {
				t.Fatalf("err = %v, want ErrInputRejected", err)
			}
			if fx.calls != 0 {
				t.Error("extraction attempted for rejected input")
			}
		})
	}
}

func TestProcessUpload_RejectsConcurrentExtraction(t *testing.T) {
	fx := &fakeExtractor{
		batch:   sampleBatch(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	svc := app.NewAppService(core.NewStore(), fx)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ProcessUpload(context.Background(), upload())
		done <- err
	}()
	<-fx.started

	_, err := svc.ProcessUpload(context.Background(), upload())
	if !errors.Is(err, app.ErrBusy) {
		t.Errorf("second upload err = %v, want ErrBusy", err)
	}

	close(fx.release)
	if err := <-done; err != nil {
		t.Fatalf("first upload: %v", err)
	}
	if fx.calls != 1 {
		t.Errorf("extractor called %d times, want 1", fx.calls)
	}
}

func TestEditRecord_AppliesReconciliation(t *testing.T) {
	fx := &fakeExtractor{batch: sampleBatch()}
	svc := app.NewAppService(core.NewStore(), fx)
	if _, err := svc.ProcessUpload(context.Background(), upload()); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	payload := []byte(`{
		"id": "invoice-1", "sourceFile": "orders.csv", "serialNumber": "INV-1",
		"customerName": "Alice", "productName": "Gadget",
		"quantity": "5", "totalAmount": "100"
	}`)
	snap, err := svc.EditRecord(context.Background(), core.TableInvoices, payload)
	if err != nil {
		t.Fatalf("EditRecord: %v", err)
	}
	if snap.Products[0].Name != "Gadget" {
		t.Errorf("product name = %q, want Gadget", snap.Products[0].Name)
	}
	if !snap.Products[0].Quantity.Equal(decimal.NewFromInt(5)) {
		t.Errorf("product quantity = %s, want 5", snap.Products[0].Quantity)
	}
}

func TestEditRecord_BadInput(t *testing.T) {
	svc := app.NewAppService(core.NewStore(), &fakeExtractor{})

	if _, err := svc.EditRecord(context.Background(), core.TableInvoices, []byte("{")); !errors.Is(err, app.ErrInputRejected) {
		t.Errorf("malformed payload err = %v, want ErrInputRejected", err)
	}
	if _, err := svc.EditRecord(context.Background(), core.TableKind("ledgers"), []byte("{}")); !errors.Is(err, app.ErrInputRejected) {
		t.Errorf("unknown kind err = %v, want ErrInputRejected", err)
	}
}

func TestClearData(t *testing.T) {
	fx := &fakeExtractor{batch: sampleBatch()}
	svc := app.NewAppService(core.NewStore(), fx)
	if _, err := svc.ProcessUpload(context.Background(), upload()); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	if err := svc.ClearData(context.Background()); err != nil {
		t.Fatalf("ClearData: %v", err)
	}
	snap, _ := svc.Records(context.Background())
	if len(snap.Invoices) != 0 || len(snap.Products) != 0 || len(snap.Customers) != 0 || snap.IsLoading {
		t.Errorf("store not empty after clear: %+v", snap)
	}
}
