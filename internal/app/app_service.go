package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"invoice-agent/internal/core"
	"invoice-agent/internal/extract"
)

var allowedExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

var allowedMIMETypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"text/csv":        true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel":                                          true,
}

// AllowedUploadType reports whether the upload is one of the accepted
// formats, by extension or by declared MIME type.
func AllowedUploadType(filename, mimeType string) bool {
	if allowedExts[strings.ToLower(filepath.Ext(filename))] {
		return true
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return allowedMIMETypes[strings.ToLower(strings.TrimSpace(mimeType))]
}

type appService struct {
	store     *core.Store
	extractor extract.Service
}

// NewAppService wires the reconciliation store and the extraction
// collaborator into the application facade.
func NewAppService(store *core.Store, extractor extract.Service) ApplicationService {
	return &appService{store: store, extractor: extractor}
}

func (s *appService) ProcessUpload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if req.Filename == "" || len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: no file provided", ErrInputRejected)
	}
	if int64(len(req.Data)) > MaxUploadSize {
		return nil, fmt.Errorf("%w: file size too large, maximum size is %d MB", ErrInputRejected, MaxUploadSize>>20)
	}
	if !AllowedUploadType(req.Filename, req.MIMEType) {
		return nil, fmt.Errorf("%w: unsupported file type; accepted: pdf, jpg, jpeg, png, xlsx, xls, csv", ErrInputRejected)
	}

	if !s.store.BeginLoading() {
		return nil, ErrBusy
	}

	batch, err := s.extractor.Extract(ctx, extract.Request{
		Filename: req.Filename,
		MIMEType: req.MIMEType,
		Data:     req.Data,
	})
	if err != nil {
		// Classify before recording so the surfaced message is user-facing.
		if errors.Is(err, extract.ErrNoData) {
			s.store.FinishLoading(extract.ErrNoData)
			return nil, extract.ErrNoData
		}
		failed := fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		s.store.FinishLoading(failed)
		return nil, failed
	}

	s.store.AppendBatch(batch)
	s.store.FinishLoading(nil)

	return &UploadResult{
		Added:    batch.Counts(),
		Snapshot: s.store.Snapshot(),
	}, nil
}

func (s *appService) Records(ctx context.Context) (core.Snapshot, error) {
	return s.store.Snapshot(), nil
}

func (s *appService) EditRecord(ctx context.Context, kind core.TableKind, payload []byte) (core.Snapshot, error) {
	switch kind {
	case core.TableInvoices:
		var rec core.InvoiceRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return core.Snapshot{}, fmt.Errorf("%w: invalid invoice payload: %v", ErrInputRejected, err)
		}
		s.store.EditInvoice(rec)
	case core.TableProducts:
		var rec core.ProductRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return core.Snapshot{}, fmt.Errorf("%w: invalid product payload: %v", ErrInputRejected, err)
		}
		s.store.EditProduct(rec)
	case core.TableCustomers:
		var rec core.CustomerRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return core.Snapshot{}, fmt.Errorf("%w: invalid customer payload: %v", ErrInputRejected, err)
		}
		s.store.EditCustomer(rec)
	default:
		return core.Snapshot{}, fmt.Errorf("%w: unknown table kind %q", ErrInputRejected, kind)
	}
	return s.store.Snapshot(), nil
}

func (s *appService) ClearData(ctx context.Context) error {
	s.store.Clear()
	return nil
}
