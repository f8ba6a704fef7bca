package extract

import (
	"context"
	"fmt"

	"invoice-agent/internal/core"
)

// Request is one uploaded file handed to the extraction collaborator.
type Request struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Service converts an uploaded file into a normalized record batch. It
// returns ErrNoData when parsing succeeded but nothing was extracted; any
// other error means the payload could not be parsed at all.
type Service interface {
	Extract(ctx context.Context, req Request) (core.Batch, error)
}

// DocumentModel produces the raw three-section JSON text for a PDF or image.
type DocumentModel interface {
	ExtractDocument(ctx context.Context, mimeType string, data []byte) (string, error)
}

// Extractor dispatches by file type: spreadsheets are decoded locally, PDFs
// and images go to the document model. Either way the result is normalized
// into a core.Batch tagged with the upload's filename.
type Extractor struct {
	model DocumentModel
	norm  *Normalizer
}

// NewExtractor wires an Extractor around the given document model.
func NewExtractor(model DocumentModel) *Extractor {
	return &Extractor{model: model, norm: NewNormalizer()}
}

func (e *Extractor) Extract(ctx context.Context, req Request) (core.Batch, error) {
	if IsSpreadsheet(req.Filename) {
		rows, err := ParseRows(req.Filename, req.Data)
		if err != nil {
			return core.Batch{}, fmt.Errorf("parse spreadsheet: %w", err)
		}
		return e.norm.FromRows(rows, req.Filename)
	}

	text, err := e.model.ExtractDocument(ctx, req.MIMEType, req.Data)
	if err != nil {
		return core.Batch{}, fmt.Errorf("document model: %w", err)
	}
	return e.norm.FromModelOutput(text, req.Filename)
}
