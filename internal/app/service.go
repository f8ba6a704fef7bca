package app

import (
	"context"
	"errors"

	"invoice-agent/internal/core"
)

// MaxUploadSize is the hard limit on uploaded file bytes, enforced before
// any processing begins.
const MaxUploadSize = 10 << 20 // 10 MB

// Error taxonomy for the upload boundary. Adapters map these to user-facing
// messages; the store itself never raises.
var (
	// ErrInputRejected: file missing, wrong type, or over the size limit.
	// Surfaced immediately, no extraction attempted, no store mutation.
	ErrInputRejected = errors.New("input rejected")

	// ErrBusy: an extraction is already in flight. Uploads are not queued.
	ErrBusy = errors.New("an extraction is already in progress")

	// ErrExtractionFailed: the collaborator could not parse the payload at
	// all. The store is left untouched apart from the surfaced error text.
	ErrExtractionFailed = errors.New("no data could be extracted from this file")
)

// UploadRequest is one file submitted for extraction.
type UploadRequest struct {
	Filename string
	MIMEType string
	Data     []byte
}

// UploadResult reports what a successful extraction appended.
type UploadResult struct {
	Added    core.Counts   `json:"added"`
	Snapshot core.Snapshot `json:"snapshot"`
}

// ApplicationService is the single interface all UI adapters (CLI, Web)
// call. It decouples presentation from business logic. Implementations must
// contain no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ProcessUpload validates the file, runs extraction, and appends the
	// resulting batch to the store. Exactly one extraction runs at a time;
	// a second upload while one is in flight fails with ErrBusy. On any
	// error the store's collections are left unchanged and the loading flag
	// is cleared.
	ProcessUpload(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// Records returns a snapshot of the three collections and the
	// loading/error flags.
	Records(ctx context.Context) (core.Snapshot, error)

	// EditRecord decodes the edited record for the given table kind and
	// applies the reconciliation edit. Edits referencing an unknown ID are
	// silent no-ops; only a malformed payload or unknown kind errors.
	EditRecord(ctx context.Context, kind core.TableKind, payload []byte) (core.Snapshot, error)

	// ClearData empties the store. Idempotent.
	ClearData(ctx context.Context) error
}
