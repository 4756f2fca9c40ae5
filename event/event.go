// Package event routes receipt mutation events to the invalidation manager,
// giving the upload/delete/edit workflows a single entry point.
package event

import (
	"context"

	"github.com/apex/log"
)

// Type identifies a receipt mutation.
type Type string

const (
	ReceiptUploaded  Type = "receipt_uploaded"
	ReceiptsDeleted  Type = "receipts_deleted"
	ReceiptsModified Type = "receipts_modified"
)

// Event is one receipt mutation. ReceiptIDs is empty for uploads; deletions
// and modifications carry the affected ids.
type Event struct {
	Type       Type
	UserID     string
	ReceiptIDs []string
}

// Invalidator is the slice of the manager the dispatcher calls into.
type Invalidator interface {
	InvalidateOnReceiptUpload(ctx context.Context, userID string)
	InvalidateOnReceiptDeletion(ctx context.Context, receiptIDs []string, userID string)
	InvalidateOnReceiptModification(ctx context.Context, receiptIDs []string, userID string)
}

type Dispatcher struct {
	inv Invalidator
}

func NewDispatcher(inv Invalidator) *Dispatcher {
	return &Dispatcher{inv: inv}
}

// Dispatch routes one event. Unknown types are logged and dropped; a workflow
// emitting a type this build does not know must not break the workflow.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	switch ev.Type {
	case ReceiptUploaded:
		d.inv.InvalidateOnReceiptUpload(ctx, ev.UserID)
	case ReceiptsDeleted:
		d.inv.InvalidateOnReceiptDeletion(ctx, ev.ReceiptIDs, ev.UserID)
	case ReceiptsModified:
		d.inv.InvalidateOnReceiptModification(ctx, ev.ReceiptIDs, ev.UserID)
	default:
		log.Warnf("dropping event with unknown type %q", ev.Type)
	}
}
