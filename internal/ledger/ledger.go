package ledger

import (
	"context"
	"time"

	ledgermodel "github.com/avzakharova/studio-bot/internal/core/datamodel/ledger"
)

// Repository is the durable two-table store behind the service. Confirm must
// be implemented as a single storage transaction so that a concurrent reject
// or second confirm of the same id observes not-found instead of
// double-processing.
type Repository interface {
	CreatePending(ctx context.Context, p *ledgermodel.PendingPayment) error
	GetPending(ctx context.Context, id int64) (*ledgermodel.PendingPayment, error)
	ListPending(ctx context.Context) ([]*ledgermodel.PendingPayment, error)
	// Confirm atomically moves the pending record into the confirmed table,
	// stamping adminID and now. Returns ErrPendingNotFound when the record
	// is absent or was removed concurrently.
	Confirm(ctx context.Context, pendingID, adminID int64, now time.Time) (*ledgermodel.ConfirmedPayment, error)
	// DeletePending removes the record and reports how many rows went away.
	DeletePending(ctx context.Context, pendingID int64) (int64, error)
	CreateConfirmed(ctx context.Context, c *ledgermodel.ConfirmedPayment) error
	ListConfirmed(ctx context.Context, limit int) ([]*ledgermodel.ConfirmedPayment, error)
	ListConfirmedForUser(ctx context.Context, userID int64, limit int) ([]*ledgermodel.ConfirmedPayment, error)
	CountActiveForUser(ctx context.Context, userID int64, activeSince time.Time) (int64, error)
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

// SubmissionDTO carries everything needed to open a pending payment.
type SubmissionDTO struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	PhotoID     string `json:"photo_id"`
}
