package ledger

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/avzakharova/studio-bot/internal"
	ledgermodel "github.com/avzakharova/studio-bot/internal/core/datamodel/ledger"
	"github.com/avzakharova/studio-bot/internal/core/events"
)

const defaultListLimit = 50

// Service implements the payment ledger on top of Repository. Ledger
// mutations commit first; notifications ride the event bus afterwards and
// never roll a mutation back.
type Service struct {
	repo     Repository
	bus      *events.EventBus
	logger   *slog.Logger
	now      func() time.Time
	maxAge   time.Duration
	sweeping atomic.Bool
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger, pendingMaxAge time.Duration) *Service {
	if pendingMaxAge <= 0 {
		pendingMaxAge = 7 * 24 * time.Hour
	}
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
		now:    time.Now,
		maxAge: pendingMaxAge,
	}
}

// CreatePending records an unconfirmed claim of payment. Durable before
// returning; a storage failure surfaces so the caller can tell the user to
// retry.
func (s *Service) CreatePending(ctx context.Context, dto SubmissionDTO) (int64, error) {
	pending := &ledgermodel.PendingPayment{
		UserID:      dto.UserID,
		Username:    dto.Username,
		ProductID:   dto.ProductID,
		ProductName: dto.ProductName,
		PhotoID:     dto.PhotoID,
		CreatedAt:   s.now(),
	}

	if err := s.repo.CreatePending(ctx, pending); err != nil {
		s.logger.Error("failed to create pending payment",
			"error", err, "user_id", dto.UserID, "product_id", dto.ProductID)
		return 0, internal.NewStorageError("failed to record pending payment", err)
	}

	s.logger.Info("pending payment created",
		"pending_id", pending.ID, "user_id", dto.UserID, "product", dto.ProductName)

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewPaymentSubmittedEvent(
			pending.ID, dto.UserID, dto.Username, dto.ProductName))
	}
	return pending.ID, nil
}

func (s *Service) GetPending(ctx context.Context, pendingID int64) (*ledgermodel.PendingPayment, error) {
	pending, err := s.repo.GetPending(ctx, pendingID)
	if err != nil {
		if internal.IsNotFound(err) {
			return nil, err
		}
		return nil, internal.NewStorageError("failed to load pending payment", err)
	}
	return pending, nil
}

// ListPending returns all pending payments, newest first.
func (s *Service) ListPending(ctx context.Context) ([]*ledgermodel.PendingPayment, error) {
	records, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, internal.NewStorageError("failed to list pending payments", err)
	}
	return records, nil
}

// Confirm atomically promotes a pending payment to the confirmed table. A
// concurrent reject or duplicate confirm of the same id gets
// ErrPendingNotFound, which callers treat as an already-handled race.
func (s *Service) Confirm(ctx context.Context, pendingID, adminID int64) (*ledgermodel.ConfirmedSummary, error) {
	confirmed, err := s.repo.Confirm(ctx, pendingID, adminID, s.now())
	if err != nil {
		if !internal.IsNotFound(err) {
			s.logger.Error("failed to confirm payment",
				"error", err, "pending_id", pendingID, "admin_id", adminID)
		}
		return nil, err
	}

	s.logger.Info("payment confirmed",
		"confirmed_id", confirmed.ID, "pending_id", pendingID,
		"user_id", confirmed.UserID, "admin_id", adminID)

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewPaymentConfirmedEvent(
			confirmed.ID, pendingID, confirmed.UserID, adminID, confirmed.ProductName))
	}

	return &ledgermodel.ConfirmedSummary{
		ConfirmedID: confirmed.ID,
		UserID:      confirmed.UserID,
		Username:    confirmed.Username,
		ProductName: confirmed.ProductName,
	}, nil
}

// Reject deletes the pending record. Idempotent: rejecting an already-gone
// record returns 0 without error.
func (s *Service) Reject(ctx context.Context, pendingID, adminID int64) (int64, error) {
	removed, err := s.repo.DeletePending(ctx, pendingID)
	if err != nil {
		s.logger.Error("failed to reject payment",
			"error", err, "pending_id", pendingID, "admin_id", adminID)
		return 0, internal.NewStorageError("failed to reject pending payment", err)
	}

	s.logger.Info("payment rejected",
		"pending_id", pendingID, "admin_id", adminID, "removed", removed)

	if removed > 0 && s.bus != nil {
		s.bus.Publish(ctx, events.NewPaymentRejectedEvent(pendingID, adminID))
	}
	return removed, nil
}

// CreateConfirmedDirect records a payment that never went through the
// pending stage, e.g. one taken in cash at the studio.
func (s *Service) CreateConfirmedDirect(ctx context.Context, dto SubmissionDTO, adminID int64) (int64, error) {
	now := s.now()
	confirmed := &ledgermodel.ConfirmedPayment{
		UserID:      dto.UserID,
		Username:    dto.Username,
		ProductID:   dto.ProductID,
		ProductName: dto.ProductName,
		PhotoID:     dto.PhotoID,
		ConfirmedBy: &adminID,
		ConfirmedAt: &now,
		CreatedAt:   now,
	}
	if err := s.repo.CreateConfirmed(ctx, confirmed); err != nil {
		s.logger.Error("failed to create confirmed payment",
			"error", err, "user_id", dto.UserID, "admin_id", adminID)
		return 0, internal.NewStorageError("failed to record confirmed payment", err)
	}

	s.logger.Info("payment recorded directly",
		"confirmed_id", confirmed.ID, "user_id", dto.UserID, "admin_id", adminID)
	return confirmed.ID, nil
}

// ListConfirmed returns confirmed payments annotated with their computed
// validity window and status.
func (s *Service) ListConfirmed(ctx context.Context, limit int) ([]*ledgermodel.ConfirmedPayment, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	records, err := s.repo.ListConfirmed(ctx, limit)
	if err != nil {
		return nil, internal.NewStorageError("failed to list confirmed payments", err)
	}
	s.annotate(records)
	return records, nil
}

func (s *Service) ListConfirmedForUser(ctx context.Context, userID int64, limit int) ([]*ledgermodel.ConfirmedPayment, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	records, err := s.repo.ListConfirmedForUser(ctx, userID, limit)
	if err != nil {
		return nil, internal.NewStorageError("failed to list user payments", err)
	}
	s.annotate(records)
	return records, nil
}

// CountActiveForUser counts the user's confirmed payments whose validity
// window has not elapsed.
func (s *Service) CountActiveForUser(ctx context.Context, userID int64) (int64, error) {
	activeSince := s.now().Add(-ledgermodel.ValidityWindow)
	count, err := s.repo.CountActiveForUser(ctx, userID, activeSince)
	if err != nil {
		return 0, internal.NewStorageError("failed to count active payments", err)
	}
	return count, nil
}

// SweepStalePending deletes pending records older than the retention window.
// Confirmed records are never touched. Re-entrant calls are skipped: a sweep
// already in flight makes a second one pointless.
func (s *Service) SweepStalePending(ctx context.Context) (int64, error) {
	if !s.sweeping.CompareAndSwap(false, true) {
		s.logger.Debug("retention sweep already in flight, skipping")
		return 0, nil
	}
	defer s.sweeping.Store(false)

	cutoff := s.now().Add(-s.maxAge)
	removed, err := s.repo.DeleteStalePending(ctx, cutoff)
	if err != nil {
		s.logger.Error("retention sweep failed", "error", err)
		return 0, internal.NewStorageError("retention sweep failed", err)
	}
	if removed > 0 {
		s.logger.Info("retention sweep removed stale pending payments",
			"removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

func (s *Service) annotate(records []*ledgermodel.ConfirmedPayment) {
	now := s.now()
	for _, r := range records {
		r.ComputeValidity(now)
	}
}
