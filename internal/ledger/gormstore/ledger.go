// Package gormstore implements the ledger repository on GORM, backed by
// sqlite in the default deployment and postgres for shared installs.
package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/avzakharova/studio-bot/internal"
	ledgermodel "github.com/avzakharova/studio-bot/internal/core/datamodel/ledger"
	"github.com/avzakharova/studio-bot/internal/ledger"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) ledger.Repository {
	return &LedgerRepository{db: db}
}

// AutoMigrate creates the two ledger tables. Used by the sqlite deployment;
// postgres installs run goose migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ledgermodel.PendingPayment{}, &ledgermodel.ConfirmedPayment{})
}

func (r *LedgerRepository) CreatePending(ctx context.Context, p *ledgermodel.PendingPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *LedgerRepository) GetPending(ctx context.Context, id int64) (*ledgermodel.PendingPayment, error) {
	var p ledgermodel.PendingPayment
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPendingNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *LedgerRepository) ListPending(ctx context.Context) ([]*ledgermodel.PendingPayment, error) {
	var records []*ledgermodel.PendingPayment
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// Confirm moves one pending record into the confirmed table inside a single
// transaction. The delete acts as a compare-and-delete: whichever of two
// racing decisions deletes the row wins, the other observes zero rows and
// reports not-found instead of double-processing.
func (r *LedgerRepository) Confirm(ctx context.Context, pendingID, adminID int64, now time.Time) (*ledgermodel.ConfirmedPayment, error) {
	var confirmed *ledgermodel.ConfirmedPayment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending ledgermodel.PendingPayment
		if err := tx.First(&pending, pendingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrPendingNotFound
			}
			return err
		}

		res := tx.Delete(&ledgermodel.PendingPayment{}, pendingID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrPendingNotFound
		}

		confirmed = &ledgermodel.ConfirmedPayment{
			UserID:      pending.UserID,
			Username:    pending.Username,
			ProductID:   pending.ProductID,
			ProductName: pending.ProductName,
			PhotoID:     pending.PhotoID,
			ConfirmedBy: &adminID,
			ConfirmedAt: &now,
			CreatedAt:   now,
		}
		return tx.Create(confirmed).Error
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

func (r *LedgerRepository) DeletePending(ctx context.Context, pendingID int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&ledgermodel.PendingPayment{}, pendingID)
	return res.RowsAffected, res.Error
}

func (r *LedgerRepository) CreateConfirmed(ctx context.Context, c *ledgermodel.ConfirmedPayment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *LedgerRepository) ListConfirmed(ctx context.Context, limit int) ([]*ledgermodel.ConfirmedPayment, error) {
	var records []*ledgermodel.ConfirmedPayment
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *LedgerRepository) ListConfirmedForUser(ctx context.Context, userID int64, limit int) ([]*ledgermodel.ConfirmedPayment, error) {
	var records []*ledgermodel.ConfirmedPayment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// CountActiveForUser counts confirmed payments whose validity window is
// still open: the window starts at confirmed_at, or created_at for records
// written without a pending stage.
func (r *LedgerRepository) CountActiveForUser(ctx context.Context, userID int64, activeSince time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ledgermodel.ConfirmedPayment{}).
		Where("user_id = ?", userID).
		Where("COALESCE(confirmed_at, created_at) > ?", activeSince).
		Count(&count).Error
	return count, err
}

func (r *LedgerRepository) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&ledgermodel.PendingPayment{})
	return res.RowsAffected, res.Error
}
