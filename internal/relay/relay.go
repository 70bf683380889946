// Package relay forwards submitted receipts to the administrator chat and
// applies the administrator's confirm/reject decisions to the ledger.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avzakharova/studio-bot/internal"
	ledgermodel "github.com/avzakharova/studio-bot/internal/core/datamodel/ledger"
	"github.com/avzakharova/studio-bot/internal/transport"
)

// Decision payload vocabulary rendered under every forwarded receipt.
const (
	ConfirmPrefix = "admin_confirm_"
	RejectPrefix  = "admin_reject_"
)

// LedgerAPI is the decision side of the payment ledger.
type LedgerAPI interface {
	GetPending(ctx context.Context, pendingID int64) (*ledgermodel.PendingPayment, error)
	Confirm(ctx context.Context, pendingID, adminID int64) (*ledgermodel.ConfirmedSummary, error)
	Reject(ctx context.Context, pendingID, adminID int64) (int64, error)
}

type Relay struct {
	messenger   transport.Messenger
	ledger      LedgerAPI
	adminChatID int64
	logger      *slog.Logger
	now         func() time.Time
}

func New(messenger transport.Messenger, ledger LedgerAPI, adminChatID int64, logger *slog.Logger) *Relay {
	return &Relay{
		messenger:   messenger,
		ledger:      ledger,
		adminChatID: adminChatID,
		logger:      logger,
		now:         time.Now,
	}
}

// Forward sends the receipt image plus a submitter summary to the admin
// chat, with inline confirm/reject controls referencing the pending id.
// Fire-and-forget beyond the immediate success signal: it never waits for
// the decision.
func (r *Relay) Forward(ctx context.Context, pendingID int64, photoID string, from transport.User) error {
	username := from.Username
	if username == "" {
		username = "не указан"
	}
	caption := fmt.Sprintf(
		"📥 Новый чек от пользователя:\nИмя: %s\nUsername: @%s\nID: %d\nВремя: %s",
		from.DisplayName(), username, from.ID, r.now().Format("02.01.2006 15:04:05"))

	controls := &transport.Controls{
		Inline: transport.InlineRow(
			transport.Button{Label: "✅ Подтвердить", Data: fmt.Sprintf("%s%d", ConfirmPrefix, pendingID)},
			transport.Button{Label: "❌ Отклонить", Data: fmt.Sprintf("%s%d", RejectPrefix, pendingID)},
		),
	}

	if _, err := r.messenger.SendPhoto(ctx, r.adminChatID, photoID, caption, controls); err != nil {
		return internal.NewRelayError("failed to forward receipt to admin", err)
	}

	r.logger.Info("receipt forwarded to admin",
		"pending_id", pendingID, "user_id", from.ID, "admin_chat_id", r.adminChatID)
	return nil
}

// HandleDecision applies an admin confirm or reject. The ledger mutation
// commits first; submitter notifications afterwards are best-effort and are
// only logged on failure. A not-found pending id is a benign race (the other
// decision won) and is acknowledged without an error.
func (r *Relay) HandleDecision(ctx context.Context, adminID, pendingID int64, approve bool) error {
	if approve {
		return r.confirm(ctx, adminID, pendingID)
	}
	return r.reject(ctx, adminID, pendingID)
}

func (r *Relay) confirm(ctx context.Context, adminID, pendingID int64) error {
	summary, err := r.ledger.Confirm(ctx, pendingID, adminID)
	if err != nil {
		if internal.IsNotFound(err) {
			r.logger.Info("confirm on already-handled pending payment",
				"pending_id", pendingID, "admin_id", adminID)
			r.ackAdmin(ctx, fmt.Sprintf("Заявка #%d уже обработана.", pendingID))
			return nil
		}
		return err
	}

	r.notify(ctx, summary.UserID, fmt.Sprintf(
		"✅ Ваш платеж подтвержден!\n\nАбонемент «%s» активен 30 дней. Хороших тренировок!",
		summary.ProductName))
	r.ackAdmin(ctx, fmt.Sprintf("✅ Платеж #%d подтвержден (пользователь %d).", pendingID, summary.UserID))
	return nil
}

func (r *Relay) reject(ctx context.Context, adminID, pendingID int64) error {
	pendingUser, hasUser := r.lookupSubmitter(ctx, pendingID)

	removed, err := r.ledger.Reject(ctx, pendingID, adminID)
	if err != nil {
		return err
	}
	if removed == 0 {
		r.logger.Info("reject on already-handled pending payment",
			"pending_id", pendingID, "admin_id", adminID)
		r.ackAdmin(ctx, fmt.Sprintf("Заявка #%d уже обработана.", pendingID))
		return nil
	}

	if hasUser {
		r.notify(ctx, pendingUser, "❌ Ваш платеж не прошел проверку.\n\n"+
			"Проверьте чек и попробуйте отправить его снова через раздел «Информация об оплате», "+
			"или свяжитесь с администратором.")
	}
	r.ackAdmin(ctx, fmt.Sprintf("❌ Платеж #%d отклонен.", pendingID))
	return nil
}

// lookupSubmitter resolves the submitter before the pending row disappears.
func (r *Relay) lookupSubmitter(ctx context.Context, pendingID int64) (int64, bool) {
	pending, err := r.ledger.GetPending(ctx, pendingID)
	if err != nil {
		return 0, false
	}
	return pending.UserID, true
}

func (r *Relay) notify(ctx context.Context, userID int64, text string) {
	if _, err := r.messenger.Reply(ctx, userID, text, nil); err != nil {
		r.logger.Error("failed to notify submitter", "error", err, "user_id", userID)
	}
}

func (r *Relay) ackAdmin(ctx context.Context, text string) {
	if _, err := r.messenger.Reply(ctx, r.adminChatID, text, nil); err != nil {
		r.logger.Error("failed to acknowledge admin", "error", err)
	}
}
