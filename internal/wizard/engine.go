package wizard

import (
	"context"
	"log/slog"

	"github.com/avzakharova/studio-bot/internal/content"
	"github.com/avzakharova/studio-bot/internal/ledger"
	"github.com/avzakharova/studio-bot/internal/session"
	"github.com/avzakharova/studio-bot/internal/transport"
)

// LedgerAPI is the slice of the payment ledger the wizard needs.
type LedgerAPI interface {
	CreatePending(ctx context.Context, dto ledger.SubmissionDTO) (int64, error)
}

// RelayAPI forwards a submitted receipt to the administrator.
type RelayAPI interface {
	Forward(ctx context.Context, pendingID int64, photoID string, from transport.User) error
}

// Engine drives the multi-step payment wizard for every user. All entry
// points assume the caller already serialized events per user id.
type Engine struct {
	sessions  *session.Store
	messenger transport.Messenger
	ledger    LedgerAPI
	relay     RelayAPI
	product   content.Product
	// showMenu renders the idle main menu; owned by the dispatcher.
	showMenu func(ctx context.Context, chatID int64) error
	logger   *slog.Logger
}

func NewEngine(
	sessions *session.Store,
	messenger transport.Messenger,
	ledgerAPI LedgerAPI,
	relay RelayAPI,
	showMenu func(ctx context.Context, chatID int64) error,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		sessions:  sessions,
		messenger: messenger,
		ledger:    ledgerAPI,
		relay:     relay,
		product:   content.DefaultProduct,
		showMenu:  showMenu,
		logger:    logger,
	}
}

// Start enters the wizard at the welcome screen. Any previous session for
// the user is superseded.
func (e *Engine) Start(ctx context.Context, user transport.User) error {
	return e.showStep(ctx, user, session.StepWelcome)
}

// Exit retracts outstanding wizard messages and drops the session. Used by
// the dispatcher when the user jumps back to the main menu.
func (e *Engine) Exit(ctx context.Context, user transport.User) {
	e.retractMessages(ctx, user.ID)
	e.sessions.Clear(user.ID)
}

// HandleButton processes a wizard callback payload. Returns false when the
// payload does not belong to the wizard.
func (e *Engine) HandleButton(ctx context.Context, user transport.User, data string) (bool, error) {
	if !IsWizardPayload(data) {
		return false, nil
	}

	kind, fromStep := parsePayload(data)
	switch kind {
	case navNext:
		return true, e.navigate(ctx, user, fromStep, fromStep.Next())
	case navBack:
		if fromStep == session.FirstInstructional {
			// leaving the wizard entirely
			e.Exit(ctx, user)
			return true, e.showMenu(ctx, user.ID)
		}
		return true, e.navigate(ctx, user, fromStep, fromStep.Prev())
	case navPaid:
		return true, e.enterAwaitingReceipt(ctx, user)
	case navCancel:
		e.Exit(ctx, user)
		return true, e.showMenu(ctx, user.ID)
	default:
		e.logger.Warn("unknown wizard payload ignored", "user_id", user.ID, "data", data)
		return true, nil
	}
}

// HandleText intercepts plain text while a receipt image is expected: text
// cannot satisfy the receipt requirement and must not fall through to the
// idle menu handler. Returns false when the wizard has no claim on the text.
func (e *Engine) HandleText(ctx context.Context, user transport.User) (bool, error) {
	sess := e.sessions.Get(user.ID)
	if sess == nil || !sess.AwaitingReceipt {
		return false, nil
	}
	_, err := e.messenger.Reply(ctx, user.ID, sendImageInsteadText, nil)
	return true, err
}

// HandleImage is the submission event: record the claim, relay the receipt
// to the administrator, acknowledge, and close the session. On relay failure
// the session stays intact so the user can resubmit.
func (e *Engine) HandleImage(ctx context.Context, user transport.User, photoID string) (bool, error) {
	sess := e.sessions.Get(user.ID)
	if sess == nil || !sess.AwaitingReceipt {
		return false, nil
	}

	pendingID, err := e.ledger.CreatePending(ctx, ledger.SubmissionDTO{
		UserID:      user.ID,
		Username:    user.Username,
		ProductID:   e.product.ID,
		ProductName: e.product.Name,
		PhotoID:     photoID,
	})
	if err != nil {
		e.logger.Error("receipt submission failed at ledger",
			"error", err, "user_id", user.ID, "step", sess.Step.String())
		_, replyErr := e.messenger.Reply(ctx, user.ID, storageFailedText, nil)
		return true, replyErr
	}

	if err := e.relay.Forward(ctx, pendingID, photoID, user); err != nil {
		e.logger.Error("receipt submission failed at relay",
			"error", err, "user_id", user.ID, "pending_id", pendingID)
		_, replyErr := e.messenger.Reply(ctx, user.ID, relayFailedText, nil)
		return true, replyErr
	}

	if _, err := e.messenger.Reply(ctx, user.ID, receiptReceivedText, nil); err != nil {
		e.logger.Error("failed to acknowledge receipt", "error", err, "user_id", user.ID)
	}
	e.sessions.Clear(user.ID)
	return true, nil
}

// navigate validates that the pressed button belongs to the current screen
// before moving. A press from a retracted screen is a no-op.
func (e *Engine) navigate(ctx context.Context, user transport.User, fromStep, toStep session.Step) error {
	sess := e.sessions.Get(user.ID)
	if sess == nil || sess.Step != fromStep {
		e.logger.Debug("stale wizard navigation ignored",
			"user_id", user.ID, "button_step", fromStep.String())
		return nil
	}
	return e.showStep(ctx, user, toStep.Clamp())
}

func (e *Engine) showStep(ctx context.Context, user transport.User, step session.Step) error {
	data, ok := stepContent[step]
	if !ok {
		e.logger.Error("no content for wizard step", "step", step.String())
		return nil
	}

	e.retractMessages(ctx, user.ID)
	e.sessions.Set(user.ID, &session.Session{Step: step})

	// media first, degrading to a text notice so the instruction text below
	// always goes out
	for _, photo := range data.Photos {
		msgID, err := e.messenger.SendPhoto(ctx, user.ID, photo, "", nil)
		if err != nil {
			e.logger.Warn("wizard step photo failed",
				"error", err, "user_id", user.ID, "step", step.String(), "photo", photo)
			if msgID, err = e.messenger.Reply(ctx, user.ID, content.PhotoFallbackText, nil); err != nil {
				continue
			}
		}
		e.sessions.AppendMessageID(user.ID, msgID)
	}

	var controls *transport.Controls
	switch {
	case step == session.StepWelcome:
		controls = welcomeKeyboard()
	case step == session.LastInstructional:
		controls = finalStepKeyboard()
	default:
		controls = stepKeyboard(step)
	}

	msgID, err := e.messenger.Reply(ctx, user.ID, data.Title+"\n\n"+data.Description, controls)
	if err != nil {
		return err
	}
	e.sessions.AppendMessageID(user.ID, msgID)
	return nil
}

func (e *Engine) enterAwaitingReceipt(ctx context.Context, user transport.User) error {
	e.retractMessages(ctx, user.ID)
	e.sessions.Set(user.ID, &session.Session{
		Step:            session.StepAwaitingReceipt,
		AwaitingReceipt: true,
	})

	msgID, err := e.messenger.Reply(ctx, user.ID, waitingForReceiptText, waitingKeyboard())
	if err != nil {
		return err
	}
	e.sessions.AppendMessageID(user.ID, msgID)
	return nil
}

// retractMessages best-effort deletes the previous screen's messages so
// stale instructions do not pile up in the conversation.
func (e *Engine) retractMessages(ctx context.Context, userID int64) {
	sess := e.sessions.Get(userID)
	if sess == nil {
		return
	}
	for _, msgID := range sess.MessageIDs {
		if err := e.messenger.DeleteMessage(ctx, userID, msgID); err != nil {
			e.logger.Debug("failed to delete wizard message",
				"error", err, "user_id", userID, "message_id", msgID)
		}
	}
	sess.MessageIDs = nil
}
