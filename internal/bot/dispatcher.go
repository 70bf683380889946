// Package bot maps inbound transport updates to the wizard, the admin relay
// and the static content catalogs.
package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avzakharova/studio-bot/internal"
	"github.com/avzakharova/studio-bot/internal/content"
	"github.com/avzakharova/studio-bot/internal/relay"
	"github.com/avzakharova/studio-bot/internal/schedule"
	"github.com/avzakharova/studio-bot/internal/session"
	"github.com/avzakharova/studio-bot/internal/transport"
	"github.com/avzakharova/studio-bot/internal/wizard"
)

// Dispatcher consumes the inbound update stream. Each update runs in its own
// goroutine, serialized per user id by a keyed mutex so that two events for
// the same user never interleave while different users stay concurrent.
type Dispatcher struct {
	messenger   transport.Messenger
	engine      *wizard.Engine
	relay       *relay.Relay
	schedules   *schedule.Manager
	locks       *session.KeyedMutex
	adminChatID int64
	logger      *slog.Logger
}

func NewDispatcher(
	messenger transport.Messenger,
	engine *wizard.Engine,
	adminRelay *relay.Relay,
	schedules *schedule.Manager,
	adminChatID int64,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		messenger:   messenger,
		engine:      engine,
		relay:       adminRelay,
		schedules:   schedules,
		locks:       session.NewKeyedMutex(),
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// Run processes updates until the source closes or ctx is cancelled.
// It returns after all in-flight handlers finish.
func (d *Dispatcher) Run(ctx context.Context, source transport.UpdateSource) {
	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case update, ok := <-source.Updates():
			if !ok {
				wg.Wait()
				return
			}
			wg.Add(1)
			go func(u transport.Update) {
				defer wg.Done()
				d.dispatch(ctx, u)
			}(update)
		}
	}
}

// updateTimeout bounds a single update so one stuck handler cannot hold a
// user's lock forever.
const updateTimeout = 30 * time.Second

func (d *Dispatcher) dispatch(ctx context.Context, update transport.Update) {
	userID := update.From.ID
	d.locks.Lock(userID)
	defer d.locks.Unlock(userID)

	ctx, cancel := internal.WithTimeout(internal.ContextWithUserID(ctx, userID), updateTimeout)
	defer cancel()

	var err error
	switch update.Kind {
	case transport.UpdateCommand:
		err = d.handleCommand(ctx, update)
	case transport.UpdateText:
		err = d.handleText(ctx, update)
	case transport.UpdateCallback:
		err = d.handleCallback(ctx, update)
	case transport.UpdatePhoto:
		err = d.handlePhoto(ctx, update)
	}
	if err != nil {
		d.logger.Error("update handling failed",
			"error", err, "user_id", userID, "kind", update.Kind)
		if _, replyErr := d.messenger.Reply(ctx, userID, content.GenericErrorText, nil); replyErr != nil {
			d.logger.Error("failed to send error reply", "error", replyErr, "user_id", userID)
		}
	}
}

// HandleCommand processes a slash command for the given user.
func (d *Dispatcher) handleCommand(ctx context.Context, update transport.Update) error {
	user := update.From
	switch update.Command {
	case "start":
		if _, err := d.messenger.Reply(ctx, user.ID, content.WelcomeText(user.FirstName), nil); err != nil {
			return err
		}
		return d.showMainMenu(ctx, user.ID)
	case "menu":
		return d.showMainMenu(ctx, user.ID)
	case "help":
		_, err := d.messenger.Reply(ctx, user.ID, content.HelpText, nil)
		return err
	case "trainings":
		_, err := d.messenger.Reply(ctx, user.ID, content.TrainingsText, trainingsKeyboard())
		return err
	case "special_trainings":
		_, err := d.messenger.Reply(ctx, user.ID, content.SpecialText, specialKeyboard())
		return err
	case "payment":
		return d.engine.Start(ctx, user)
	case "trainers":
		_, err := d.messenger.Reply(ctx, user.ID, content.TrainersText, trainersKeyboard())
		return err
	case "schedule":
		return d.showSchedule(ctx, user.ID)
	case "questions":
		_, err := d.messenger.Reply(ctx, user.ID, content.FAQText, nil)
		return err
	default:
		return d.showMainMenu(ctx, user.ID)
	}
}

func (d *Dispatcher) handleText(ctx context.Context, update transport.Update) error {
	user := update.From

	// the wizard intercepts text while it expects a receipt image
	if handled, err := d.engine.HandleText(ctx, user); handled {
		return err
	}

	switch update.Text {
	case content.MenuTrainings:
		_, err := d.messenger.Reply(ctx, user.ID, content.TrainingsText, trainingsKeyboard())
		return err
	case content.MenuSpecial:
		_, err := d.messenger.Reply(ctx, user.ID, content.SpecialText, specialKeyboard())
		return err
	case content.MenuPayment:
		return d.engine.Start(ctx, user)
	case content.MenuTrainers:
		_, err := d.messenger.Reply(ctx, user.ID, content.TrainersText, trainersKeyboard())
		return err
	case content.MenuSchedule:
		return d.showSchedule(ctx, user.ID)
	case content.MenuFAQ:
		_, err := d.messenger.Reply(ctx, user.ID, content.FAQText, nil)
		return err
	default:
		return d.showMainMenu(ctx, user.ID)
	}
}

func (d *Dispatcher) handlePhoto(ctx context.Context, update transport.Update) error {
	handled, err := d.engine.HandleImage(ctx, update.From, update.PhotoID)
	if !handled {
		d.logger.Debug("photo outside receipt flow ignored", "user_id", update.From.ID)
	}
	return err
}

func (d *Dispatcher) handleCallback(ctx context.Context, update transport.Update) error {
	user := update.From
	data := update.Data

	if handled, err := d.engine.HandleButton(ctx, user, data); handled {
		return err
	}

	switch {
	case strings.HasPrefix(data, relay.ConfirmPrefix), strings.HasPrefix(data, relay.RejectPrefix):
		return d.handleAdminDecision(ctx, user, data)
	case data == payloadMainMenu:
		d.engine.Exit(ctx, user)
		return d.showMainMenu(ctx, user.ID)
	case data == payloadRefreshSchedule:
		doc := d.schedules.Get(ctx)
		return d.renderInPlace(ctx, user.ID, update.MessageID, schedule.Format(doc), scheduleKeyboard())
	case data == payloadScheduleToday:
		entries := d.schedules.TodayEntries(ctx)
		return d.renderInPlace(ctx, user.ID, update.MessageID, schedule.FormatToday(entries), scheduleKeyboard())
	case data == payloadBackTrainings:
		return d.renderInPlace(ctx, user.ID, update.MessageID, content.TrainingsText, trainingsKeyboard())
	case data == payloadBackSpecial:
		return d.renderInPlace(ctx, user.ID, update.MessageID, content.SpecialText, specialKeyboard())
	case data == payloadBackTrainers:
		return d.renderInPlace(ctx, user.ID, update.MessageID, content.TrainersText, trainersKeyboard())
	case data == payloadBooking:
		_, err := d.messenger.Reply(ctx, user.ID, content.BookingContactText, nil)
		return err
	case strings.HasPrefix(data, payloadSpecialPrefix):
		return d.showItem(ctx, user.ID, content.SpecialPrograms,
			strings.TrimPrefix(data, payloadSpecialPrefix), specialDetailsKeyboard())
	case strings.HasPrefix(data, payloadTrainerPrefix):
		return d.showItem(ctx, user.ID, content.Trainers,
			strings.TrimPrefix(data, payloadTrainerPrefix), detailsKeyboard(payloadBackTrainers))
	case strings.HasPrefix(data, payloadTrainingPrefix):
		return d.showItem(ctx, user.ID, content.Trainings,
			strings.TrimPrefix(data, payloadTrainingPrefix), detailsKeyboard(payloadBackTrainings))
	default:
		d.logger.Warn("unknown callback payload ignored", "user_id", user.ID, "data", data)
		return nil
	}
}

// handleAdminDecision applies a confirm/reject button pressed under a
// forwarded receipt. Only the configured admin chat may decide.
func (d *Dispatcher) handleAdminDecision(ctx context.Context, user transport.User, data string) error {
	if user.ID != d.adminChatID {
		d.logger.Warn("decision payload from non-admin ignored", "user_id", user.ID)
		return nil
	}

	approve := strings.HasPrefix(data, relay.ConfirmPrefix)
	raw := strings.TrimPrefix(strings.TrimPrefix(data, relay.ConfirmPrefix), relay.RejectPrefix)
	pendingID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		d.logger.Warn("malformed decision payload ignored", "data", data)
		return nil
	}
	return d.relay.HandleDecision(ctx, user.ID, pendingID, approve)
}

// showItem renders a catalog entry: text first so the reply is fast, photo
// after, degrading silently if the photo cannot be sent.
func (d *Dispatcher) showItem(ctx context.Context, chatID int64, catalog content.Catalog, key string, controls *transport.Controls) error {
	item, ok := catalog.Get(key)
	if !ok {
		_, err := d.messenger.Reply(ctx, chatID, content.NotAvailableText, nil)
		return err
	}

	if _, err := d.messenger.Reply(ctx, chatID, item.Description, controls); err != nil {
		return err
	}
	if item.Photo != "" {
		if _, err := d.messenger.SendPhoto(ctx, chatID, item.Photo, item.Title, nil); err != nil {
			d.logger.Warn("catalog photo failed", "error", err, "key", key)
		}
	}
	return nil
}

func (d *Dispatcher) showSchedule(ctx context.Context, chatID int64) error {
	doc := d.schedules.Get(ctx)
	_, err := d.messenger.Reply(ctx, chatID, schedule.Format(doc), scheduleKeyboard())
	return err
}

// renderInPlace rewrites the message the pressed button hangs under, so list
// navigation and schedule refreshes do not pile up screens. Falls back to a
// fresh message when the origin is unknown or the edit fails.
func (d *Dispatcher) renderInPlace(ctx context.Context, chatID int64, messageID int, text string, controls *transport.Controls) error {
	if messageID > 0 {
		err := d.messenger.EditMessage(ctx, chatID, messageID, text, controls)
		if err == nil {
			return nil
		}
		d.logger.Debug("message edit failed, sending a new one",
			"error", err, "chat_id", chatID, "message_id", messageID)
	}
	_, err := d.messenger.Reply(ctx, chatID, text, controls)
	return err
}

func (d *Dispatcher) showMainMenu(ctx context.Context, chatID int64) error {
	return ShowMainMenu(ctx, d.messenger, chatID)
}

// ShowMainMenu renders the idle main menu. Shared with the wizard engine,
// which lands users here when they leave the flow.
func ShowMainMenu(ctx context.Context, messenger transport.Messenger, chatID int64) error {
	_, err := messenger.Reply(ctx, chatID, content.MainMenuText, mainMenuControls())
	return err
}
