package bot_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/avzakharova/studio-bot/internal"
	"github.com/avzakharova/studio-bot/internal/bot"
	"github.com/avzakharova/studio-bot/internal/content"
	ledgermodel "github.com/avzakharova/studio-bot/internal/core/datamodel/ledger"
	"github.com/avzakharova/studio-bot/internal/ledger"
	"github.com/avzakharova/studio-bot/internal/relay"
	"github.com/avzakharova/studio-bot/internal/schedule"
	"github.com/avzakharova/studio-bot/internal/session"
	"github.com/avzakharova/studio-bot/internal/transport"
	"github.com/avzakharova/studio-bot/internal/wizard"
)

func TestDispatcher(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dispatcher Suite")
}

type sentMessage struct {
	ChatID int64
	Text   string
	Photo  string
}

// FakeMessenger is safe for concurrent use since the dispatcher runs
// handlers in goroutines.
type FakeMessenger struct {
	mu       sync.Mutex
	nextID   int
	sent     []sentMessage
	edited   []sentMessage
	failEdit bool
}

func (f *FakeMessenger) Reply(_ context.Context, chatID int64, text string, _ *transport.Controls) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return f.nextID, nil
}

func (f *FakeMessenger) SendPhoto(_ context.Context, chatID int64, photoRef, _ string, _ *transport.Controls) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Photo: photoRef})
	return f.nextID, nil
}

func (f *FakeMessenger) DeleteMessage(_ context.Context, _ int64, _ int) error { return nil }

func (f *FakeMessenger) EditMessage(_ context.Context, chatID int64, _ int, text string, _ *transport.Controls) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEdit {
		return errors.New("edit rejected")
	}
	f.edited = append(f.edited, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *FakeMessenger) editsFor(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, m := range f.edited {
		if m.ChatID == chatID {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

func (f *FakeMessenger) textsFor(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, m := range f.sent {
		if m.ChatID == chatID && m.Text != "" {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// FakeLedger backs both the wizard and the relay in these tests.
type FakeLedger struct {
	mu      sync.Mutex
	nextID  int64
	pending map[int64]*ledgermodel.PendingPayment

	confirmed []int64
	rejected  []int64
}

func NewFakeLedger() *FakeLedger {
	return &FakeLedger{pending: make(map[int64]*ledgermodel.PendingPayment)}
}

func (f *FakeLedger) CreatePending(_ context.Context, dto ledger.SubmissionDTO) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.pending[f.nextID] = &ledgermodel.PendingPayment{
		ID: f.nextID, UserID: dto.UserID, Username: dto.Username,
		ProductID: dto.ProductID, ProductName: dto.ProductName, PhotoID: dto.PhotoID,
	}
	return f.nextID, nil
}

func (f *FakeLedger) GetPending(_ context.Context, pendingID int64) (*ledgermodel.PendingPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pending[pendingID]
	if !ok {
		return nil, internal.ErrPendingNotFound
	}
	return p, nil
}

func (f *FakeLedger) Confirm(_ context.Context, pendingID, _ int64) (*ledgermodel.ConfirmedSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pending[pendingID]
	if !ok {
		return nil, internal.ErrPendingNotFound
	}
	delete(f.pending, pendingID)
	f.confirmed = append(f.confirmed, pendingID)
	return &ledgermodel.ConfirmedSummary{
		ConfirmedID: pendingID, UserID: p.UserID,
		Username: p.Username, ProductName: p.ProductName,
	}, nil
}

func (f *FakeLedger) Reject(_ context.Context, pendingID, _ int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pending[pendingID]; !ok {
		return 0, nil
	}
	delete(f.pending, pendingID)
	f.rejected = append(f.rejected, pendingID)
	return 1, nil
}

func (f *FakeLedger) confirmedIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.confirmed...)
}

// ChanSource feeds a fixed update stream to the dispatcher.
type ChanSource struct {
	ch chan transport.Update
}

func NewChanSource() *ChanSource {
	return &ChanSource{ch: make(chan transport.Update, 16)}
}

func (s *ChanSource) Updates() <-chan transport.Update { return s.ch }

var _ = Describe("Dispatcher", func() {
	const adminChatID = int64(777)

	var (
		messenger  *FakeMessenger
		store      *FakeLedger
		dispatcher *bot.Dispatcher

		testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	)

	user := transport.User{ID: 42, Username: "anna", FirstName: "Анна"}
	admin := transport.User{ID: adminChatID, Username: "studio", FirstName: "Студия"}

	// run feeds each update through its own dispatcher cycle so the stream
	// is processed in order; Run waits for in-flight handlers before
	// returning.
	run := func(updates ...transport.Update) {
		for _, u := range updates {
			source := NewChanSource()
			source.ch <- u
			close(source.ch)
			dispatcher.Run(context.Background(), source)
		}
	}

	BeforeEach(func() {
		messenger = &FakeMessenger{}
		store = NewFakeLedger()

		adminRelay := relay.New(messenger, store, adminChatID, testLogger)
		engine := wizard.NewEngine(session.NewStore(), messenger, store, adminRelay,
			func(ctx context.Context, chatID int64) error {
				return bot.ShowMainMenu(ctx, messenger, chatID)
			}, testLogger)
		schedules := schedule.NewManager(
			filepath.Join(GinkgoT().TempDir(), "schedule.json"), time.Minute, testLogger)

		dispatcher = bot.NewDispatcher(messenger, engine, adminRelay, schedules, adminChatID, testLogger)
	})

	It("greets on /start and shows the menu", func() {
		run(transport.Update{Kind: transport.UpdateCommand, From: user, Command: "start"})

		texts := messenger.textsFor(user.ID)
		Expect(texts).To(ContainElement(ContainSubstring("Привет, Анна")))
		Expect(texts).To(ContainElement(ContainSubstring("Главное меню")))
	})

	It("falls back to the menu for unknown commands and stray text", func() {
		run(
			transport.Update{Kind: transport.UpdateCommand, From: user, Command: "frobnicate"},
			transport.Update{Kind: transport.UpdateText, From: user, Text: "привет"},
		)

		texts := messenger.textsFor(user.ID)
		Expect(texts).To(HaveLen(2))
		Expect(texts[0]).To(ContainSubstring("Главное меню"))
		Expect(texts[1]).To(ContainSubstring("Главное меню"))
	})

	It("opens catalog sections from menu labels", func() {
		run(transport.Update{Kind: transport.UpdateText, From: user, Text: content.MenuTrainings})

		Expect(messenger.textsFor(user.ID)).To(ContainElement(content.TrainingsText))
	})

	It("renders the schedule with the built-in default when no file exists", func() {
		run(transport.Update{Kind: transport.UpdateCommand, From: user, Command: "schedule"})

		Expect(messenger.textsFor(user.ID)).To(ContainElement(ContainSubstring("РАСПИСАНИЕ")))
	})

	It("rewrites the schedule message in place on refresh", func() {
		run(transport.Update{Kind: transport.UpdateCallback, From: user, Data: "refresh_schedule", MessageID: 7})

		Expect(messenger.editsFor(user.ID)).To(ContainElement(ContainSubstring("РАСПИСАНИЕ")))
		Expect(messenger.textsFor(user.ID)).To(BeEmpty())
	})

	It("sends a fresh schedule message when the callback carries no origin", func() {
		run(transport.Update{Kind: transport.UpdateCallback, From: user, Data: "refresh_schedule"})

		Expect(messenger.editsFor(user.ID)).To(BeEmpty())
		Expect(messenger.textsFor(user.ID)).To(ContainElement(ContainSubstring("РАСПИСАНИЕ")))
	})

	It("falls back to a fresh message when the edit is rejected", func() {
		messenger.failEdit = true

		run(transport.Update{Kind: transport.UpdateCallback, From: user, Data: "back_to_trainings_list", MessageID: 7})

		Expect(messenger.textsFor(user.ID)).To(ContainElement(content.TrainingsText))
	})

	It("shows today's classes from the schedule keyboard", func() {
		run(transport.Update{Kind: transport.UpdateCallback, From: user, Data: "schedule_today", MessageID: 7})

		Expect(messenger.editsFor(user.ID)).To(ContainElement(ContainSubstring("СЕГОДНЯ")))
	})

	It("shows a catalog item for its callback payload", func() {
		run(transport.Update{Kind: transport.UpdateCallback, From: user, Data: "btn_pilates"})

		Expect(messenger.textsFor(user.ID)).NotTo(BeEmpty())
	})

	It("carries a submission end to end: wizard, relay, admin decision", func() {
		run(
			transport.Update{Kind: transport.UpdateCommand, From: user, Command: "payment"},
			transport.Update{Kind: transport.UpdateCallback, From: user, Data: "payment_next_welcome"},
			transport.Update{Kind: transport.UpdateCallback, From: user, Data: "payment_next_step1"},
			transport.Update{Kind: transport.UpdateCallback, From: user, Data: "payment_next_step2"},
			transport.Update{Kind: transport.UpdateCallback, From: user, Data: "payment_next_step3"},
			transport.Update{Kind: transport.UpdateCallback, From: user, Data: "payment_paid"},
			transport.Update{Kind: transport.UpdatePhoto, From: user, PhotoID: "photo-abc"},
			transport.Update{Kind: transport.UpdateCallback, From: admin, Data: "admin_confirm_1"},
		)

		Expect(store.confirmedIDs()).To(Equal([]int64{1}))
		Expect(messenger.textsFor(user.ID)).To(ContainElement(ContainSubstring("платеж подтвержден")))
		Expect(messenger.textsFor(adminChatID)).To(ContainElement(ContainSubstring("подтвержден")))
	})

	It("ignores decision payloads from non-admin users", func() {
		_, err := store.CreatePending(context.Background(), ledger.SubmissionDTO{UserID: 42, ProductID: 1})
		Expect(err).NotTo(HaveOccurred())

		run(transport.Update{Kind: transport.UpdateCallback, From: user, Data: "admin_confirm_1"})

		Expect(store.confirmedIDs()).To(BeEmpty())
	})

	It("ignores malformed decision payloads", func() {
		run(transport.Update{Kind: transport.UpdateCallback, From: admin, Data: "admin_confirm_banana"})

		Expect(store.confirmedIDs()).To(BeEmpty())
		Expect(messenger.textsFor(adminChatID)).To(BeEmpty())
	})

	It("ignores photos outside the receipt flow", func() {
		run(transport.Update{Kind: transport.UpdatePhoto, From: user, PhotoID: "photo-abc"})

		Expect(store.confirmedIDs()).To(BeEmpty())
		Expect(messenger.textsFor(user.ID)).To(BeEmpty())
	})
})
