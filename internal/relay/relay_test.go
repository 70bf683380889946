package relay_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/avzakharova/studio-bot/internal"
	ledgermodel "github.com/avzakharova/studio-bot/internal/core/datamodel/ledger"
	"github.com/avzakharova/studio-bot/internal/relay"
	"github.com/avzakharova/studio-bot/internal/transport"
)

func TestRelay(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Relay Suite")
}

type sentMessage struct {
	ChatID  int64
	Text    string
	Photo   string
	Caption string
}

// FakeMessenger records outgoing traffic per chat.
type FakeMessenger struct {
	nextID    int
	sent      []sentMessage
	failPhoto bool
	failReply map[int64]bool
}

func (f *FakeMessenger) Reply(_ context.Context, chatID int64, text string, _ *transport.Controls) (int, error) {
	if f.failReply[chatID] {
		return 0, errors.New("chat unreachable")
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return f.nextID, nil
}

func (f *FakeMessenger) SendPhoto(_ context.Context, chatID int64, photoRef, caption string, _ *transport.Controls) (int, error) {
	if f.failPhoto {
		return 0, errors.New("chat unreachable")
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Photo: photoRef, Caption: caption})
	return f.nextID, nil
}

func (f *FakeMessenger) DeleteMessage(_ context.Context, _ int64, _ int) error { return nil }

func (f *FakeMessenger) EditMessage(_ context.Context, _ int64, _ int, _ string, _ *transport.Controls) error {
	return nil
}

func (f *FakeMessenger) textsFor(chatID int64) []string {
	var texts []string
	for _, m := range f.sent {
		if m.ChatID == chatID && m.Text != "" {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// FakeLedger implements relay.LedgerAPI with a single decidable record.
type FakeLedger struct {
	pending   map[int64]*ledgermodel.PendingPayment
	confirmed []int64
	rejected  []int64
}

func NewFakeLedger() *FakeLedger {
	return &FakeLedger{pending: make(map[int64]*ledgermodel.PendingPayment)}
}

func (f *FakeLedger) GetPending(_ context.Context, pendingID int64) (*ledgermodel.PendingPayment, error) {
	p, ok := f.pending[pendingID]
	if !ok {
		return nil, internal.ErrPendingNotFound
	}
	return p, nil
}

func (f *FakeLedger) Confirm(_ context.Context, pendingID, _ int64) (*ledgermodel.ConfirmedSummary, error) {
	p, ok := f.pending[pendingID]
	if !ok {
		return nil, internal.ErrPendingNotFound
	}
	delete(f.pending, pendingID)
	f.confirmed = append(f.confirmed, pendingID)
	return &ledgermodel.ConfirmedSummary{
		ConfirmedID: pendingID,
		UserID:      p.UserID,
		Username:    p.Username,
		ProductName: p.ProductName,
	}, nil
}

func (f *FakeLedger) Reject(_ context.Context, pendingID, _ int64) (int64, error) {
	if _, ok := f.pending[pendingID]; !ok {
		return 0, nil
	}
	delete(f.pending, pendingID)
	f.rejected = append(f.rejected, pendingID)
	return 1, nil
}

var _ = Describe("Relay", func() {
	const (
		adminChatID = int64(777)
		userChatID  = int64(42)
	)

	var (
		messenger *FakeMessenger
		store     *FakeLedger
		r         *relay.Relay
		ctx       context.Context

		testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	)

	user := transport.User{ID: userChatID, Username: "anna", FirstName: "Анна"}

	BeforeEach(func() {
		messenger = &FakeMessenger{failReply: make(map[int64]bool)}
		store = NewFakeLedger()
		r = relay.New(messenger, store, adminChatID, testLogger)
		ctx = context.Background()

		store.pending[1] = &ledgermodel.PendingPayment{
			ID: 1, UserID: userChatID, Username: "anna",
			ProductID: 1, ProductName: "Абонемент на месяц", PhotoID: "photo-abc",
		}
	})

	Describe("Forward", func() {
		It("sends the receipt with submitter details to the admin chat", func() {
			Expect(r.Forward(ctx, 1, "photo-abc", user)).To(Succeed())

			Expect(messenger.sent).To(HaveLen(1))
			Expect(messenger.sent[0].ChatID).To(Equal(adminChatID))
			Expect(messenger.sent[0].Photo).To(Equal("photo-abc"))
			Expect(messenger.sent[0].Caption).To(ContainSubstring("@anna"))
			Expect(messenger.sent[0].Caption).To(ContainSubstring("ID: 42"))
		})

		It("surfaces a relay error when the admin chat is unreachable", func() {
			messenger.failPhoto = true

			err := r.Forward(ctx, 1, "photo-abc", user)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeRelay))
		})

		It("notes a missing username instead of failing", func() {
			Expect(r.Forward(ctx, 1, "photo-abc", transport.User{ID: userChatID, FirstName: "Анна"})).To(Succeed())
			Expect(messenger.sent[0].Caption).To(ContainSubstring("не указан"))
		})
	})

	Describe("confirm decision", func() {
		It("commits the ledger then notifies submitter and admin", func() {
			Expect(r.HandleDecision(ctx, 99, 1, true)).To(Succeed())

			Expect(store.confirmed).To(Equal([]int64{1}))
			Expect(messenger.textsFor(userChatID)).To(ContainElement(ContainSubstring("платеж подтвержден")))
			Expect(messenger.textsFor(adminChatID)).To(ContainElement(ContainSubstring("подтвержден")))
		})

		It("treats an already-decided id as a benign race", func() {
			Expect(r.HandleDecision(ctx, 99, 1, false)).To(Succeed())

			Expect(r.HandleDecision(ctx, 99, 1, true)).To(Succeed())
			Expect(store.confirmed).To(BeEmpty())
			Expect(messenger.textsFor(adminChatID)).To(ContainElement(ContainSubstring("уже обработана")))
		})

		It("does not fail the decision when the submitter cannot be notified", func() {
			messenger.failReply[userChatID] = true

			Expect(r.HandleDecision(ctx, 99, 1, true)).To(Succeed())
			Expect(store.confirmed).To(Equal([]int64{1}))
			Expect(messenger.textsFor(adminChatID)).NotTo(BeEmpty())
		})
	})

	Describe("reject decision", func() {
		It("removes the record and notifies the submitter", func() {
			Expect(r.HandleDecision(ctx, 99, 1, false)).To(Succeed())

			Expect(store.rejected).To(Equal([]int64{1}))
			Expect(messenger.textsFor(userChatID)).To(ContainElement(ContainSubstring("не прошел проверку")))
			Expect(messenger.textsFor(adminChatID)).To(ContainElement(ContainSubstring("отклонен")))
		})

		It("acks neutrally when the record is already gone", func() {
			Expect(r.HandleDecision(ctx, 99, 1, true)).To(Succeed())
			messenger.sent = nil

			Expect(r.HandleDecision(ctx, 99, 1, false)).To(Succeed())
			Expect(store.rejected).To(BeEmpty())
			Expect(messenger.textsFor(adminChatID)).To(ContainElement(ContainSubstring("уже обработана")))
			Expect(messenger.textsFor(userChatID)).To(BeEmpty())
		})
	})
})
