package wizard

import (
	"strings"

	"github.com/avzakharova/studio-bot/internal/session"
)

// Callback payload vocabulary. Payloads embed the step they were rendered
// for, so a press on a retracted screen identifies itself as stale.
const (
	payloadNextPrefix = "payment_next_"
	payloadBackPrefix = "payment_back_"

	PayloadPaid          = "payment_paid"
	PayloadCancelReceipt = "payment_cancel_receipt"
	PayloadMainMenu      = "back_to_main_menu"
)

func nextPayload(s session.Step) string {
	return payloadNextPrefix + s.String()
}

func backPayload(s session.Step) string {
	return payloadBackPrefix + s.String()
}

// IsWizardPayload reports whether data belongs to the payment wizard.
func IsWizardPayload(data string) bool {
	return strings.HasPrefix(data, "payment_")
}

type navKind int

const (
	navNone navKind = iota
	navNext
	navBack
	navPaid
	navCancel
)

// parsePayload decodes a callback payload into a navigation kind and the
// step the pressed button was rendered for. Unknown payloads and unknown
// step tokens come back as navNone.
func parsePayload(data string) (navKind, session.Step) {
	switch {
	case data == PayloadPaid:
		return navPaid, session.StepFour
	case data == PayloadCancelReceipt:
		return navCancel, session.StepAwaitingReceipt
	case strings.HasPrefix(data, payloadNextPrefix):
		if s, ok := session.ParseStep(strings.TrimPrefix(data, payloadNextPrefix)); ok {
			return navNext, s
		}
	case strings.HasPrefix(data, payloadBackPrefix):
		if s, ok := session.ParseStep(strings.TrimPrefix(data, payloadBackPrefix)); ok {
			return navBack, s
		}
	}
	return navNone, session.StepWelcome
}
