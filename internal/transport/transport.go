package transport

import "context"

// Button is one inline control; Data is an opaque payload that must
// round-trip exactly as emitted.
type Button struct {
	Label string
	Data  string
}

// Controls describes the interactive affordances attached to a message:
// either inline buttons under the message or a persistent reply menu.
type Controls struct {
	Inline [][]Button
	Menu   [][]string
}

// InlineRow is a convenience constructor for a row of inline buttons.
func InlineRow(buttons ...Button) [][]Button {
	return [][]Button{buttons}
}

// User identifies the submitter of an inbound update.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName is the human-facing name used in admin relays.
func (u User) DisplayName() string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}

type UpdateKind int

const (
	UpdateCommand UpdateKind = iota
	UpdateText
	UpdateCallback
	UpdatePhoto
)

// Update is one inbound event from the messaging platform.
type Update struct {
	Kind UpdateKind
	From User

	// Command without the leading slash, for UpdateCommand.
	Command string
	// Text body, for UpdateText.
	Text string
	// Callback payload, for UpdateCallback.
	Data string
	// MessageID is the id of the message the pressed button was attached
	// to, for UpdateCallback; 0 when the platform does not report it.
	MessageID int
	// PhotoID is the platform handle of the uploaded image, for UpdatePhoto.
	PhotoID string
}

// Messenger is the outbound side of the messaging platform. Implementations
// live outside this module; tests use fakes.
type Messenger interface {
	// Reply sends text with optional controls and returns the message id.
	Reply(ctx context.Context, chatID int64, text string, controls *Controls) (int, error)
	// SendPhoto sends an image by platform handle or local path.
	SendPhoto(ctx context.Context, chatID int64, photoRef, caption string, controls *Controls) (int, error)
	// DeleteMessage retracts a previously sent message.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// EditMessage rewrites an existing message in place.
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, controls *Controls) error
}

// UpdateSource is the inbound event stream. The channel closes when the
// underlying connection shuts down.
type UpdateSource interface {
	Updates() <-chan Update
}
