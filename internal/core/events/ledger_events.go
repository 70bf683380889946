package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePaymentSubmitted = "payment.submitted"
	EventTypePaymentConfirmed = "payment.confirmed"
	EventTypePaymentRejected  = "payment.rejected"
)

type PaymentSubmittedEvent struct {
	BaseEvent
	PendingID   int64  `json:"pending_id"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	ProductName string `json:"product_name"`
}

func NewPaymentSubmittedEvent(pendingID, userID int64, username, productName string) *PaymentSubmittedEvent {
	return &PaymentSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"pending_id":   pendingID,
				"user_id":      userID,
				"username":     username,
				"product_name": productName,
			},
		},
		PendingID:   pendingID,
		UserID:      userID,
		Username:    username,
		ProductName: productName,
	}
}

type PaymentConfirmedEvent struct {
	BaseEvent
	ConfirmedID int64  `json:"confirmed_id"`
	PendingID   int64  `json:"pending_id"`
	UserID      int64  `json:"user_id"`
	AdminID     int64  `json:"admin_id"`
	ProductName string `json:"product_name"`
}

func NewPaymentConfirmedEvent(confirmedID, pendingID, userID, adminID int64, productName string) *PaymentConfirmedEvent {
	return &PaymentConfirmedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentConfirmed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"confirmed_id": confirmedID,
				"pending_id":   pendingID,
				"user_id":      userID,
				"admin_id":     adminID,
				"product_name": productName,
			},
		},
		ConfirmedID: confirmedID,
		PendingID:   pendingID,
		UserID:      userID,
		AdminID:     adminID,
		ProductName: productName,
	}
}

type PaymentRejectedEvent struct {
	BaseEvent
	PendingID int64 `json:"pending_id"`
	AdminID   int64 `json:"admin_id"`
}

func NewPaymentRejectedEvent(pendingID, adminID int64) *PaymentRejectedEvent {
	return &PaymentRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"pending_id": pendingID,
				"admin_id":   adminID,
			},
		},
		PendingID: pendingID,
		AdminID:   adminID,
	}
}
