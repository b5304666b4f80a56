package domain

import "time"

const (
	FieldUserID    = "UserId"
	FieldTitle     = "Title"
	FieldMessage   = "Message"
	FieldEventID   = "EventId"
	FieldEventName = "EventName"
	FieldType      = "Type"
	FieldCreatedBy = "CreatedBy"
	FieldIsRead    = "IsRead"
	FieldCreatedAt = "CreatedAt"
)

// NotificationTypeComment tags notifications produced by staff comments on an event.
const NotificationTypeComment = "comment"

// NotificationInput is what a caller supplies to create a notification.
type NotificationInput struct {
	UserID    string `json:"userId" validate:"required"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	EventID   string `json:"eventId"`
	EventName string `json:"eventName"`
	Type      string `json:"type"`
	CreatedBy string `json:"createdBy"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	EventID   string    `json:"eventId"`
	EventName string    `json:"eventName"`
	Type      string    `json:"type"`
	CreatedBy string    `json:"createdBy"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewNotificationFields builds an unread notification stamped with the store's server time.
func NewNotificationFields(in NotificationInput) map[string]any {
	return map[string]any{
		FieldUserID:    in.UserID,
		FieldTitle:     in.Title,
		FieldMessage:   in.Message,
		FieldEventID:   in.EventID,
		FieldEventName: in.EventName,
		FieldType:      in.Type,
		FieldCreatedBy: in.CreatedBy,
		FieldIsRead:    false,
		FieldCreatedAt: ServerTimestamp,
	}
}

func NotificationFromDocument(d Document) (*Notification, error) {
	if d.Fields == nil {
		return nil, errNoData
	}
	return &Notification{
		ID:        d.ID,
		UserID:    d.String(FieldUserID, ""),
		Title:     d.String(FieldTitle, ""),
		Message:   d.String(FieldMessage, ""),
		EventID:   d.String(FieldEventID, ""),
		EventName: d.String(FieldEventName, ""),
		Type:      d.String(FieldType, ""),
		CreatedBy: d.String(FieldCreatedBy, ""),
		IsRead:    d.Bool(FieldIsRead, false),
		CreatedAt: d.Time(FieldCreatedAt),
	}, nil
}
