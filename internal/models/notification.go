package models

import "time"

type NotificationType string

const (
	NotifyAccount NotificationType = "ACCOUNT"
	NotifyLive    NotificationType = "LIVE"
	NotifyFinance NotificationType = "FINANCE"
	NotifySystem  NotificationType = "SYSTEM"
)

type Notification struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	Type            NotificationType `json:"type"`
	Title           string           `json:"title"`
	Body            string           `json:"body"`
	RelatedEntityID string           `json:"related_entity_id,omitempty"`
	IsRead          bool             `json:"is_read"`
	CreatedAt       time.Time        `json:"created_at"`
}
