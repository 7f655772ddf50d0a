package models

import "time"

type StreamStatus string

const (
	StreamLive  StreamStatus = "live"
	StreamEnded StreamStatus = "ended"
)

type Stream struct {
	ID            string       `json:"id"`
	HostID        string       `json:"host_id"`
	ChannelName   string       `json:"channel_name"`
	Title         string       `json:"title"`
	Category      string       `json:"category"`
	IsPremium     bool         `json:"is_premium"`
	EntryFee      int64        `json:"entry_fee"`
	Status        StreamStatus `json:"status"`
	EarnCoins     int64        `json:"earn_coins"`
	TotalViews    int64        `json:"total_views"`
	TotalLikes    int64        `json:"total_likes"`
	TotalComments int64        `json:"total_comments"`
	StartTime     time.Time    `json:"start_time"`
	EndTime       *time.Time   `json:"end_time,omitempty"`
}

type StreamViewer struct {
	StreamID string    `json:"stream_id"`
	UserID   string    `json:"user_id"`
	HasPaid  bool      `json:"has_paid"`
	FeePaid  int64     `json:"fee_paid"`
	JoinedAt time.Time `json:"joined_at"`
}

type StreamComment struct {
	ID        string    `json:"id"`
	StreamID  string    `json:"stream_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type GiftLog struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	StreamID   string    `json:"stream_id"`
	Amount     int64     `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

type StreamStats struct {
	Total int64 `json:"total"`
	Free  int64 `json:"free"`
	Paid  int64 `json:"paid"`
}
