// Package ws carries live-stream chat over websockets. Messages are
// broadcast to everyone in the same stream room and are not persisted.
package ws

import (
	"encoding/json"
	"log/slog"
	"time"
)

const (
	MsgChat         = "chat:message"
	MsgViewerJoined = "viewer:joined"
	MsgViewerLeft   = "viewer:left"
	MsgGiftSent     = "gift:sent"
)

// Message is the envelope every room event travels in.
type Message struct {
	Type     string    `json:"type"`
	StreamID string    `json:"stream_id"`
	UserID   string    `json:"user_id,omitempty"`
	UserName string    `json:"user_name,omitempty"`
	Body     string    `json:"body,omitempty"`
	Amount   int64     `json:"amount,omitempty"`
	SentAt   time.Time `json:"sent_at"`
}

type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 64),
	}
}

// Run owns the room map. All membership changes and fan-out go through the
// three channels, so no locking is needed.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			room := h.rooms[c.streamID]
			if room == nil {
				room = make(map[*Client]bool)
				h.rooms[c.streamID] = room
			}
			room[c] = true
			h.fanOut(Message{
				Type:     MsgViewerJoined,
				StreamID: c.streamID,
				UserID:   c.userID,
				UserName: c.userName,
				SentAt:   time.Now(),
			})

		case c := <-h.unregister:
			if room, ok := h.rooms[c.streamID]; ok {
				if _, ok := room[c]; ok {
					delete(room, c)
					close(c.send)
					if len(room) == 0 {
						delete(h.rooms, c.streamID)
					}
					h.fanOut(Message{
						Type:     MsgViewerLeft,
						StreamID: c.streamID,
						UserID:   c.userID,
						UserName: c.userName,
						SentAt:   time.Now(),
					})
				}
			}

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Broadcast queues a message for everyone in the stream's room. Safe to call
// from any goroutine.
func (h *Hub) Broadcast(msg Message) {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	select {
	case h.broadcast <- msg:
	default:
		slog.Warn("chat broadcast dropped, hub backlogged", "stream_id", msg.StreamID, "type", msg.Type)
	}
}

// GiftSent announces a gift to everyone watching the stream.
func (h *Hub) GiftSent(streamID, senderID, senderName string, amount int64) {
	h.Broadcast(Message{
		Type:     MsgGiftSent,
		StreamID: streamID,
		UserID:   senderID,
		UserName: senderName,
		Amount:   amount,
	})
}

func (h *Hub) fanOut(msg Message) {
	room := h.rooms[msg.StreamID]
	if len(room) == 0 {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("chat message marshal failed", "err", err)
		return
	}
	for c := range room {
		select {
		case c.send <- payload:
		default:
			delete(room, c)
			close(c.send)
		}
	}
}
