package models

import "time"

// Wallet holds a user's coin balance. Mutated only through the wallets
// repository, which applies every change as a single atomic statement.
type Wallet struct {
	UserID        string    `json:"user_id"`
	Coins         int64     `json:"coins"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}
