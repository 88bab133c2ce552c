// Package domain defines the types and interfaces for the warning ledger service
package domain

import "time"

// Warning is a single recorded offense against a user
type Warning struct {
	ID         string    `json:"id"`
	GuildID    string    `json:"guild_id"`
	UserID     string    `json:"user_id"`
	ChannelID  string    `json:"channel_id"`
	Reason     string    `json:"reason"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}

// WarningWrite is the input for recording a new warning
type WarningWrite struct {
	GuildID    string
	UserID     string
	ChannelID  string
	Reason     string
	Confidence float64
	Source     string
}

// Receipt is returned after a successful write
type Receipt struct {
	ID          string    `json:"id"`
	ActiveCount int       `json:"active_count"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// GuildStats summarizes active warnings for a guild
type GuildStats struct {
	GuildID       string `json:"guild_id"`
	ActiveTotal   int    `json:"active_total"`
	DistinctUsers int    `json:"distinct_users"`
}
