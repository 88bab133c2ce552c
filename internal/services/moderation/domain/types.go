// Package domain defines the types and interfaces for the moderation orchestrator
package domain

import "codewarden/internal/core/detect"

// Attachment is an image carried by a message
type Attachment struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	Bytes    []byte `json:"bytes,omitempty"`
}

// Event is one inbound message to evaluate
type Event struct {
	GuildID     string       `json:"guild_id"`
	ChannelID   string       `json:"channel_id"`
	MessageID   string       `json:"message_id"`
	UserID      string       `json:"user_id"`
	Roles       []string     `json:"roles,omitempty"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Action is what the caller should do with the message
type Action string

// Enforcement actions
const (
	// ActionNone leaves the message alone
	ActionNone Action = "none"
	// ActionDeleteAndWarn removes the message and notifies the user
	ActionDeleteAndWarn Action = "delete_and_warn"
	// ActionFlagForReview asks a human to look, used when image scanning is down
	ActionFlagForReview Action = "flag_for_review"
)

// Decision is the orchestrator's outcome for one event
type Decision struct {
	Action       Action         `json:"action"`
	Reason       string         `json:"reason,omitempty"`
	Verdict      detect.Verdict `json:"verdict"`
	WarningCount int            `json:"warning_count,omitempty"`
	WarningID    string         `json:"warning_id,omitempty"`
}
