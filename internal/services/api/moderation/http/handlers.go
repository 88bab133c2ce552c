// Package http provides http transport for moderation evaluation
package http

import (
	stdhttp "net/http"

	"codewarden/internal/modkit/httpkit"
	moddomain "codewarden/internal/services/moderation/domain"
)

// Register mounts moderation endpoints on the given router
func Register(r httpkit.Router, eval moddomain.EvaluatorPort) {
	h := &handlers{eval: eval}

	// classify one message and decide enforcement
	httpkit.PostJSON[EvaluateInput](r, "/evaluate", h.evaluate)
}

type handlers struct {
	eval moddomain.EvaluatorPort
}

// AttachmentInput is one image on the inbound message
type AttachmentInput struct {
	URL      string `json:"url" validate:"required"`
	MimeType string `json:"mime_type"`
	Bytes    []byte `json:"bytes,omitempty"`
}

// EvaluateInput is the evaluation request body
type EvaluateInput struct {
	GuildID     string            `json:"guild_id" validate:"required"`
	ChannelID   string            `json:"channel_id"`
	MessageID   string            `json:"message_id"`
	UserID      string            `json:"user_id" validate:"required"`
	Roles       []string          `json:"roles"`
	Content     string            `json:"content"`
	Attachments []AttachmentInput `json:"attachments" validate:"dive"`
}

func (h *handlers) evaluate(r *stdhttp.Request, in EvaluateInput) (any, error) {
	ev := moddomain.Event{
		GuildID:   in.GuildID,
		ChannelID: in.ChannelID,
		MessageID: in.MessageID,
		UserID:    in.UserID,
		Roles:     in.Roles,
		Content:   in.Content,
	}
	for _, a := range in.Attachments {
		ev.Attachments = append(ev.Attachments, moddomain.Attachment{
			URL:      a.URL,
			MimeType: a.MimeType,
			Bytes:    a.Bytes,
		})
	}
	return h.eval.Evaluate(r.Context(), ev)
}
