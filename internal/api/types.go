package api

import (
	"encoding/json"
	"time"

	"github.com/ybazarbay/bizhub/internal/model"
)

// notificationPayload is a single notification as the gateway sends it.
// Older gateway versions nest the actor and deep-link fields inside a
// "data" envelope with snake_case keys; newer ones send them top-level.
// Both shapes are accepted and normalized into model.Notification.
type notificationPayload struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Type          string          `json:"type"`
	ActorID       string          `json:"actorId"`
	ActorUsername string          `json:"actorUsername"`
	PostID        string          `json:"postId"`
	CommentID     string          `json:"commentId"`
	Message       string          `json:"message"`
	IsRead        bool            `json:"isRead"`
	CreatedAt     string          `json:"createdAt"`
	Metadata      map[string]string `json:"metadata"`
	Data          *legacyData     `json:"data"`
}

// legacyData is the pre-v2 gateway envelope for event attributes.
type legacyData struct {
	ActorIDSnake       string          `json:"actor_id"`
	ActorIDCamel       string          `json:"actorId"`
	ActorUsernameSnake string          `json:"actor_username"`
	ActorUsernameCamel string          `json:"actorUsername"`
	PostIDSnake        string          `json:"post_id"`
	PostIDCamel        string          `json:"postId"`
	CommentIDSnake     string          `json:"comment_id"`
	CommentIDCamel     string          `json:"commentId"`
	Metadata           json.RawMessage `json:"metadata"`
}

// toNotification normalizes a wire payload into the canonical record.
// A missing or unparseable createdAt becomes the zero time; it is the
// ordering policy's job to sort such records last, not this layer's to
// reject them.
func (p notificationPayload) toNotification() model.Notification {
	n := model.Notification{
		ID:            p.ID,
		UserID:        p.UserID,
		Type:          model.NotificationType(p.Type),
		ActorID:       p.ActorID,
		ActorUsername: p.ActorUsername,
		PostID:        p.PostID,
		CommentID:     p.CommentID,
		Message:       p.Message,
		IsRead:        p.IsRead,
		CreatedAt:     parseTimestamp(p.CreatedAt),
		Metadata:      p.Metadata,
	}

	if d := p.Data; d != nil {
		if n.ActorID == "" {
			n.ActorID = firstNonEmpty(d.ActorIDSnake, d.ActorIDCamel)
		}
		if n.ActorUsername == "" {
			n.ActorUsername = firstNonEmpty(d.ActorUsernameSnake, d.ActorUsernameCamel)
		}
		if n.PostID == "" {
			n.PostID = firstNonEmpty(d.PostIDSnake, d.PostIDCamel)
		}
		if n.CommentID == "" {
			n.CommentID = firstNonEmpty(d.CommentIDSnake, d.CommentIDCamel)
		}
		if n.Metadata == nil && len(d.Metadata) > 0 {
			// The legacy envelope double-encodes metadata as a JSON
			// string; tolerate both that and a plain object.
			var meta map[string]string
			if json.Unmarshal(d.Metadata, &meta) == nil {
				n.Metadata = meta
			} else {
				var encoded string
				if json.Unmarshal(d.Metadata, &encoded) == nil {
					if json.Unmarshal([]byte(encoded), &meta) == nil {
						n.Metadata = meta
					}
				}
			}
		}
	}

	return n
}

// parseTimestamp parses a gateway timestamp. The gateway normally sends
// RFC 3339; a handful of legacy rows lack the timezone suffix.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
