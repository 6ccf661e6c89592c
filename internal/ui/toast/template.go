package toast

import (
	"github.com/ybazarbay/bizhub/internal/model"
)

// fallbackActor is shown when the backend sent no actor username.
const fallbackActor = "Someone"

// Message resolves the display text for a notification. Types with a
// template render "{actor} <did something>"; everything else falls back
// to the record's raw message.
func Message(n model.Notification) string {
	actor := n.ActorUsername
	if actor == "" {
		actor = fallbackActor
	}

	switch n.Type {
	case model.TypePostLike:
		return actor + " liked your post"
	case model.TypeCommentLike:
		return actor + " liked your comment"
	case model.TypeComment:
		return actor + " commented on your post"
	default:
		return n.Message
	}
}

// Icon selects the glyph shown next to the alert text.
func Icon(n model.Notification) string {
	switch {
	case n.Type == model.TypeComment:
		return "💬"
	case n.Type.IsLike():
		return "❤️"
	default:
		return "🔔"
	}
}
