package model

import (
	"strings"
	"time"
)

// NotificationType identifies the kind of platform event behind a
// notification. The set is closed; unknown values fall back to the
// notification's raw message when rendered.
type NotificationType string

const (
	TypePostLike    NotificationType = "POST_LIKE"
	TypeCommentLike NotificationType = "COMMENT_LIKE"
	TypeComment     NotificationType = "COMMENT"
	TypeNewPost     NotificationType = "NEW_POST"
	TypePostUpdate  NotificationType = "POST_UPDATE"
	TypeReport      NotificationType = "REPORT"
	TypeWelcome     NotificationType = "WELCOME"
	TypeSystem      NotificationType = "SYSTEM"
)

// IsLike reports whether this type represents a like event of any kind.
func (t NotificationType) IsLike() bool {
	return strings.Contains(string(t), "LIKE")
}

// Notification represents a single platform event surfaced to the user.
type Notification struct {
	// ID is the backend-assigned identifier, unique and immutable for
	// the lifetime of the notification. It is the sole dedup key.
	ID string `json:"id"`

	// UserID is the recipient of the notification.
	UserID string `json:"userId"`

	// Type determines the presentation template.
	Type NotificationType `json:"type"`

	// ActorID and ActorUsername identify who triggered the event.
	// Both are empty for system notifications.
	ActorID       string `json:"actorId,omitempty"`
	ActorUsername string `json:"actorUsername,omitempty"`

	// PostID and CommentID are deep-link targets, when present.
	PostID    string `json:"postId,omitempty"`
	CommentID string `json:"commentId,omitempty"`

	// Message is the fallback text used when no template applies to Type.
	Message string `json:"message"`

	// IsRead is server-owned read state, mutated only via mark-read.
	IsRead bool `json:"isRead"`

	// CreatedAt orders notifications newest-first. A zero value means
	// the backend sent a missing or unparseable timestamp.
	CreatedAt time.Time `json:"createdAt"`

	// Metadata holds free-form attributes used for message templating
	// (e.g., quoted comment text).
	Metadata map[string]string `json:"metadata,omitempty"`
}
