package app

import "github.com/ybazarbay/bizhub/internal/model"

// route is a resolved navigation target for an opened notification.
type route struct {
	postID    string
	commentID string
}

// resolveRoute computes where opening a notification should navigate:
// a post detail view, optionally anchored at a comment. Notifications
// without a post target (system, welcome) navigate nowhere; that is a
// quiet no-op, not an error.
func resolveRoute(n model.Notification) (route, bool) {
	if n.PostID == "" {
		return route{}, false
	}
	return route{postID: n.PostID, commentID: n.CommentID}, true
}
