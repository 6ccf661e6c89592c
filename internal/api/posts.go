package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ybazarbay/bizhub/internal/model"
)

// Post retrieves a single post with its comment thread. Notification
// deep links land here.
func (c *Client) Post(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	path := "/posts/" + url.PathEscape(id)
	if err := c.Get(ctx, path, &post); err != nil {
		return nil, fmt.Errorf("fetching post %s: %w", id, err)
	}
	return &post, nil
}

// Me verifies the access token and returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.Get(ctx, "/users/me", &user); err != nil {
		return nil, fmt.Errorf("fetching current user: %w", err)
	}
	return &user, nil
}
