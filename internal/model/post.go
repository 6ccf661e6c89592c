package model

import "time"

// Post is a community post, fetched when a notification deep-links to it.
type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	LikeCount      int       `json:"likeCount"`
	CreatedAt      time.Time `json:"createdAt"`
	Comments       []Comment `json:"comments,omitempty"`
}

// Comment is a single comment on a post.
type Comment struct {
	ID             string    `json:"id"`
	PostID         string    `json:"postId"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}
