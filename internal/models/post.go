package models

import "time"

// Post is a bulletin board entry. UserID is nullable: posts survive the
// deactivation of their author.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    *string   `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// EnrichedPost is a Post plus the resolved author record and a
// human-readable localized creation date. Author is nil when the post has no
// author id or the author could not be resolved.
type EnrichedPost struct {
	Post
	CreatedAtDisplay string `json:"createdAtDisplay"`
	Author           *User  `json:"author"`
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}
