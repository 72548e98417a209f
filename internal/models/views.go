package models

import "time"

// PostView is a Post as shown in a feed: joined with its author's display
// name, the aggregate reaction counts, and the requesting viewer's own
// state. Counts and MyReaction are derived at read time, never stored.
type PostView struct {
	ID           int           `json:"id"`
	AuthorID     int           `json:"author_id"`
	AuthorName   string        `json:"author"`
	Body         string        `json:"body,omitempty"`
	FilePath     string        `json:"file_path,omitempty"`
	FileName     string        `json:"file_name,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	LikeCount    int           `json:"likes"`
	DislikeCount int           `json:"dislikes"`
	MyReaction   ReactionState `json:"my_reaction"`
}

// CommentView is a Comment joined with its author's display name.
type CommentView struct {
	ID         int       `json:"id"`
	PostID     int       `json:"post_id"`
	AuthorID   int       `json:"author_id"`
	AuthorName string    `json:"author"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}
