package models

import "time"

// ReactionState is the tri-state marker a user holds on a post. NONE is
// never persisted; it is represented by the absence of a Reaction row.
type ReactionState string

const (
	ReactionNone    ReactionState = "NONE"
	ReactionLike    ReactionState = "LIKE"
	ReactionDislike ReactionState = "DISLIKE"
)

// Requestable reports whether the state is one a caller may ask for.
// Toggling to NONE happens implicitly by repeating the current state.
func (s ReactionState) Requestable() bool {
	return s == ReactionLike || s == ReactionDislike
}

// Reaction tracks one user's current marker on one post. At most one row
// exists per (user, post) pair.
type Reaction struct {
	ID     int    `gorm:"primaryKey" json:"id"`
	UserID int    `gorm:"not null;uniqueIndex:idx_reaction_pair" json:"user_id"`
	PostID int    `gorm:"not null;uniqueIndex:idx_reaction_pair" json:"post_id"`
	Type   string `gorm:"not null" json:"type"`

	CreatedAt time.Time `json:"created_at"`
}

type ToggleReactionRequest struct {
	Type string `json:"type" binding:"required,oneof=LIKE DISLIKE"`
}
