package models

import "time"

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	PostID   int    `gorm:"not null;index" json:"post_id"`
	AuthorID int    `gorm:"not null" json:"author_id"`
	Body     string `gorm:"not null" json:"body"`

	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:AuthorID" json:"user"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}
