package models

import "time"

type Post struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	AuthorID int    `gorm:"not null;index" json:"author_id"`
	Body     string `json:"body,omitempty"`
	FilePath string `json:"file_path,omitempty"`
	FileName string `json:"file_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:AuthorID" json:"user"`
}

type CreatePostRequest struct {
	Body     string `json:"body"`
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
}

type UpdatePostRequest struct {
	Body string `json:"body"`
}
