package db

import "gorm.io/gorm"

// Post is an article written by a user. The history and saves services only
// read posts; writes happen through the post service.
type Post struct {
	gorm.Model
	Title     string `gorm:"not null"`
	Content   string `gorm:"not null"`
	AuthorID  uint   `gorm:"not null;index"`
	Slug      string `gorm:"unique;not null"`
	Thumbnail string `gorm:"not null"`
	Comments  []Comment
}

// Comment is a reader comment attached to a post.
type Comment struct {
	gorm.Model
	PostID uint `gorm:"not null;index"`
	UserID uint `gorm:"not null"`
	Body   string
}
