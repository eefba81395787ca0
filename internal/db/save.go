package db

import (
	"time"

	"gorm.io/gorm"
)

// SaveEntry records a user bookmarking a post. The composite unique index
// enforces at most one save per user per post; duplicate attempts are
// treated as no-ops by the saves service and the index backstops races.
type SaveEntry struct {
	gorm.Model
	UserID  uint      `gorm:"not null;index;uniqueIndex:idx_user_post_save"`
	PostID  uint      `gorm:"not null;uniqueIndex:idx_user_post_save"`
	SavedAt time.Time `gorm:"not null"`
}
