package db

import (
	"time"

	"gorm.io/gorm"
)

// HistoryEntry records a user viewing a post.
//
// EntryID is minted at insertion and is the handle clients use to delete an
// entry; it is deliberately distinct from PostID because the same post can
// appear in a user's history many times. PostID is a weak reference — the
// post may be deleted later, in which case the read side drops the entry
// from the joined view.
//
// Most-recent-first ordering is the primary-key order reversed: rows are
// only ever appended, so ORDER BY id DESC is insertion order even when two
// views land on the same timestamp.
type HistoryEntry struct {
	gorm.Model
	EntryID  string    `gorm:"uniqueIndex;not null"`
	UserID   uint      `gorm:"not null;index"`
	PostID   uint      `gorm:"not null"`
	AuthorID uint      `gorm:"not null"`
	ViewedAt time.Time `gorm:"not null"`
}
