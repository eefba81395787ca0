package service

import (
	"fmt"
	"time"

	"github.com/RazvanGorea/show-and-tell-api/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryService maintains a user's browsing history: an unbounded,
// most-recent-first record of viewed posts.
type HistoryService struct {
	db *gorm.DB
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(gdb *gorm.DB) *HistoryService {
	return &HistoryService{db: gdb}
}

// HistoryView is a history entry joined with the referenced post's display
// fields and the post author's summary.
type HistoryView struct {
	EntryID   string        `json:"id"`
	PostID    uint          `json:"postId"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Slug      string        `json:"slug"`
	Thumbnail string        `json:"thumbnail"`
	PostedAt  time.Time     `json:"date"`
	Author    AuthorSummary `json:"author"`
	ViewedAt  time.Time     `json:"viewedAt"`
}

// Append records that the user viewed a post. The post must exist at the
// time of the call; the check completes before anything is written. Repeat
// views of the same post produce separate entries.
func (s *HistoryService) Append(userID, postID, authorID uint) error {
	var count int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return fmt.Errorf("check post exists: %w", err)
	}
	if count == 0 {
		return ErrPostNotFound
	}

	entry := db.HistoryEntry{
		EntryID:  uuid.NewString(),
		UserID:   userID,
		PostID:   postID,
		AuthorID: authorID,
		ViewedAt: time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

// List returns the user's enriched history, most recently viewed first.
// Entries whose post has since been deleted are dropped from the result.
func (s *HistoryService) List(userID uint) ([]HistoryView, error) {
	var entries []db.HistoryEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list history entries: %w", err)
	}
	return s.enrich(entries)
}

// DeleteItems removes the entries whose entry IDs appear in entryIDs.
// IDs with no matching entry are ignored; the count of ignored IDs is
// returned so callers can surface it for diagnostics. The returned view is
// re-read from committed state, never projected in memory.
func (s *HistoryService) DeleteItems(userID uint, entryIDs []string) ([]HistoryView, int, error) {
	// Hard delete: a soft-deleted row would keep the unique entry ID
	// occupied forever for no benefit.
	res := s.db.Unscoped().
		Where("user_id = ? AND entry_id IN ?", userID, entryIDs).
		Delete(&db.HistoryEntry{})
	if res.Error != nil {
		return nil, 0, fmt.Errorf("delete history entries: %w", res.Error)
	}

	missed := len(entryIDs) - int(res.RowsAffected)
	if missed < 0 {
		missed = 0
	}

	views, err := s.List(userID)
	return views, missed, err
}

// Clear empties the user's history in one operation and returns the now
// empty view.
func (s *HistoryService) Clear(userID uint) ([]HistoryView, error) {
	if err := s.db.Unscoped().
		Where("user_id = ?", userID).
		Delete(&db.HistoryEntry{}).Error; err != nil {
		return nil, fmt.Errorf("clear history: %w", err)
	}
	return s.List(userID)
}

// enrich joins entries against posts and authors with one batched query
// each, drops entries whose post vanished, and preserves the entry order.
func (s *HistoryService) enrich(entries []db.HistoryEntry) ([]HistoryView, error) {
	views := make([]HistoryView, 0, len(entries))
	if len(entries) == 0 {
		return views, nil
	}

	postIDs := make([]uint, 0, len(entries))
	for _, entry := range entries {
		postIDs = append(postIDs, entry.PostID)
	}

	posts, err := fetchPosts(s.db, distinctIDs(postIDs), true)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uint, 0, len(posts))
	for _, entry := range entries {
		if post, ok := posts[entry.PostID]; ok {
			authorIDs = append(authorIDs, post.AuthorID)
		}
	}

	authors, err := fetchAuthors(s.db, distinctIDs(authorIDs))
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		post, ok := posts[entry.PostID]
		if !ok {
			// Post deleted since it was viewed; the entry stays in the
			// table but never surfaces.
			continue
		}
		views = append(views, HistoryView{
			EntryID:   entry.EntryID,
			PostID:    post.ID,
			Title:     post.Title,
			Content:   post.Content,
			Slug:      post.Slug,
			Thumbnail: post.Thumbnail,
			PostedAt:  post.CreatedAt,
			Author:    authors[post.AuthorID],
			ViewedAt:  entry.ViewedAt,
		})
	}
	return views, nil
}
