package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/RazvanGorea/show-and-tell-api/internal/db"
	"gorm.io/gorm"
)

// ErrSaveNotFound is returned when unsaving a post the user never saved.
var ErrSaveNotFound = errors.New("save entry not found")

// SavesService maintains a user's saved posts, at most one save per post.
type SavesService struct {
	db *gorm.DB
}

// NewSavesService constructs a SavesService.
func NewSavesService(gdb *gorm.DB) *SavesService {
	return &SavesService{db: gdb}
}

// SaveView is a save entry joined with the referenced post's display fields
// and the post author's summary. Unlike history views it carries no post
// content.
type SaveView struct {
	PostID    uint          `json:"postId"`
	Title     string        `json:"title"`
	Slug      string        `json:"slug"`
	Thumbnail string        `json:"thumbnail"`
	PostedAt  time.Time     `json:"date"`
	Author    AuthorSummary `json:"author"`
	SavedAt   time.Time     `json:"savedDate"`
}

// Save bookmarks a post for the user. The post must exist. Saving a post
// that is already saved is a no-op; the unique index on (user, post)
// backstops concurrent duplicates.
func (s *SavesService) Save(userID, postID uint) error {
	var count int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return fmt.Errorf("check post exists: %w", err)
	}
	if count == 0 {
		return ErrPostNotFound
	}

	if err := s.db.Model(&db.SaveEntry{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check existing save: %w", err)
	}
	if count > 0 {
		return nil
	}

	entry := db.SaveEntry{UserID: userID, PostID: postID, SavedAt: time.Now()}
	if err := s.db.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("save post: %w", err)
	}
	return nil
}

// Unsave removes the user's save of a post. Returns ErrSaveNotFound when no
// such save exists; nothing is modified in that case.
func (s *SavesService) Unsave(userID, postID uint) error {
	// Hard delete: a soft-deleted row would still occupy the unique
	// (user, post) index and block saving the post again.
	res := s.db.Unscoped().
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&db.SaveEntry{})
	if res.Error != nil {
		return fmt.Errorf("unsave post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSaveNotFound
	}
	return nil
}

// List returns the user's enriched saves, most recently saved first. Saves
// whose post has since been deleted are dropped. The result is never nil.
func (s *SavesService) List(userID uint) ([]SaveView, error) {
	var entries []db.SaveEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("id DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list save entries: %w", err)
	}

	views := make([]SaveView, 0, len(entries))
	if len(entries) == 0 {
		return views, nil
	}

	postIDs := make([]uint, 0, len(entries))
	for _, entry := range entries {
		postIDs = append(postIDs, entry.PostID)
	}

	posts, err := fetchPosts(s.db, distinctIDs(postIDs), false)
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
			continue
		}
		views = append(views, SaveView{
			PostID:    post.ID,
			Title:     post.Title,
			Slug:      post.Slug,
			Thumbnail: post.Thumbnail,
			PostedAt:  post.CreatedAt,
			Author:    authors[post.AuthorID],
			SavedAt:   entry.SavedAt,
		})
	}
	return views, nil
}
