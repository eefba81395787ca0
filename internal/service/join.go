package service

import (
	"fmt"
	"time"

	"github.com/RazvanGorea/show-and-tell-api/internal/db"
	"gorm.io/gorm"
)

// AuthorSummary carries the minimal author fields attached to enriched
// history and save views.
type AuthorSummary struct {
	ID     uint   `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// joinedPost holds the display fields fetched by the batched post query.
// Content stays empty for save views.
type joinedPost struct {
	ID        uint
	Title     string
	Content   string
	AuthorID  uint
	Slug      string
	Thumbnail string
	CreatedAt time.Time
}

// fetchPosts loads the display fields of the given posts in a single query
// and keys them by post ID. Posts that no longer exist are simply absent
// from the result; callers drop the referencing entries.
func fetchPosts(gdb *gorm.DB, ids []uint, withContent bool) (map[uint]joinedPost, error) {
	byID := make(map[uint]joinedPost, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	fields := []string{"id", "title", "created_at", "author_id", "thumbnail", "slug"}
	if withContent {
		fields = append(fields, "content")
	}

	var rows []joinedPost
	if err := gdb.Model(&db.Post{}).
		Select(fields).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch posts for join: %w", err)
	}

	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

// fetchAuthors loads author summaries for the given user IDs in a single
// query, keyed by user ID.
func fetchAuthors(gdb *gorm.DB, ids []uint) (map[uint]AuthorSummary, error) {
	byID := make(map[uint]AuthorSummary, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var rows []AuthorSummary
	if err := gdb.Model(&db.User{}).
		Select("id", "name", "avatar").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch authors for join: %w", err)
	}

	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

// distinctIDs deduplicates while keeping the first occurrence order. The
// batch queries do not care about order, but a stable input keeps the SQL
// deterministic for tests.
func distinctIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
