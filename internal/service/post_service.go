package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RazvanGorea/show-and-tell-api/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrPostNotFound is returned when a referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrSlugTaken is returned when creating a post with a slug that is
	// already in use.
	ErrSlugTaken = errors.New("post slug already exists")
	// ErrInvalidPostInput is returned when required post fields are missing.
	ErrInvalidPostInput = errors.New("invalid post input")
)

// PostService covers the post reads the rest of the API joins against, plus
// basic creation. Editing and publication workflows live in the authoring
// frontend's own backend, not here.
type PostService struct {
	db *gorm.DB
}

// NewPostService constructs a PostService.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostInput describes the fields accepted when creating a post.
type PostInput struct {
	Title     string
	Content   string
	Slug      string
	Thumbnail string
	AuthorID  uint
}

// Create stores a new post. The slug must be unique.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	if err := validatePostInput(input); err != nil {
		return nil, err
	}

	post := db.Post{
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Slug:      strings.TrimSpace(input.Slug),
		Thumbnail: strings.TrimSpace(input.Thumbnail),
		AuthorID:  input.AuthorID,
	}
	if err := s.db.Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// GetBySlug returns a post by its slug, with comments preloaded.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Comments").
		Where("slug = ?", slug).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return &post, nil
}

// listPostsByAuthor returns an author's posts, newest first. Shared with the
// public-profile read.
func listPostsByAuthor(gdb *gorm.DB, authorID uint) ([]db.Post, error) {
	var posts []db.Post
	if err := gdb.Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return posts, nil
}

func validatePostInput(input PostInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidPostInput)
	}
	if strings.TrimSpace(input.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidPostInput)
	}
	if strings.TrimSpace(input.Slug) == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidPostInput)
	}
	if strings.TrimSpace(input.Thumbnail) == "" {
		return fmt.Errorf("%w: thumbnail is required", ErrInvalidPostInput)
	}
	if input.AuthorID == 0 {
		return fmt.Errorf("%w: author is required", ErrInvalidPostInput)
	}
	return nil
}
