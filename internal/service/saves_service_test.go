package service

import (
	"errors"
	"testing"

	"github.com/RazvanGorea/show-and-tell-api/internal/db"
	"gorm.io/gorm"
)

func TestSavesService_SaveAndListOrder(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSavesService(gdb)

	author := createTestUser(t, gdb, "author")
	reader := createTestUser(t, gdb, "reader")
	p1 := createTestPost(t, gdb, author.ID, "alpha")
	p2 := createTestPost(t, gdb, author.ID, "beta")

	if err := svc.Save(reader.ID, p1.ID); err != nil {
		t.Fatalf("save p1: %v", err)
	}
	if err := svc.Save(reader.ID, p2.ID); err != nil {
		t.Fatalf("save p2: %v", err)
	}

	views, err := svc.List(reader.ID)
	if err != nil {
		t.Fatalf("list saves: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 save views, got %d", len(views))
	}
	if views[0].PostID != p2.ID || views[1].PostID != p1.ID {
		t.Fatalf("expected order [%d %d], got [%d %d]", p2.ID, p1.ID, views[0].PostID, views[1].PostID)
	}
	if views[0].Title != p2.Title || views[0].Author.ID != author.ID {
		t.Fatalf("unexpected enrichment: %+v", views[0])
	}
	if views[0].SavedAt.IsZero() {
		t.Fatal("expected savedDate to be set")
	}
}

func TestSavesService_SaveRequiresPost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSavesService(gdb)

	reader := createTestUser(t, gdb, "reader")

	if err := svc.Save(reader.ID, 99999); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestSavesService_SaveIsIdempotent(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSavesService(gdb)

	author := createTestUser(t, gdb, "author")
	reader := createTestUser(t, gdb, "reader")
	post := createTestPost(t, gdb, author.ID, "again")

	if err := svc.Save(reader.ID, post.ID); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := svc.Save(reader.ID, post.ID); err != nil {
		t.Fatalf("second save should be a no-op, got %v", err)
	}

	var count int64
	if err := gdb.Model(&db.SaveEntry{}).
		Where("user_id = ? AND post_id = ?", reader.ID, post.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count saves: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 save entry, got %d", count)
	}
}

func TestSavesService_UnsaveRequiresExistingSave(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSavesService(gdb)

	author := createTestUser(t, gdb, "author")
	reader := createTestUser(t, gdb, "reader")
	saved := createTestPost(t, gdb, author.ID, "saved")
	other := createTestPost(t, gdb, author.ID, "other")

	if err := svc.Save(reader.ID, saved.ID); err != nil {
		t.Fatalf("save post: %v", err)
	}

	if err := svc.Unsave(reader.ID, other.ID); !errors.Is(err, ErrSaveNotFound) {
		t.Fatalf("expected ErrSaveNotFound, got %v", err)
	}

	// The failed unsave must leave the existing save untouched.
	views, err := svc.List(reader.ID)
	if err != nil {
		t.Fatalf("list saves: %v", err)
	}
	if len(views) != 1 || views[0].PostID != saved.ID {
		t.Fatalf("expected save of post %d to survive, got %+v", saved.ID, views)
	}
}

func TestSavesService_UnsaveThenList(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSavesService(gdb)

	author := createTestUser(t, gdb, "author")
	reader := createTestUser(t, gdb, "reader")
	p1 := createTestPost(t, gdb, author.ID, "p1")
	p2 := createTestPost(t, gdb, author.ID, "p2")

	if err := svc.Save(reader.ID, p1.ID); err != nil {
		t.Fatalf("save p1: %v", err)
	}
	if err := svc.Save(reader.ID, p2.ID); err != nil {
		t.Fatalf("save p2: %v", err)
	}

	firstSavedAt := mustListSaves(t, svc, reader.ID)[1].SavedAt

	if err := svc.Unsave(reader.ID, p1.ID); err != nil {
		t.Fatalf("unsave p1: %v", err)
	}

	views := mustListSaves(t, svc, reader.ID)
	if len(views) != 1 || views[0].PostID != p2.ID {
		t.Fatalf("expected only post %d saved, got %+v", p2.ID, views)
	}
	if views[0].SavedAt.Before(firstSavedAt) {
		t.Fatal("expected the surviving save to keep its original timestamp")
	}
}

func TestSavesService_SaveAgainAfterUnsave(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSavesService(gdb)

	author := createTestUser(t, gdb, "author")
	reader := createTestUser(t, gdb, "reader")
	post := createTestPost(t, gdb, author.ID, "revisited")

	if err := svc.Save(reader.ID, post.ID); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Unsave(reader.ID, post.ID); err != nil {
		t.Fatalf("unsave: %v", err)
	}
	if err := svc.Save(reader.ID, post.ID); err != nil {
		t.Fatalf("save again: %v", err)
	}

	views := mustListSaves(t, svc, reader.ID)
	if len(views) != 1 || views[0].PostID != post.ID {
		t.Fatalf("expected post %d saved again, got %+v", post.ID, views)
	}
}

func mustListSaves(t *testing.T, svc *SavesService, userID uint) []SaveView {
	t.Helper()
	views, err := svc.List(userID)
	if err != nil {
		t.Fatalf("list saves: %v", err)
	}
	return views
}

func TestSavesService_ListDropsDeletedPosts(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSavesService(gdb)

	author := createTestUser(t, gdb, "author")
	reader := createTestUser(t, gdb, "reader")
	keep := createTestPost(t, gdb, author.ID, "keep")
	doomed := createTestPost(t, gdb, author.ID, "doomed")

	if err := svc.Save(reader.ID, keep.ID); err != nil {
		t.Fatalf("save keep: %v", err)
	}
	if err := svc.Save(reader.ID, doomed.ID); err != nil {
		t.Fatalf("save doomed: %v", err)
	}

	if err := gdb.Unscoped().Delete(&db.Post{}, doomed.ID).Error; err != nil {
		t.Fatalf("delete post: %v", err)
	}

	views, err := svc.List(reader.ID)
	if err != nil {
		t.Fatalf("list saves after post deletion: %v", err)
	}
	if len(views) != 1 || views[0].PostID != keep.ID {
		t.Fatalf("expected only surviving post %d, got %+v", keep.ID, views)
	}
}

func TestSavesService_ListEmptyIsNotNil(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSavesService(gdb)

	reader := createTestUser(t, gdb, "reader")

	views, err := svc.List(reader.ID)
	if err != nil {
		t.Fatalf("list saves: %v", err)
	}
	if views == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(views) != 0 {
		t.Fatalf("expected no views, got %d", len(views))
	}
}

func TestSavesService_ListBatchesJoinQueries(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewSavesService(gdb)

	authorA := createTestUser(t, gdb, "author-a")
	authorB := createTestUser(t, gdb, "author-b")
	reader := createTestUser(t, gdb, "reader")

	posts := []db.Post{
		createTestPost(t, gdb, authorA.ID, "q1"),
		createTestPost(t, gdb, authorA.ID, "q2"),
		createTestPost(t, gdb, authorB.ID, "q3"),
		createTestPost(t, gdb, authorB.ID, "q4"),
		createTestPost(t, gdb, authorB.ID, "q5"),
		createTestPost(t, gdb, authorA.ID, "q6"),
	}
	for _, post := range posts {
		if err := svc.Save(reader.ID, post.ID); err != nil {
			t.Fatalf("save post %d: %v", post.ID, err)
		}
	}

	var queries int
	if err := gdb.Callback().Query().After("gorm:query").Register("test_count_queries", func(*gorm.DB) {
		queries++
	}); err != nil {
		t.Fatalf("register query counter: %v", err)
	}

	if _, err := svc.List(reader.ID); err != nil {
		t.Fatalf("list saves: %v", err)
	}

	// One query for the entries, then one batched post fetch and one
	// batched author fetch, no matter how many saves there are.
	if queries != 3 {
		t.Fatalf("expected 3 queries for 6 saves, got %d", queries)
	}
}
