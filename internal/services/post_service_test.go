package services

import (
	"testing"
	"time"

	"github.com/fastcm/shophub-be/internal/auth"
	"github.com/fastcm/shophub-be/internal/models"
)

// fakeDirectory records every batched author lookup it serves.
type fakeDirectory struct {
	users   []models.User
	batches [][]string
}

func (f *fakeDirectory) GetUsersByIDs(ids []string) ([]models.User, error) {
	f.batches = append(f.batches, ids)
	return f.users, nil
}

func strptr(s string) *string { return &s }

func newBoard(t *testing.T) (*PostService, *UserService) {
	t.Helper()
	db := newTestDB(t)
	users := NewUserService(db, auth.NewHasher("test-secret"))
	events := NewEventService(db, nil)
	posts := NewPostService(db, users, events, nil)
	return posts, users
}

func TestEnrichEmptyInput(t *testing.T) {
	dir := &fakeDirectory{}
	svc := NewPostService(nil, dir, nil, nil)

	enriched, err := svc.Enrich([]models.Post{})
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if len(enriched) != 0 {
		t.Errorf("expected empty output, got %d posts", len(enriched))
	}
	if len(dir.batches) != 0 {
		t.Errorf("empty input should issue zero lookups, issued %d", len(dir.batches))
	}
}

func TestEnrichDeduplicatesAuthorLookups(t *testing.T) {
	dir := &fakeDirectory{users: []models.User{{ID: "u1", Nickname: "one"}}}
	svc := NewPostService(nil, dir, nil, nil)

	posts := []models.Post{
		{ID: 3, UserID: strptr("u1")},
		{ID: 2, UserID: strptr("u2")},
		{ID: 1, UserID: strptr("u1")},
		{ID: 4}, // no author
	}

	if _, err := svc.Enrich(posts); err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}

	if len(dir.batches) != 1 {
		t.Fatalf("expected exactly one batched lookup, got %d", len(dir.batches))
	}
	batch := dir.batches[0]
	if len(batch) != 2 || batch[0] != "u1" || batch[1] != "u2" {
		t.Errorf("expected deduplicated batch [u1 u2], got %v", batch)
	}
}

func TestEnrichPreservesOrderAndToleratesMisses(t *testing.T) {
	// The directory answers out of order and knows nothing about u2.
	dir := &fakeDirectory{users: []models.User{
		{ID: "u3", Nickname: "three"},
		{ID: "u1", Nickname: "one"},
	}}
	svc := NewPostService(nil, dir, nil, nil)

	posts := []models.Post{
		{ID: 10, UserID: strptr("u1")},
		{ID: 11, UserID: strptr("u2")},
		{ID: 12, UserID: strptr("u3")},
	}

	enriched, err := svc.Enrich(posts)
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}
	if len(enriched) != 3 {
		t.Fatalf("expected 3 enriched posts, got %d", len(enriched))
	}

	for i, want := range []int64{10, 11, 12} {
		if enriched[i].ID != want {
			t.Errorf("output order broken at %d: got post %d, want %d", i, enriched[i].ID, want)
		}
	}
	if enriched[0].Author == nil || enriched[0].Author.Nickname != "one" {
		t.Error("post 10 should resolve author u1")
	}
	if enriched[1].Author != nil {
		t.Error("post 11's unknown author should be nil, not escalated")
	}
	if enriched[2].Author == nil || enriched[2].Author.Nickname != "three" {
		t.Error("post 12 should resolve author u3")
	}
}

func TestListPostsPagination(t *testing.T) {
	posts, users := newBoard(t)
	author, err := users.Register("author@b.com", "pw", "author")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for i := 0; i < 45; i++ {
		if _, err := posts.CreatePost("title", "content", author.ID); err != nil {
			t.Fatalf("CreatePost %d failed: %v", i, err)
		}
	}

	// Page 2 of 20 covers offset 20 through 39: ids 25 down to 6.
	page, total, err := posts.ListPosts(2, 20)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 45 {
		t.Errorf("expected total 45, got %d", total)
	}
	if len(page) != 20 {
		t.Fatalf("expected 20 posts, got %d", len(page))
	}
	if page[0].ID != 25 || page[19].ID != 6 {
		t.Errorf("expected ids 25..6, got %d..%d", page[0].ID, page[19].ID)
	}

	// Descending id order within the page.
	for i := 1; i < len(page); i++ {
		if page[i].ID >= page[i-1].ID {
			t.Fatalf("ordering broken at index %d: %d then %d", i, page[i-1].ID, page[i].ID)
		}
	}

	// The last page holds the remainder.
	page, _, err = posts.ListPosts(3, 20)
	if err != nil {
		t.Fatalf("ListPosts page 3 failed: %v", err)
	}
	if len(page) != 5 {
		t.Errorf("expected 5 posts on the last page, got %d", len(page))
	}

	// Out-of-range pages are empty, not errors.
	page, _, err = posts.ListPosts(4, 20)
	if err != nil {
		t.Fatalf("ListPosts page 4 failed: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(page))
	}

	// Every listed post resolves its author.
	firstPage, _, _ := posts.ListPosts(1, 20)
	if firstPage[0].Author == nil || firstPage[0].Author.ID != author.ID {
		t.Error("listed post did not resolve its author")
	}
}

func TestToggleLike(t *testing.T) {
	posts, users := newBoard(t)
	user, _ := users.Register("a@b.com", "pw", "a")
	post, err := posts.CreatePost("title", "content", user.ID)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	result, err := posts.ToggleLike(post.ID, user.ID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !result.Liked || result.LikeCount != 1 {
		t.Errorf("expected {liked:true, likeCount:1}, got %+v", result)
	}

	result, err = posts.ToggleLike(post.ID, user.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if result.Liked || result.LikeCount != 0 {
		t.Errorf("expected {liked:false, likeCount:0}, got %+v", result)
	}

	// Likes from other users accumulate independently.
	other, _ := users.Register("b@b.com", "pw", "b")
	if _, err := posts.ToggleLike(post.ID, other.ID); err != nil {
		t.Fatalf("toggle by other user failed: %v", err)
	}
	result, err = posts.ToggleLike(post.ID, user.ID)
	if err != nil {
		t.Fatalf("third toggle failed: %v", err)
	}
	if !result.Liked || result.LikeCount != 2 {
		t.Errorf("expected {liked:true, likeCount:2}, got %+v", result)
	}
}

func TestPostLifecycle(t *testing.T) {
	posts, users := newBoard(t)
	user, _ := users.Register("a@b.com", "pw", "a")

	post, err := posts.CreatePost("first", "hello board", user.ID)
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, err := posts.GetPostByID(post.ID)
	if err != nil {
		t.Fatalf("GetPostByID failed: %v", err)
	}
	if got.Title != "first" || got.Author == nil || got.Author.ID != user.ID {
		t.Errorf("unexpected enriched post: %+v", got)
	}
	if got.CreatedAtDisplay == "" || got.CreatedAtDisplay == "날짜 정보 없음" {
		t.Errorf("expected a formatted date, got %q", got.CreatedAtDisplay)
	}

	if _, err := posts.UpdatePost(post.ID, "edited", "new content"); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	got, _ = posts.GetPostByID(post.ID)
	if got.Title != "edited" {
		t.Errorf("title not updated: %q", got.Title)
	}

	if _, err := posts.ToggleLike(post.ID, user.ID); err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if err := posts.DeletePost(post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := posts.GetPostByID(post.ID); err == nil {
		t.Error("deleted post still readable")
	}
	count, err := posts.CountLikes(post.ID)
	if err != nil {
		t.Fatalf("CountLikes failed: %v", err)
	}
	if count != 0 {
		t.Errorf("likes survived post deletion: %d", count)
	}
}

func TestFormatKoreanDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC), "2026년 3월 5일 오후 02:30"},
		{time.Date(2026, 3, 5, 0, 7, 0, 0, time.UTC), "2026년 3월 5일 오전 12:07"},
		{time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC), "2026년 12월 31일 오후 12:00"},
		{time.Time{}, "날짜 정보 없음"},
	}

	for _, tt := range tests {
		if got := formatKoreanDate(tt.in); got != tt.want {
			t.Errorf("formatKoreanDate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
