package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fastcm/shophub-be/internal/apperrors"
	"github.com/fastcm/shophub-be/internal/models"
	"github.com/fastcm/shophub-be/internal/websocket"
)

// DefaultPageSize is the fixed page size for post listings.
const DefaultPageSize = 20

// UserDirectory is the author-lookup dependency of post enrichment. The
// user service satisfies it.
type UserDirectory interface {
	GetUsersByIDs(ids []string) ([]models.User, error)
}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	ListPosts(page, limit int) ([]models.EnrichedPost, int, error)
	GetPostByID(id int64) (models.EnrichedPost, error)
	CreatePost(title, content, userID string) (models.Post, error)
	UpdatePost(id int64, title, content string) (models.Post, error)
	DeletePost(id int64) error
	Enrich(posts []models.Post) ([]models.EnrichedPost, error)
	ToggleLike(postID int64, userID string) (models.LikeResult, error)
	CountLikes(postID int64) (int, error)
}

// PostService provides business logic for the bulletin board.
type PostService struct {
	db     *sql.DB
	users  UserDirectory
	events EventServiceProvider
	hub    *websocket.Hub
}

// NewPostService creates a new PostService. The hub may be nil when no live
// like-count fan-out is wanted.
func NewPostService(db *sql.DB, users UserDirectory, events EventServiceProvider, hub *websocket.Hub) *PostService {
	return &PostService{db: db, users: users, events: events, hub: hub}
}

// ListPosts returns one page of posts, newest first by id, enriched with
// author records and display dates, along with the total post count so the
// caller can compute total pages. Offset is (page-1)*limit; page numbers
// are 1-indexed.
func (s *PostService) ListPosts(page, limit int) ([]models.EnrichedPost, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	offset := (page - 1) * limit

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query("SELECT id, title, content, user_id, created_at FROM posts ORDER BY id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	enriched, err := s.Enrich(posts)
	if err != nil {
		return nil, 0, err
	}
	return enriched, total, nil
}

// GetPostByID retrieves a single post, enriched.
func (s *PostService) GetPostByID(id int64) (models.EnrichedPost, error) {
	row := s.db.QueryRow("SELECT id, title, content, user_id, created_at FROM posts WHERE id = ?", id)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EnrichedPost{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("post %d not found", id))
		}
		return models.EnrichedPost{}, err
	}

	enriched, err := s.Enrich([]models.Post{post})
	if err != nil {
		return models.EnrichedPost{}, err
	}
	return enriched[0], nil
}

// CreatePost inserts a new post for the given author.
func (s *PostService) CreatePost(title, content, userID string) (models.Post, error) {
	post := models.Post{
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if userID != "" {
		post.UserID = &userID
	}

	res, err := s.db.Exec("INSERT INTO posts(title, content, user_id, created_at) VALUES(?, ?, ?, ?)",
		post.Title, post.Content, post.UserID, post.CreatedAt)
	if err != nil {
		return models.Post{}, err
	}
	post.ID, err = res.LastInsertId()
	if err != nil {
		return models.Post{}, err
	}

	if s.events != nil {
		s.events.CreateEvent("post.create", "info", fmt.Sprintf("Post '%s' created.", post.Title), post.UserID)
	}
	return post, nil
}

// UpdatePost replaces a post's title and content.
func (s *PostService) UpdatePost(id int64, title, content string) (models.Post, error) {
	res, err := s.db.Exec("UPDATE posts SET title = ?, content = ? WHERE id = ?", title, content, id)
	if err != nil {
		return models.Post{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Post{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("post %d not found", id))
	}

	row := s.db.QueryRow("SELECT id, title, content, user_id, created_at FROM posts WHERE id = ?", id)
	return scanPost(row)
}

// DeletePost removes a post and its likes.
func (s *PostService) DeletePost(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM post_likes WHERE post_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("post %d not found", id))
	}
	return tx.Commit()
}

// Enrich attaches an author record and a localized display date to each
// post. Author ids are deduplicated and resolved in a single batched
// lookup; posts whose author is absent or unresolvable get a nil author.
// Output order matches input order. Empty input yields empty output with
// zero lookups.
func (s *PostService) Enrich(posts []models.Post) ([]models.EnrichedPost, error) {
	if len(posts) == 0 {
		return []models.EnrichedPost{}, nil
	}

	seen := make(map[string]bool)
	ids := []string{}
	for _, post := range posts {
		if post.UserID != nil && !seen[*post.UserID] {
			seen[*post.UserID] = true
			ids = append(ids, *post.UserID)
		}
	}

	authors := make(map[string]models.User)
	if len(ids) > 0 {
		users, err := s.users.GetUsersByIDs(ids)
		if err != nil {
			// A failed author lookup degrades to authorless posts
			// rather than failing the whole listing.
			log.Warn().Err(err).Msg("Author lookup failed, rendering posts without authors")
		} else {
			for _, user := range users {
				authors[user.ID] = user
			}
		}
	}

	enriched := make([]models.EnrichedPost, 0, len(posts))
	for _, post := range posts {
		ep := models.EnrichedPost{
			Post:             post,
			CreatedAtDisplay: formatKoreanDate(post.CreatedAt),
		}
		if post.UserID != nil {
			if author, ok := authors[*post.UserID]; ok {
				a := author
				ep.Author = &a
			}
		}
		enriched = append(enriched, ep)
	}
	return enriched, nil
}

// ToggleLike flips the (postID, userID) like row and returns the resulting
// state with the post's fresh like count. The delete-or-insert and the
// recount run in one transaction, and the composite primary key on
// post_likes rejects a racing duplicate insert, so concurrent toggles
// cannot drift the count.
func (s *PostService) ToggleLike(postID int64, userID string) (models.LikeResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.LikeResult{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID)
	if err != nil {
		return models.LikeResult{}, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return models.LikeResult{}, err
	}

	liked := false
	if deleted == 0 {
		if _, err := tx.Exec("INSERT INTO post_likes(post_id, user_id, created_at) VALUES(?, ?, ?)", postID, userID, time.Now().UTC()); err != nil {
			return models.LikeResult{}, err
		}
		liked = true
	}

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM post_likes WHERE post_id = ?", postID).Scan(&count); err != nil {
		return models.LikeResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.LikeResult{}, err
	}

	if s.hub != nil {
		s.hub.BroadcastTo(websocket.PostTopic(postID), websocket.NewLikeUpdateMessage(postID, count))
	}
	if s.events != nil {
		action := "post.unlike"
		if liked {
			action = "post.like"
		}
		s.events.CreateEvent(action, "info", fmt.Sprintf("Post %d like toggled.", postID), &userID)
	}

	return models.LikeResult{Liked: liked, LikeCount: count}, nil
}

// CountLikes returns the current like count for a post.
func (s *PostService) CountLikes(postID int64) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM post_likes WHERE post_id = ?", postID).Scan(&count)
	return count, err
}

func scanPost(row interface{ Scan(...interface{}) error }) (models.Post, error) {
	var post models.Post
	var userID sql.NullString
	if err := row.Scan(&post.ID, &post.Title, &post.Content, &userID, &post.CreatedAt); err != nil {
		return models.Post{}, err
	}
	if userID.Valid {
		post.UserID = &userID.String
	}
	return post, nil
}

func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// formatKoreanDate renders a creation time the way the board displays it:
// "2026년 1월 2일 오후 03:04". The zero time renders the no-date marker.
func formatKoreanDate(t time.Time) string {
	if t.IsZero() {
		return "날짜 정보 없음"
	}
	meridiem := "오전"
	hour := t.Hour()
	if hour >= 12 {
		meridiem = "오후"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d년 %d월 %d일 %s %02d:%02d",
		t.Year(), int(t.Month()), t.Day(), meridiem, hour12, t.Minute())
}
