package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fastcm/shophub-be/internal/auth"
	"github.com/fastcm/shophub-be/internal/services"
)

// PostHandler handles HTTP requests for the bulletin board.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// PostPayload defines the structure for post write requests.
type PostPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List handles the paginated board listing. Pages are 1-indexed with a
// fixed default size; the response carries the total count and total page
// number so the client can render the pager.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = services.DefaultPageSize
	}

	posts, total, err := h.service.ListPosts(page, limit)
	if err != nil {
		log.Error().Err(err).Int("page", page).Msg("Failed to list posts")
		respondError(w, err)
		return
	}

	totalPages := (total + limit - 1) / limit
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"posts":      posts,
		"totalCount": total,
		"page":       page,
		"totalPages": totalPages,
	})
}

// Get handles retrieving a single post with its like count.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.service.GetPostByID(id)
	if err != nil {
		log.Warn().Err(err).Int64("post_id", id).Msg("Failed to get post")
		respondError(w, err)
		return
	}

	likeCount, err := h.service.CountLikes(id)
	if err != nil {
		log.Error().Err(err).Int64("post_id", id).Msg("Failed to count likes")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"post":      post,
		"likeCount": likeCount,
	})
}

// Create handles the write flow for authenticated users.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Title == "" || payload.Content == "" {
		http.Error(w, "Title and content are required", http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(payload.Title, payload.Content, claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create post")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// Update handles post edits by the author or an admin.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}
	if !h.canModify(w, r, id) {
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.service.UpdatePost(id, payload.Title, payload.Content)
	if err != nil {
		log.Error().Err(err).Int64("post_id", id).Msg("Failed to update post")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// Delete handles post removal by the author or an admin.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}
	if !h.canModify(w, r, id) {
		return
	}

	if err := h.service.DeletePost(id); err != nil {
		log.Error().Err(err).Int64("post_id", id).Msg("Failed to delete post")
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike flips the caller's like on a post and returns the new state
// with the fresh count.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	result, err := h.service.ToggleLike(id, claims.UserID)
	if err != nil {
		log.Error().Err(err).Int64("post_id", id).Str("user_id", claims.UserID).Msg("Failed to toggle like")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// canModify enforces author-or-admin on write operations. It writes the
// failure response itself and reports whether the caller may proceed.
func (h *PostHandler) canModify(w http.ResponseWriter, r *http.Request, postID int64) bool {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return false
	}
	if claims.IsAdmin {
		return true
	}

	post, err := h.service.GetPostByID(postID)
	if err != nil {
		respondError(w, err)
		return false
	}
	if post.UserID == nil || *post.UserID != claims.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}
