package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fastcm/shophub-be/internal/apperrors"
	"github.com/fastcm/shophub-be/internal/auth"
	"github.com/fastcm/shophub-be/internal/models"
	"github.com/fastcm/shophub-be/internal/services"
)

// UserHandler handles HTTP requests for accounts and sessions.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenManager
	events  services.EventServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenManager, events services.EventServiceProvider) *UserHandler {
	return &UserHandler{service: service, tokens: tokens, events: events}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// Register handles new user registration. A duplicate email comes back as
// EMAIL_IN_USE without an insert being attempted.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Email == "" || payload.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(payload.Email, payload.Password, payload.Nickname)
	if err != nil {
		if apperrors.CodeOf(err) != apperrors.CodeEmailInUse {
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		}
		respondError(w, err)
		return
	}

	h.events.CreateEvent("auth.register", "info", "New account registered.", &user.ID)
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication and JWT generation. Successful sign-ins
// are recorded as events so subscribers can react to session changes.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	h.events.CreateEvent("auth.login", "info", "User signed in.", &user.ID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout clears the session cookie and records the sign-out event.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		h.events.CreateEvent("auth.logout", "info", "User signed out.", &claims.UserID)
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("User from token not found in DB")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// List handles retrieving all active users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to get user by ID")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Update handles partial updates to a user's profile. Users may update
// themselves; only admins may update others or touch the admin/active flags.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || (claims.UserID != id && !claims.IsAdmin) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var payload models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !claims.IsAdmin {
		payload.IsAdmin = nil
		payload.IsActive = nil
	}

	user, err := h.service.UpdateUser(id, payload)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to update user")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Deactivate handles soft deletion of an account.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || (claims.UserID != id && !claims.IsAdmin) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := h.service.DeactivateUser(id); err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("Failed to deactivate user")
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
