package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fastcm/shophub-be/internal/apperrors"
	"github.com/fastcm/shophub-be/internal/auth"
	"github.com/fastcm/shophub-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(email, password, nickname string) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	GetUsersByIDs(ids []string) ([]models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(id string, update models.UserUpdate) (models.User, error)
	DeactivateUser(id string) error
	PurgeDeactivated(olderThan time.Time) (int64, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db     *sql.DB
	hasher *auth.Hasher
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, hasher *auth.Hasher) *UserService {
	return &UserService{db: db, hasher: hasher}
}

const userColumns = "id, email, nickname, password_digest, profile_image_url, is_active, is_admin, created_at, modified_at"

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var user models.User
	var nickname, profileImage sql.NullString
	err := row.Scan(&user.ID, &user.Email, &nickname, &user.PasswordDigest, &profileImage,
		&user.IsActive, &user.IsAdmin, &user.CreatedAt, &user.ModifiedAt)
	if err != nil {
		return models.User{}, err
	}
	user.Nickname = nickname.String
	user.ProfileImageURL = profileImage.String
	return user, nil
}

// Register creates a new account. The email-uniqueness pre-check is what
// produces the EMAIL_IN_USE error the signup form displays; the UNIQUE
// constraint on the column backstops the pre-check against concurrent
// registrations, and a constraint violation maps to the same code.
func (s *UserService) Register(email, password, nickname string) (models.User, error) {
	var existing string
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&existing)
	if err == nil {
		return models.User{}, apperrors.New(apperrors.CodeEmailInUse, "Email already in use")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.Wrap(apperrors.CodeRegistration, "Failed to register user", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		// Hashing failure is terminal, not an expected failure mode.
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:             uuid.New().String(),
		Email:          email,
		Nickname:       nickname,
		PasswordDigest: digest,
		IsActive:       true,
		CreatedAt:      now,
		ModifiedAt:     now,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, email, nickname, password_digest, is_active, is_admin, created_at, modified_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, apperrors.Wrap(apperrors.CodeRegistration, "Failed to register user", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Email, user.Nickname, user.PasswordDigest, user.IsActive, user.IsAdmin, user.CreatedAt, user.ModifiedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperrors.New(apperrors.CodeEmailInUse, "Email already in use")
		}
		return models.User{}, apperrors.Wrap(apperrors.CodeRegistration, "Failed to register user", err)
	}

	// Return user without password digest
	user.PasswordDigest = ""
	return user, nil
}

// Authenticate verifies a user's credentials against the active user row
// for the given email. Both a missing account and a digest mismatch come
// back as the same AUTH_ERROR so the login form cannot be used to probe for
// registered addresses.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ? AND is_active = 1", email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperrors.New(apperrors.CodeAuthError, "Invalid credentials")
		}
		return models.User{}, apperrors.Wrap(apperrors.CodeAuthError, "Authentication failed: database error", err)
	}

	if !s.hasher.Verify(password, user.PasswordDigest) {
		return models.User{}, apperrors.New(apperrors.CodeAuthError, "Invalid credentials")
	}

	// Don't send the password digest to the client
	user.PasswordDigest = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("user with ID %s not found", id))
		}
		return models.User{}, err
	}
	user.PasswordDigest = ""
	return user, nil
}

// GetUsersByIDs retrieves the active users matching the given ids in one
// query. An empty id list returns an empty slice without touching the
// database.
func (s *UserService) GetUsersByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query("SELECT "+userColumns+" FROM users WHERE id IN ("+placeholders+") AND is_active = 1", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

// GetUsers retrieves all active users ordered by email.
func (s *UserService) GetUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT " + userColumns + " FROM users WHERE is_active = 1 ORDER BY email ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		user.PasswordDigest = ""
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial update. A supplied password is re-hashed
// before storage; modified_at always moves.
func (s *UserService) UpdateUser(id string, update models.UserUpdate) (models.User, error) {
	sets := []string{}
	args := []interface{}{}

	if update.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *update.Email)
	}
	if update.Password != nil {
		digest, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		sets = append(sets, "password_digest = ?")
		args = append(args, digest)
	}
	if update.Nickname != nil {
		sets = append(sets, "nickname = ?")
		args = append(args, *update.Nickname)
	}
	if update.ProfileImageURL != nil {
		sets = append(sets, "profile_image_url = ?")
		args = append(args, *update.ProfileImageURL)
	}
	if update.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *update.IsActive)
	}
	if update.IsAdmin != nil {
		sets = append(sets, "is_admin = ?")
		args = append(args, *update.IsAdmin)
	}

	sets = append(sets, "modified_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	res, err := s.db.Exec("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperrors.New(apperrors.CodeEmailInUse, "Email already in use")
		}
		return models.User{}, apperrors.Wrap(apperrors.CodeUserUpdate, "Failed to update user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.User{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("user with ID %s not found", id))
	}

	return s.GetUserByID(id)
}

// DeactivateUser soft-deletes an account by clearing its active flag. The
// row stays behind so existing posts keep their author id until a purge
// task removes it.
func (s *UserService) DeactivateUser(id string) error {
	res, err := s.db.Exec("UPDATE users SET is_active = 0, modified_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUserUpdate, "Failed to deactivate user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("user with ID %s not found", id))
	}
	return nil
}

// PurgeDeactivated hard-deletes accounts that have been inactive since
// before the cutoff. Used by the maintenance scheduler.
func (s *UserService) PurgeDeactivated(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM users WHERE is_active = 0 AND modified_at < ?", olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// isUniqueViolation reports whether err is a sqlite unique-constraint
// failure. The driver exposes no typed error for it, so match the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
