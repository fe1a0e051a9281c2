package services

import (
	"testing"
	"time"

	"github.com/fastcm/shophub-be/internal/apperrors"
	"github.com/fastcm/shophub-be/internal/auth"
	"github.com/fastcm/shophub-be/internal/models"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(newTestDB(t), auth.NewHasher("test-secret"))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Register("a@b.com", "hunter22", "tester")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("registered user has no id")
	}
	if !user.IsActive {
		t.Error("registered user should be active")
	}
	if user.PasswordDigest != "" {
		t.Error("Register leaked the password digest")
	}

	got, err := svc.Authenticate("a@b.com", "hunter22")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("authenticated wrong user: %s != %s", got.ID, user.ID)
	}
	if got.PasswordDigest != "" {
		t.Error("Authenticate leaked the password digest")
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	svc := newUserService(t)
	if _, err := svc.Register("a@b.com", "hunter22", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Authenticate("a@b.com", "wrong")
	if err == nil {
		t.Fatal("expected error for wrong password")
	}
	if apperrors.CodeOf(err) != apperrors.CodeAuthError {
		t.Errorf("expected AUTH_ERROR, got %s", apperrors.CodeOf(err))
	}

	_, err = svc.Authenticate("nobody@b.com", "hunter22")
	if err == nil {
		t.Fatal("expected error for unknown email")
	}
	if apperrors.CodeOf(err) != apperrors.CodeAuthError {
		t.Errorf("expected AUTH_ERROR for unknown email, got %s", apperrors.CodeOf(err))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService(t)
	if _, err := svc.Register("a@b.com", "first", ""); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register("a@b.com", "second", "")
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if apperrors.CodeOf(err) != apperrors.CodeEmailInUse {
		t.Errorf("expected EMAIL_IN_USE, got %s", apperrors.CodeOf(err))
	}

	// The duplicate attempt must not have inserted a row.
	users, err := svc.GetUsers()
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user after duplicate attempt, got %d", len(users))
	}
}

func TestDeactivateUser(t *testing.T) {
	svc := newUserService(t)
	user, err := svc.Register("a@b.com", "hunter22", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.DeactivateUser(user.ID); err != nil {
		t.Fatalf("DeactivateUser failed: %v", err)
	}

	// Deactivated accounts cannot sign in...
	if _, err := svc.Authenticate("a@b.com", "hunter22"); err == nil {
		t.Error("deactivated account authenticated")
	}

	// ...and vanish from the active listing, but the row survives.
	users, err := svc.GetUsers()
	if err != nil {
		t.Fatalf("GetUsers failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected 0 active users, got %d", len(users))
	}
	got, err := svc.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed after deactivation: %v", err)
	}
	if got.IsActive {
		t.Error("deactivated account still marked active")
	}
}

func TestGetUsersByIDs(t *testing.T) {
	svc := newUserService(t)

	// Empty input touches nothing and returns an empty slice.
	users, err := svc.GetUsersByIDs(nil)
	if err != nil {
		t.Fatalf("GetUsersByIDs(nil) failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected empty result, got %d users", len(users))
	}

	a, _ := svc.Register("a@b.com", "pw", "a")
	b, _ := svc.Register("b@b.com", "pw", "b")
	if err := svc.DeactivateUser(b.ID); err != nil {
		t.Fatalf("DeactivateUser failed: %v", err)
	}

	// Unknown ids are tolerated; deactivated accounts are filtered out.
	users, err = svc.GetUsersByIDs([]string{a.ID, b.ID, "no-such-id"})
	if err != nil {
		t.Fatalf("GetUsersByIDs failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != a.ID {
		t.Errorf("expected only the active user %s, got %+v", a.ID, users)
	}
}

func TestUpdateUser(t *testing.T) {
	svc := newUserService(t)
	user, _ := svc.Register("a@b.com", "old-password", "old-nick")

	nickname := "new-nick"
	password := "new-password"
	updated, err := svc.UpdateUser(user.ID, models.UserUpdate{Nickname: &nickname, Password: &password})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Nickname != "new-nick" {
		t.Errorf("nickname not updated: %q", updated.Nickname)
	}

	if _, err := svc.Authenticate("a@b.com", "new-password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, err := svc.Authenticate("a@b.com", "old-password"); err == nil {
		t.Error("old password still accepted")
	}
}

func TestPurgeDeactivated(t *testing.T) {
	svc := newUserService(t)
	user, _ := svc.Register("a@b.com", "pw", "")
	keep, _ := svc.Register("keep@b.com", "pw", "")

	if err := svc.DeactivateUser(user.ID); err != nil {
		t.Fatalf("DeactivateUser failed: %v", err)
	}

	// A cutoff in the past purges nothing.
	n, err := svc.PurgeDeactivated(time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("PurgeDeactivated failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 purged with old cutoff, got %d", n)
	}

	// A future cutoff removes the deactivated row and leaves active ones.
	n, err = svc.PurgeDeactivated(time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("PurgeDeactivated failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged, got %d", n)
	}
	if _, err := svc.GetUserByID(keep.ID); err != nil {
		t.Errorf("active user was purged: %v", err)
	}
	if _, err := svc.GetUserByID(user.ID); err == nil {
		t.Error("deactivated user survived the purge")
	}
}
