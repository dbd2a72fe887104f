package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Benefits:
// - Fast: no disk I/O
// - Isolated: each test gets its own database
// - Clean: automatically destroyed when the connection closes
//
// newTestDB is a "test helper" — a function used only in tests to reduce
// boilerplate. The `t.Helper()` call tells Go's test framework to report
// errors at the CALLER's line number, not inside this function.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$12$notarealhash",
		DisplayName:  username,
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user %q: %v", username, err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$12$notarealhash",
		DisplayName:  "Alice",
		Bio:          "shoots film",
	}

	err := db.Users().Create(context.Background(), user)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Verify the user was modified in-place (pointer receiver)
	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "bob")

	duplicate := &model.User{
		Username: "bob", // same username, different email
		Email:    "other@example.com",
	}
	err := db.Users().Create(context.Background(), duplicate)
	if err == nil {
		t.Fatal("Create() should have returned an error for duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "carol")

	duplicate := &model.User{
		Username: "carol2",
		Email:    "carol@example.com", // same email
	}
	err := db.Users().Create(context.Background(), duplicate)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestUserCreate_GitHubAccount(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username: "octocat",
		Email:    "octocat@example.com",
		GitHubID: 583231,
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := db.Users().GetByGitHubID(context.Background(), 583231)
	if err != nil {
		t.Fatalf("GetByGitHubID() error = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("ID = %q, want %q", found.ID, user.ID)
	}
}

// Two local accounts both have GitHubID 0 — stored as NULL, so the UNIQUE
// constraint on github_id must not fire.
func TestUserCreate_TwoLocalAccounts(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "local_one")
	createTestUser(t, db, "local_two")
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "dave")

	found, err := db.Users().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Username != "dave" {
		t.Errorf("Username = %q, want %q", found.Username, "dave")
	}
	if found.PasswordHash == "" {
		t.Error("GetByID() did not return the password hash")
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "erin")

	found, err := db.Users().GetByUsername(context.Background(), "erin")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByGitHubID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByGitHubID(context.Background(), 999999999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByGitHubID() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST AND COUNT TESTS
// =========================================================================

func TestUserListAndCount(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "user_a")
	createTestUser(t, db, "user_b")
	createTestUser(t, db, "user_c")

	users, err := db.Users().List(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 3 {
		t.Errorf("List() returned %d users, want 3", len(users))
	}

	count, err := db.Users().Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

// =========================================================================
// UPDATE PROFILE TESTS
// =========================================================================

func TestUserUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "frank")

	created.DisplayName = "Frank Updated"
	created.Bio = "night photography"
	created.ProfileImage = "frank.jpg"
	if err := db.Users().UpdateProfile(context.Background(), created); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	found, err := db.Users().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() after update: %v", err)
	}
	if found.DisplayName != "Frank Updated" {
		t.Errorf("DisplayName = %q, want %q", found.DisplayName, "Frank Updated")
	}
	if found.Bio != "night photography" {
		t.Errorf("Bio = %q, want %q", found.Bio, "night photography")
	}
}

func TestUserUpdateProfile_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.User{ID: "nope", DisplayName: "Ghost"}
	err := db.Users().UpdateProfile(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateProfile() error = %v, want ErrNotFound", err)
	}
}
