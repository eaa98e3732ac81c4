package userstore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/dalemusser/stratarent/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.Create(ctx, models.User{
		FullName: "  Test   User ",
		Email:    "Test@Example.COM",
		Role:     "Admin",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.ID.IsZero() {
		t.Error("ID should be set")
	}
	if u.Email != "test@example.com" {
		t.Errorf("Email = %q, want lowercased", u.Email)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want admin", u.Role)
	}
	if u.Status != models.StatusActive {
		t.Errorf("Status = %q, want active", u.Status)
	}
	if u.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{Email: "x@example.com", Role: "superuser"})
	if !errors.Is(err, errBadRole) {
		t.Errorf("Create() error = %v, want errBadRole", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "dup@example.com"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err := store.Create(ctx, models.User{Email: "DUP@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Create() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, _ := store.Create(ctx, models.User{Email: "lookup@example.com", PasswordHash: "hash"})

	got, err := store.GetByEmail(ctx, " LOOKUP@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %v, want %v", got.ID, created.ID)
	}
	if got.PasswordHash != "hash" {
		t.Error("PasswordHash should be loaded for login")
	}

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByEmail(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_SetPasswordAndLastLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, _ := store.Create(ctx, models.User{Email: "pw@example.com"})

	if err := store.SetPasswordHash(ctx, u.ID, "newhash"); err != nil {
		t.Fatalf("SetPasswordHash() error = %v", err)
	}
	if err := store.SetLastLogin(ctx, u.ID, time.Now()); err != nil {
		t.Fatalf("SetLastLogin() error = %v", err)
	}
	got, _ := store.GetByID(ctx, u.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("PasswordHash = %q", got.PasswordHash)
	}
	if got.LastLoginAt == nil {
		t.Error("LastLoginAt should be set")
	}

	if err := store.SetPasswordHash(ctx, primitive.NewObjectID(), "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetPasswordHash(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_CountActiveAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, _ = store.Create(ctx, models.User{Email: "a1@example.com", Role: models.RoleAdmin})
	_, _ = store.Create(ctx, models.User{Email: "a2@example.com", Role: models.RoleAdmin, Status: models.StatusDisabled})
	_, _ = store.Create(ctx, models.User{Email: "u1@example.com", Role: models.RoleUser})

	n, err := store.CountActiveAdmins(ctx)
	if err != nil {
		t.Fatalf("CountActiveAdmins() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountActiveAdmins() = %d, want 1", n)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fetcher := NewFetcher(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{FullName: "Fetch User", Email: "fetch@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p := fetcher.FetchUser(ctx, created.ID.Hex())
	if p == nil {
		t.Fatal("FetchUser() returned nil for existing user")
	}
	if p.Kind != auth.User || p.UserID != created.ID {
		t.Errorf("principal = %+v", p)
	}
	if p.Name != "Fetch User" || p.Email != "fetch@example.com" {
		t.Errorf("Name/Email = %q/%q", p.Name, p.Email)
	}
	if !p.IsAdmin() {
		t.Error("principal should be admin")
	}
}

func TestFetcher_FetchUser_Rejects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	fetcher := NewFetcher(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	disabled, _ := store.Create(ctx, models.User{Email: "disabled@example.com", Role: "admin"})
	_, _ = db.Collection("users").UpdateOne(ctx, bson.M{"_id": disabled.ID}, bson.M{
		"$set": bson.M{"status": models.StatusDisabled},
	})

	for name, id := range map[string]string{
		"invalid id": "invalid-id",
		"not found":  primitive.NewObjectID().Hex(),
		"disabled":   disabled.ID.Hex(),
	} {
		if p := fetcher.FetchUser(ctx, id); p != nil {
			t.Errorf("%s: FetchUser() = %+v, want nil", name, p)
		}
	}
}
