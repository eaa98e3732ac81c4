package seeding

import (
	"testing"

	menustore "github.com/dalemusser/stratarent/internal/app/store/menus"
	pagestore "github.com/dalemusser/stratarent/internal/app/store/pages"
	seosettingsstore "github.com/dalemusser/stratarent/internal/app/store/seosettings"
	servicestore "github.com/dalemusser/stratarent/internal/app/store/services"
	userstore "github.com/dalemusser/stratarent/internal/app/store/users"
	"github.com/dalemusser/stratarent/internal/app/system/authutil"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/dalemusser/stratarent/internal/testutil"
	"go.uber.org/zap"
)

func TestSeedAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	opts := Options{AdminEmail: "Owner@Example.com", AdminPassword: "correct-horse-battery"}
	for i := 0; i < 2; i++ {
		if err := SeedAll(ctx, db, opts, zap.NewNop()); err != nil {
			t.Fatalf("SeedAll() run %d error = %v", i+1, err)
		}
	}

	pages, _ := pagestore.New(db).GetAll(ctx)
	if len(pages) != len(models.AllPageSlugs()) {
		t.Errorf("pages = %d, want %d", len(pages), len(models.AllPageSlugs()))
	}

	exists, _ := seosettingsstore.New(db).Exists(ctx)
	if !exists {
		t.Error("SEO settings should be seeded")
	}

	menus, _ := menustore.New(db).List(ctx, "", false)
	if len(menus) != 7 {
		t.Errorf("menus = %d, want 7", len(menus))
	}

	services, _ := servicestore.New(db).List(ctx, true)
	if len(services) != 4 || services[0].Slug != "airport-pickup" {
		t.Errorf("services = %+v, want 4 starting with airport-pickup", services)
	}

	users := userstore.New(db)
	n, _ := users.CountActiveAdmins(ctx)
	if n != 1 {
		t.Fatalf("admins = %d, want 1", n)
	}
	admin, err := users.GetByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if !authutil.CheckPassword("correct-horse-battery", admin.PasswordHash) {
		t.Error("seeded admin password does not verify")
	}
}

func TestSeedAll_RejectsWeakAdminPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := SeedAll(ctx, db, Options{AdminEmail: "owner@example.com", AdminPassword: "short"}, zap.NewNop())
	if err == nil {
		t.Fatal("SeedAll() should reject a weak admin password")
	}
}

func TestSeedAll_NoAdminConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := SeedAll(ctx, db, Options{}, zap.NewNop()); err != nil {
		t.Fatalf("SeedAll() error = %v", err)
	}
	n, _ := userstore.New(db).CountActiveAdmins(ctx)
	if n != 0 {
		t.Errorf("admins = %d, want 0", n)
	}
}
