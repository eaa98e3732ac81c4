package notificationstore

import (
	"testing"
	"time"

	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/dalemusser/stratarent/internal/testutil"
)

func TestStore_SelectActive_HighestPriorityBanner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	banner := []string{models.LocationBanner}

	for _, in := range []CreateInput{
		{Title: "A", Message: "m", Priority: 5, Active: true, StartDate: start, EndDate: &end, DisplayLocation: banner},
		{Title: "B", Message: "m", Priority: 8, Active: true, StartDate: start, EndDate: &end, DisplayLocation: banner},
		{Title: "C", Message: "m", Priority: 9, Active: false, StartDate: start, EndDate: &end, DisplayLocation: banner},
	} {
		if _, err := store.Create(ctx, in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := store.SelectActive(ctx, models.LocationBanner, now, 1)
	if err != nil {
		t.Fatalf("SelectActive() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "B" {
		t.Fatalf("SelectActive() = %+v, want [B]", got)
	}
}

func TestStore_SelectActive_Window(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	past := now.Add(-2 * time.Hour)
	ended := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	home := []string{models.LocationHomepage}

	_, _ = store.Create(ctx, CreateInput{Title: "open", Message: "m", Active: true, StartDate: past, DisplayLocation: home})
	_, _ = store.Create(ctx, CreateInput{Title: "ended", Message: "m", Active: true, StartDate: past, EndDate: &ended, DisplayLocation: home})
	_, _ = store.Create(ctx, CreateInput{Title: "upcoming", Message: "m", Active: true, StartDate: future, DisplayLocation: home})
	_, _ = store.Create(ctx, CreateInput{Title: "popup", Message: "m", Active: true, StartDate: past, DisplayLocation: []string{models.LocationPopup}})

	got, err := store.SelectActive(ctx, models.LocationHomepage, now, 0)
	if err != nil {
		t.Fatalf("SelectActive() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "open" {
		t.Errorf("SelectActive() = %+v, want [open]", got)
	}

	none, err := store.SelectActive(ctx, models.LocationBanner, now, 1)
	if err != nil {
		t.Fatalf("SelectActive() error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("SelectActive(banner) = %v, want []", none)
	}
}

func TestStore_Create_ClampsAndDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := store.Create(ctx, CreateInput{Title: "t", Message: "m", Priority: 99, StartDate: time.Now()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if n.Priority != models.MaxNotificationPriority {
		t.Errorf("Priority = %d, want %d", n.Priority, models.MaxNotificationPriority)
	}
	if n.Type != models.NotificationInfo {
		t.Errorf("Type = %q, want info", n.Type)
	}
	if len(n.DisplayLocation) != 1 || n.DisplayLocation[0] != models.LocationBanner {
		t.Errorf("DisplayLocation = %v", n.DisplayLocation)
	}

	low := -3
	up, err := store.Update(ctx, n.ID, UpdateInput{Priority: &low})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if up.Priority != 0 {
		t.Errorf("Priority = %d, want 0", up.Priority)
	}
}

func TestStore_Update_ClearEndDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	end := time.Now().Add(time.Hour)
	n, _ := store.Create(ctx, CreateInput{Title: "t", Message: "m", StartDate: time.Now(), EndDate: &end})

	up, err := store.Update(ctx, n.ID, UpdateInput{ClearEndDate: true})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if up.EndDate != nil {
		t.Errorf("EndDate = %v, want nil", up.EndDate)
	}
}

func TestStore_List_Order(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Now()
	_, _ = store.Create(ctx, CreateInput{Title: "low", Message: "m", Priority: 1, StartDate: start})
	_, _ = store.Create(ctx, CreateInput{Title: "high", Message: "m", Priority: 7, StartDate: start})

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "high" {
		t.Errorf("List() = %+v", got)
	}
}
