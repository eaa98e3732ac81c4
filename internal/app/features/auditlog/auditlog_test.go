package auditlog

import (
	"context"
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	userstore "github.com/dalemusser/stratarent/internal/app/store/users"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/dalemusser/stratarent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setup(t *testing.T) (http.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return Routes(NewHandler(db, errorsfeature.NewErrorLogger(logger), logger)), db
}

func list(t *testing.T, router http.Handler, query string) Page {
	t.Helper()
	req := testutil.WithUser(testutil.NewRequest(http.MethodGet, "/"+query), testutil.AdminUser())
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p Page
	rec.DecodeJSON(t, &p)
	return p
}

func TestList_FiltersAndResolvesActor(t *testing.T) {
	router, db := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u, err := userstore.New(db).Create(ctx, models.User{Email: "ops@example.com", FullName: "Ops Person", Role: models.RoleAdmin})
	require.NoError(t, err)

	store := audit.New(db)
	require.NoError(t, store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &u.ID, Success: true}))
	require.NoError(t, store.Log(ctx, audit.Event{Category: audit.CategoryContent, EventType: audit.EventCreated, ActorID: &u.ID, Success: true,
		Details: map[string]string{"entity": "cars", "id": "abc"}}))

	all := list(t, router, "")
	assert.EqualValues(t, 2, all.Total)
	require.Len(t, all.Items, 2)
	for _, it := range all.Items {
		assert.Equal(t, "Ops Person", it.ActorName)
	}

	content := list(t, router, "?category=content")
	require.Len(t, content.Items, 1)
	assert.Equal(t, "cars", content.Items[0].Details["entity"])
	assert.Equal(t, []string{audit.EventCreated, audit.EventUpdated, audit.EventDeleted}, content.EventTypes)
}

func TestList_EmptyAndValidation(t *testing.T) {
	router, _ := setup(t)

	p := list(t, router, "")
	assert.NotNil(t, p.Items)
	assert.EqualValues(t, 1, p.TotalPages)

	req := testutil.WithUser(testutil.NewRequest(http.MethodGet, "/?category=nope"), testutil.AdminUser())
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	req = testutil.WithUser(testutil.NewRequest(http.MethodGet, "/?start_date=yesterday"), testutil.AdminUser())
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestList_AdminOnly(t *testing.T) {
	router, _ := setup(t)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestEventTypesForCategory(t *testing.T) {
	if got := eventTypesForCategory("unknown"); got != nil {
		t.Errorf("unknown category = %v, want nil", got)
	}
	all := eventTypesForCategory("")
	if len(all) != 11 {
		t.Errorf("all event types = %d, want 11", len(all))
	}
}
