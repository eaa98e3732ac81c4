package menus

import (
	"net/http"
	"testing"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/dalemusser/stratarent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return Routes(NewHandler(db, auditlog.New(nil, logger, auditlog.Config{}), errorsfeature.NewErrorLogger(logger)))
}

func serve(router http.Handler, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func admin(t *testing.T, method string, body any) *http.Request {
	t.Helper()
	return testutil.WithUser(testutil.NewJSONRequest(t, method, "/", body), testutil.AdminUser())
}

func createMenu(t *testing.T, router http.Handler, body map[string]any) models.Menu {
	t.Helper()
	rec := serve(router, admin(t, http.MethodPost, body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var m models.Menu
	rec.DecodeJSON(t, &m)
	return m
}

func TestList_TreeForPlacement(t *testing.T) {
	router := newTestRouter(t)
	cars := createMenu(t, router, map[string]any{"label": "Cars", "url": "/cars", "order": 1})
	createMenu(t, router, map[string]any{"label": "Home", "url": "/", "order": 0, "placement": "both"})
	createMenu(t, router, map[string]any{"label": "SUV", "url": "/cars?type=suv", "parentId": cars.ID.Hex()})
	createMenu(t, router, map[string]any{"label": "Terms", "url": "/terms", "placement": "footer"})
	createMenu(t, router, map[string]any{"label": "Hidden", "url": "/x", "active": false})

	rec := serve(router, testutil.NewRequest(http.MethodGet, "/?placement=header"))
	rec.AssertStatus(t, http.StatusOK)
	var tree []models.MenuNode
	rec.DecodeJSON(t, &tree)

	require.Len(t, tree, 2)
	assert.Equal(t, "Home", tree[0].Label)
	assert.Equal(t, "Cars", tree[1].Label)
	require.Len(t, tree[1].Children, 1)
	assert.Equal(t, "SUV", tree[1].Children[0].Label)
}

func TestList_EmptyIsArray(t *testing.T) {
	router := newTestRouter(t)
	rec := serve(router, testutil.NewRequest(http.MethodGet, "/?placement=footer"))
	rec.AssertStatus(t, http.StatusOK)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestList_FlatForAdminIncludesInactive(t *testing.T) {
	router := newTestRouter(t)
	createMenu(t, router, map[string]any{"label": "Hidden", "url": "/x", "active": false})

	req := testutil.WithUser(testutil.NewRequest(http.MethodGet, "/?flat=true"), testutil.AdminUser())
	rec := serve(router, req)
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Menu
	rec.DecodeJSON(t, &list)
	require.Len(t, list, 1)
	assert.False(t, list[0].Active)
}

func TestCreate_Validation(t *testing.T) {
	router := newTestRouter(t)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing label", map[string]any{"url": "/"}},
		{"missing url", map[string]any{"label": "Home"}},
		{"bad target", map[string]any{"label": "Home", "url": "/", "target": "_top"}},
		{"bad placement", map[string]any{"label": "Home", "url": "/", "placement": "sidebar"}},
		{"unknown parent", map[string]any{"label": "Home", "url": "/", "parentId": "507f1f77bcf86cd799439011"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, admin(t, http.MethodPost, tt.body))
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestUpdate_RejectsCycle(t *testing.T) {
	router := newTestRouter(t)
	a := createMenu(t, router, map[string]any{"label": "A", "url": "/a"})
	b := createMenu(t, router, map[string]any{"label": "B", "url": "/b", "parentId": a.ID.Hex()})

	rec := serve(router, admin(t, http.MethodPut, map[string]any{"_id": a.ID.Hex(), "parentId": b.ID.Hex()}))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "nested under itself")

	rec = serve(router, admin(t, http.MethodPut, map[string]any{"_id": a.ID.Hex(), "parentId": a.ID.Hex()}))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestUpdate_ClearParent(t *testing.T) {
	router := newTestRouter(t)
	a := createMenu(t, router, map[string]any{"label": "A", "url": "/a"})
	b := createMenu(t, router, map[string]any{"label": "B", "url": "/b", "parentId": a.ID.Hex()})

	rec := serve(router, admin(t, http.MethodPut, map[string]any{"id": b.ID.Hex(), "parentId": ""}))
	rec.AssertStatus(t, http.StatusOK)
	var m models.Menu
	rec.DecodeJSON(t, &m)
	assert.Nil(t, m.ParentID)
	assert.Equal(t, "B", m.Label)
}

func TestDelete_LiftsChildren(t *testing.T) {
	router := newTestRouter(t)
	a := createMenu(t, router, map[string]any{"label": "A", "url": "/a"})
	createMenu(t, router, map[string]any{"label": "B", "url": "/b", "parentId": a.ID.Hex()})

	req := testutil.WithUser(testutil.NewRequest(http.MethodDelete, "/?id="+a.ID.Hex()), testutil.AdminUser())
	rec := serve(router, req)
	rec.AssertStatus(t, http.StatusOK)

	rec = serve(router, testutil.NewRequest(http.MethodGet, "/?placement=header"))
	var tree []models.MenuNode
	rec.DecodeJSON(t, &tree)
	require.Len(t, tree, 1)
	assert.Equal(t, "B", tree[0].Label)
}

func TestMutations_RequireAdmin(t *testing.T) {
	router := newTestRouter(t)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{"label": "A", "url": "/a"})
	rec := serve(router, req)
	rec.AssertStatus(t, http.StatusUnauthorized)

	req = testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{"label": "A", "url": "/a"}), testutil.RegularUser())
	rec = serve(router, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}
