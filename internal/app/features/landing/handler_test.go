package landing

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

func newHandler(t *testing.T) *Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return NewHandler(db, auditlog.New(nil, logger, auditlog.Config{}), errorsfeature.NewErrorLogger(logger))
}

func serve(router http.Handler, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func asAdmin(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	return testutil.WithUser(testutil.NewJSONRequest(t, method, target, body), testutil.AdminUser())
}

func TestLocations_CreateListGet(t *testing.T) {
	router := LocationRoutes(newHandler(t))

	rec := serve(router, asAdmin(t, http.MethodPost, "/", map[string]any{
		"name": "Lisbon Airport", "city": "Lisbon", "order": 2,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var airport models.Location
	rec.DecodeJSON(t, &airport)
	assert.Equal(t, "lisbon-airport", airport.Slug)
	assert.True(t, airport.Active)

	rec = serve(router, asAdmin(t, http.MethodPost, "/", map[string]any{
		"name": "Porto Centre", "slug": "porto", "order": 1,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = serve(router, asAdmin(t, http.MethodPost, "/", map[string]any{
		"name": "Closed Branch", "active": false,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(router, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Location
	rec.DecodeJSON(t, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "porto", list[0].Slug)
	assert.Equal(t, "lisbon-airport", list[1].Slug)

	rec = serve(router, testutil.NewRequest(http.MethodGet, "/lisbon-airport"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"city":"Lisbon"`)

	rec = serve(router, testutil.NewRequest(http.MethodGet, "/closed-branch"))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestLocations_DuplicateSlugConflict(t *testing.T) {
	router := LocationRoutes(newHandler(t))

	rec := serve(router, asAdmin(t, http.MethodPost, "/", map[string]any{"name": "Faro"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = serve(router, asAdmin(t, http.MethodPost, "/", map[string]any{"name": "Other", "slug": "Faro"}))
	rec.AssertStatus(t, http.StatusConflict)
}

func TestLocations_UpdateAndDelete(t *testing.T) {
	router := LocationRoutes(newHandler(t))

	rec := serve(router, asAdmin(t, http.MethodPost, "/", map[string]any{"name": "Faro"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	var l models.Location
	rec.DecodeJSON(t, &l)

	rec = serve(router, asAdmin(t, http.MethodPut, "/", map[string]any{"_id": l.ID.Hex(), "address": "Rua 1"}))
	rec.AssertStatus(t, http.StatusOK)
	var updated models.Location
	rec.DecodeJSON(t, &updated)
	assert.Equal(t, "Faro", updated.Name)
	assert.Equal(t, "Rua 1", updated.Address)

	rec = serve(router, asAdmin(t, http.MethodPut, "/", map[string]any{"_id": l.ID.Hex(), "name": " "}))
	rec.AssertStatus(t, http.StatusBadRequest)

	for i := 0; i < 2; i++ {
		req := testutil.WithUser(testutil.NewRequest(http.MethodDelete, "/?id="+l.ID.Hex()), testutil.AdminUser())
		serve(router, req).AssertStatus(t, http.StatusOK)
	}
}

func TestServices_CreateRequiresName(t *testing.T) {
	router := ServiceRoutes(newHandler(t))

	rec := serve(router, asAdmin(t, http.MethodPost, "/", map[string]any{"icon": "plane"}))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = serve(router, asAdmin(t, http.MethodPost, "/", map[string]any{"name": "Airport Pickup", "icon": "plane"}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var s models.Service
	rec.DecodeJSON(t, &s)
	assert.Equal(t, "airport-pickup", s.Slug)
	assert.Equal(t, "plane", s.Icon)

	rec = serve(router, testutil.NewRequest(http.MethodGet, "/airport-pickup"))
	rec.AssertStatus(t, http.StatusOK)
}

func TestServices_WritesRequireAdmin(t *testing.T) {
	router := ServiceRoutes(newHandler(t))

	rec := serve(router, testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{"name": "x"}))
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = serve(router, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)
	assert.JSONEq(t, "[]", rec.Body.String())
}
