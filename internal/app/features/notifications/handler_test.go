package notifications

import (
	"net/http"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/dalemusser/stratarent/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, http.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := NewHandler(db, auditlog.New(nil, logger, auditlog.Config{}), errorsfeature.NewErrorLogger(logger))
	return h, Routes(h)
}

func serve(router http.Handler, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func create(t *testing.T, router http.Handler, body map[string]any) models.Notification {
	t.Helper()
	req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/", body), testutil.AdminUser())
	rec := serve(router, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var n models.Notification
	rec.DecodeJSON(t, &n)
	return n
}

func TestActive_BannerPicksHighestPriority(t *testing.T) {
	_, router := newTestHandler(t)
	now := time.Now().UTC()
	start := now.Add(-time.Hour).Format(time.RFC3339)
	end := now.Add(time.Hour).Format(time.RFC3339)

	create(t, router, map[string]any{"title": "A", "message": "m", "priority": 5, "startDate": start, "endDate": end, "displayLocation": []string{"banner"}})
	create(t, router, map[string]any{"title": "B", "message": "m", "priority": 8, "startDate": start, "endDate": end, "displayLocation": []string{"banner"}})
	create(t, router, map[string]any{"title": "C", "message": "m", "priority": 9, "startDate": start, "endDate": end, "displayLocation": []string{"banner"}, "active": false})

	rec := serve(router, testutil.NewRequest(http.MethodGet, "/active?location=banner"))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Notification *models.Notification `json:"notification"`
	}
	rec.DecodeJSON(t, &resp)
	require.NotNil(t, resp.Notification)
	assert.Equal(t, "B", resp.Notification.Title)
}

func TestActive_NoneIsNull(t *testing.T) {
	_, router := newTestHandler(t)
	create(t, router, map[string]any{
		"title": "Later", "message": "m",
		"startDate": time.Now().Add(48 * time.Hour).Format("2006-01-02"),
	})

	rec := serve(router, testutil.NewRequest(http.MethodGet, "/active"))
	rec.AssertStatus(t, http.StatusOK)
	assert.JSONEq(t, `{"notification":null}`, rec.Body.String())

	rec = serve(router, testutil.NewRequest(http.MethodGet, "/active?location=homepage"))
	rec.AssertStatus(t, http.StatusOK)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestActive_OtherPlacementsReturnList(t *testing.T) {
	h, router := newTestHandler(t)
	fixed := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	create(t, router, map[string]any{"title": "Low", "message": "m", "priority": 1, "startDate": "2026-05-01", "displayLocation": []string{"homepage"}})
	create(t, router, map[string]any{"title": "High", "message": "m", "priority": 7, "startDate": "2026-05-01", "displayLocation": []string{"homepage", "popup"}})
	create(t, router, map[string]any{"title": "Expired", "message": "m", "priority": 9, "startDate": "2026-05-01", "endDate": "2026-05-05", "displayLocation": []string{"homepage"}})

	rec := serve(router, testutil.NewRequest(http.MethodGet, "/active?location=homepage"))
	var list []models.Notification
	rec.DecodeJSON(t, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "High", list[0].Title)
	assert.Equal(t, "Low", list[1].Title)

	bad := serve(router, testutil.NewRequest(http.MethodGet, "/active?location=sidebar"))
	bad.AssertStatus(t, http.StatusBadRequest)
}

func TestCreate_ValidationAndClamp(t *testing.T) {
	_, router := newTestHandler(t)

	for _, body := range []map[string]any{
		{"message": "m", "startDate": "2026-01-01"},
		{"title": "t", "startDate": "2026-01-01"},
		{"title": "t", "message": "m"},
		{"title": "t", "message": "m", "startDate": "2026-01-01", "type": "shout"},
		{"title": "t", "message": "m", "startDate": "2026-01-01", "displayLocation": []string{"footer"}},
		{"title": "t", "message": "m", "startDate": "2026-01-10", "endDate": "2026-01-01"},
	} {
		req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/", body), testutil.AdminUser())
		serve(router, req).AssertStatus(t, http.StatusBadRequest)
	}

	n := create(t, router, map[string]any{"title": "t", "message": "m", "startDate": "2026-01-01", "priority": 99})
	assert.Equal(t, models.MaxNotificationPriority, n.Priority)
	assert.Equal(t, models.NotificationInfo, n.Type)
	assert.Equal(t, []string{models.LocationBanner}, n.DisplayLocation)
}

func TestUpdate_NullEndDateOpensWindow(t *testing.T) {
	_, router := newTestHandler(t)
	n := create(t, router, map[string]any{"title": "t", "message": "m", "startDate": "2026-01-01", "endDate": "2026-02-01"})
	require.NotNil(t, n.EndDate)

	req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPut, "/", `{"_id":"`+n.ID.Hex()+`","endDate":null}`), testutil.AdminUser())
	rec := serve(router, req)
	rec.AssertStatus(t, http.StatusOK)
	var got models.Notification
	rec.DecodeJSON(t, &got)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, "t", got.Title)
}

func TestUpdate_RejectsEndBeforeStart(t *testing.T) {
	_, router := newTestHandler(t)
	n := create(t, router, map[string]any{"title": "t", "message": "m", "startDate": "2026-03-01", "endDate": "2026-04-01"})
	id := n.ID.Hex()

	put := func(body map[string]any) *testutil.ResponseRecorder {
		body["_id"] = id
		return serve(router, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPut, "/", body), testutil.AdminUser()))
	}

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"both sent, end first", map[string]any{"startDate": "2026-05-01", "endDate": "2026-04-15"}, http.StatusBadRequest},
		{"end only, before stored start", map[string]any{"endDate": "2026-02-01"}, http.StatusBadRequest},
		{"start only, after stored end", map[string]any{"startDate": "2026-04-02"}, http.StatusBadRequest},
		{"start only, inside window", map[string]any{"startDate": "2026-03-15"}, http.StatusOK},
		{"end only, after stored start", map[string]any{"endDate": "2026-06-01"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			put(tt.body).AssertStatus(t, tt.want)
		})
	}

	// Clearing the end lifts the bound, so a later start is accepted with it.
	rec := put(map[string]any{"startDate": "2026-09-01", "endDate": nil})
	rec.AssertStatus(t, http.StatusOK)
	var got models.Notification
	rec.DecodeJSON(t, &got)
	assert.Nil(t, got.EndDate)
	assert.Equal(t, 2026, got.StartDate.Year())
	assert.Equal(t, time.September, got.StartDate.Month())
}

func TestAdminRoutes(t *testing.T) {
	_, router := newTestHandler(t)

	serve(router, testutil.NewRequest(http.MethodGet, "/")).AssertStatus(t, http.StatusUnauthorized)

	rec := serve(router, testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
