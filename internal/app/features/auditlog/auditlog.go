// internal/app/features/auditlog/auditlog.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	userstore "github.com/dalemusser/stratarent/internal/app/store/users"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const pageSize = 50

// Handler provides the audit log endpoint.
type Handler struct {
	auditStore *audit.Store
	userStore  *userstore.Store
	errLog     *errorsfeature.ErrorLogger
	logger     *zap.Logger
}

// NewHandler creates a new audit log Handler.
func NewHandler(
	db *mongo.Database,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		auditStore: audit.New(db),
		userStore:  userstore.New(db),
		errLog:     errLog,
		logger:     logger,
	}
}

// Item is a single audit event row with the actor's name resolved.
type Item struct {
	audit.Event
	ActorName string `json:"actorName,omitempty"`
}

// Page is one page of audit events.
type Page struct {
	Items      []Item   `json:"items"`
	Total      int64    `json:"total"`
	Page       int64    `json:"page"`
	TotalPages int64    `json:"totalPages"`
	Categories []string `json:"categories"`
	EventTypes []string `json:"eventTypes"`
}

// allCategories returns the available categories for filtering.
func allCategories() []string {
	return []string{audit.CategoryAuth, audit.CategoryContent, audit.CategorySystem}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginLockedOut,
		audit.EventLogout,
	}
	contentEvents := []string{audit.EventCreated, audit.EventUpdated, audit.EventDeleted}
	systemEvents := []string{audit.EventCacheRevalidated, audit.EventFileUploaded}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryContent:
		return contentEvents
	case audit.CategorySystem:
		return systemEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(contentEvents)+len(systemEvents))
		all = append(all, authEvents...)
		all = append(all, contentEvents...)
		return append(all, systemEvents...)
	default:
		return nil
	}
}

// Routes returns the admin-only audit log router, mounted at /api/audit-logs.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(authz.RequireAdmin)
	r.Get("/", h.List)
	return r
}

// List handles GET /api/audit-logs with optional category, event_type,
// start_date, end_date (YYYY-MM-DD in tz, default UTC) and page.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	page := jsonutil.QueryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	if category != "" && eventTypesForCategory(category) == nil {
		h.errLog.Fail(w, r, apperr.Validation("category", "Unknown category"))
		return
	}

	loc := time.UTC
	if tz := strings.TrimSpace(q.Get("tz")); tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}
	if s := strings.TrimSpace(q.Get("start_date")); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			h.errLog.Fail(w, r, apperr.Validation("start_date", "Invalid start date"))
			return
		}
		filter.StartTime = &t
	}
	if s := strings.TrimSpace(q.Get("end_date")); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			h.errLog.Fail(w, r, apperr.Validation("end_date", "Invalid end date"))
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	events, err := h.auditStore.Query(r.Context(), filter)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	total, err := h.auditStore.CountByFilter(r.Context(), filter)
	if err != nil {
		h.logger.Warn("failed to count audit events", zap.Error(err))
		total = int64(len(events))
	}

	names := h.actorNames(r, events)
	items := make([]Item, 0, len(events))
	for _, e := range events {
		item := Item{Event: e}
		switch {
		case e.ActorID != nil:
			item.ActorName = names[*e.ActorID]
		case e.UserID != nil && e.Category == audit.CategoryAuth:
			// For auth events the user is the actor.
			item.ActorName = names[*e.UserID]
		}
		items = append(items, item)
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	jsonutil.OK(w, Page{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		Categories: allCategories(),
		EventTypes: eventTypesForCategory(category),
	})
}

// actorNames batch-loads names for every user referenced by events.
// Deleted users are simply absent.
func (h *Handler) actorNames(r *http.Request, events []audit.Event) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			seen[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			seen[*e.UserID] = struct{}{}
		}
	}
	names := make(map[primitive.ObjectID]string, len(seen))
	if len(seen) == 0 {
		return names
	}
	ids := make([]primitive.ObjectID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	users, err := h.userStore.GetByIDs(r.Context(), ids)
	if err != nil {
		h.logger.Warn("failed to fetch user names for audit log", zap.Error(err))
		return names
	}
	for _, u := range users {
		name := u.FullName
		if name == "" {
			name = u.Email
		}
		names[u.ID] = name
	}
	return names
}
