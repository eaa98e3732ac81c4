// Package notifications serves site notifications under /api/notifications.
//
// The admin list shows everything. The public /active endpoint runs the
// selector for one placement: banner returns a single object (or null),
// other placements return an array.
package notifications

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	notificationstore "github.com/dalemusser/stratarent/internal/app/store/notifications"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const entity = "notifications"

// Handler serves notification endpoints.
type Handler struct {
	notifications *notificationstore.Store
	audit         *auditlog.Logger
	errLog        *errorsfeature.ErrorLogger
	now           func() time.Time
}

// NewHandler creates a new notifications Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{
		notifications: notificationstore.New(db),
		audit:         audit,
		errLog:        errLog,
		now:           time.Now,
	}
}

// List handles GET /api/notifications (admin).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.notifications.List(r.Context())
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, list)
}

// Active handles GET /api/notifications/active?location=. The location
// defaults to banner.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		location = models.LocationBanner
	}
	if !models.IsValidDisplayLocation(location) {
		h.errLog.Fail(w, r, apperr.Validation("location", "Invalid display location"))
		return
	}

	var limit int64
	if location == models.LocationBanner {
		limit = 1
	}
	list, err := h.notifications.SelectActive(r.Context(), location, h.now(), limit)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}

	if location != models.LocationBanner {
		jsonutil.OK(w, list)
		return
	}
	var n *models.Notification
	if len(list) > 0 {
		n = &list[0]
	}
	jsonutil.OK(w, map[string]*models.Notification{"notification": n})
}

type notificationBody struct {
	Title           *string        `json:"title"`
	Message         *string        `json:"message"`
	Type            *string        `json:"type"`
	DisplayLocation []string       `json:"displayLocation"`
	Active          *bool          `json:"active"`
	StartDate       *jsonutil.Date `json:"startDate"`
	Link            *string        `json:"link"`
	ButtonText      *string        `json:"buttonText"`
	BackgroundColor *string        `json:"backgroundColor"`
	TextColor       *string        `json:"textColor"`
	Priority        *int           `json:"priority"`
}

func (b *notificationBody) validate() error {
	if b.Type != nil && !models.IsValidNotificationType(*b.Type) {
		return apperr.Validation("type", "Invalid notification type")
	}
	for _, loc := range b.DisplayLocation {
		if !models.IsValidDisplayLocation(loc) {
			return apperr.Validation("displayLocation", "Invalid display location: "+loc)
		}
	}
	return nil
}

// endDate distinguishes an absent endDate from an explicit null.
func endDate(raw json.RawMessage) (end *time.Time, unset bool, err error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	if string(raw) == "null" || string(raw) == `""` {
		return nil, true, nil
	}
	var d jsonutil.Date
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, apperr.Validation("endDate", "Invalid end date")
	}
	return &d.Time, false, nil
}

// Create handles POST /api/notifications.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var b struct {
		notificationBody
		EndDate json.RawMessage `json:"endDate"`
	}
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	switch {
	case b.Title == nil || strings.TrimSpace(*b.Title) == "":
		h.errLog.Fail(w, r, apperr.Validation("title", "Title is required"))
		return
	case b.Message == nil || strings.TrimSpace(*b.Message) == "":
		h.errLog.Fail(w, r, apperr.Validation("message", "Message is required"))
		return
	case b.StartDate == nil || b.StartDate.IsZero():
		h.errLog.Fail(w, r, apperr.Validation("startDate", "Start date is required"))
		return
	}
	if err := b.validate(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	end, _, err := endDate(b.EndDate)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if end != nil && end.Before(b.StartDate.Time) {
		h.errLog.Fail(w, r, apperr.Validation("endDate", "End date must not be before start date"))
		return
	}

	in := notificationstore.CreateInput{
		Title:           strings.TrimSpace(*b.Title),
		Message:         strings.TrimSpace(*b.Message),
		DisplayLocation: b.DisplayLocation,
		Active:          b.Active == nil || *b.Active,
		StartDate:       b.StartDate.Time,
		EndDate:         end,
		Link:            deref(b.Link),
		ButtonText:      deref(b.ButtonText),
		BackgroundColor: deref(b.BackgroundColor),
		TextColor:       deref(b.TextColor),
	}
	if b.Type != nil {
		in.Type = models.NotificationType(*b.Type)
	}
	if b.Priority != nil {
		in.Priority = *b.Priority
	}

	n, err := h.notifications.Create(r.Context(), in)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventCreated, entity, n.ID.Hex())
	jsonutil.Created(w, n)
}

// Update handles PUT /api/notifications with {_id|id, ...fields}. An
// explicit "endDate": null makes the notification open-ended.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var b struct {
		jsonutil.IDRef
		notificationBody
		EndDate json.RawMessage `json:"endDate"`
	}
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	id, err := b.ObjectID()
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := b.validate(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if b.Title != nil && strings.TrimSpace(*b.Title) == "" {
		h.errLog.Fail(w, r, apperr.Validation("title", "Title cannot be empty"))
		return
	}
	if b.Message != nil && strings.TrimSpace(*b.Message) == "" {
		h.errLog.Fail(w, r, apperr.Validation("message", "Message cannot be empty"))
		return
	}
	end, clearEnd, err := endDate(b.EndDate)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}

	in := notificationstore.UpdateInput{
		Title:           b.Title,
		Message:         b.Message,
		DisplayLocation: b.DisplayLocation,
		Active:          b.Active,
		EndDate:         end,
		ClearEndDate:    clearEnd,
		Link:            b.Link,
		ButtonText:      b.ButtonText,
		BackgroundColor: b.BackgroundColor,
		TextColor:       b.TextColor,
		Priority:        b.Priority,
	}
	if b.Type != nil {
		t := models.NotificationType(*b.Type)
		in.Type = &t
	}
	if b.StartDate != nil {
		if b.StartDate.IsZero() {
			h.errLog.Fail(w, r, apperr.Validation("startDate", "Start date cannot be empty"))
			return
		}
		in.StartDate = &b.StartDate.Time
	}
	if err := h.checkWindow(r, id, in.StartDate, end, clearEnd); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}

	n, err := h.notifications.Update(r.Context(), id, in)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventUpdated, entity, id.Hex())
	jsonutil.OK(w, n)
}

// checkWindow rejects an update that would leave endDate before startDate.
// A date the body leaves out is taken from the stored notification.
func (h *Handler) checkWindow(r *http.Request, id primitive.ObjectID, start, end *time.Time, clearEnd bool) error {
	if clearEnd || (start == nil && end == nil) {
		return nil
	}
	if start == nil || end == nil {
		cur, err := h.notifications.GetByID(r.Context(), id)
		if err != nil {
			return err
		}
		if start == nil {
			start = &cur.StartDate
		}
		if end == nil {
			end = cur.EndDate
		}
	}
	if end != nil && end.Before(*start) {
		return apperr.Validation("endDate", "End date must not be before start date")
	}
	return nil
}

// Delete handles DELETE /api/notifications?id=.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", r.URL.Query().Get("id"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.notifications.Delete(r.Context(), id); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventDeleted, entity, id.Hex())
	jsonutil.Success(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
