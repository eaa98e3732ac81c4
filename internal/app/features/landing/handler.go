// Package landing serves the location and service landing page records
// under /api/locations and /api/services.
package landing

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	locationstore "github.com/dalemusser/stratarent/internal/app/store/locations"
	servicestore "github.com/dalemusser/stratarent/internal/app/store/services"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Handler serves location and service endpoints.
type Handler struct {
	locations *locationstore.Store
	services  *servicestore.Store
	audit     *auditlog.Logger
	errLog    *errorsfeature.ErrorLogger
}

// NewHandler creates a new landing Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{
		locations: locationstore.New(db),
		services:  servicestore.New(db),
		audit:     audit,
		errLog:    errLog,
	}
}

// landingBody is the shared writable shape. City and Address apply to
// locations; Icon applies to services.
type landingBody struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	City        *string `json:"city"`
	Address     *string `json:"address"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Active      *bool   `json:"active"`
	Order       *int    `json:"order"`
}

func (b landingBody) set(withLocation bool) (bson.M, error) {
	set := bson.M{}
	if b.Name != nil {
		name := strings.TrimSpace(*b.Name)
		if name == "" {
			return nil, apperr.Validation("name", "Name cannot be empty")
		}
		set["name"] = name
	}
	if b.Slug != nil {
		if strings.TrimSpace(*b.Slug) == "" {
			return nil, apperr.Validation("slug", "Slug cannot be empty")
		}
		set["slug"] = *b.Slug
	}
	str := func(key string, v *string) {
		if v != nil {
			set[key] = strings.TrimSpace(*v)
		}
	}
	if withLocation {
		str("city", b.City)
		str("address", b.Address)
	} else {
		str("icon", b.Icon)
	}
	str("description", b.Description)
	if b.Content != nil {
		set["content"] = *b.Content
	}
	if b.Active != nil {
		set["active"] = *b.Active
	}
	if b.Order != nil {
		set["order"] = *b.Order
	}
	return set, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (b landingBody) requireName() error {
	if deref(b.Name) == "" {
		return apperr.Validation("name", "Name is required")
	}
	return nil
}

func (b landingBody) order() int {
	if b.Order == nil {
		return 0
	}
	return *b.Order
}

// decodeUpdate reads a PUT body and returns the target id with the $set.
func (h *Handler) decodeUpdate(w http.ResponseWriter, r *http.Request, withLocation bool) (primitive.ObjectID, bson.M, bool) {
	var b struct {
		jsonutil.IDRef
		landingBody
	}
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return primitive.NilObjectID, nil, false
	}
	id, err := b.ObjectID()
	if err != nil {
		h.errLog.Fail(w, r, err)
		return primitive.NilObjectID, nil, false
	}
	set, err := b.set(withLocation)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return primitive.NilObjectID, nil, false
	}
	return id, set, true
}

func actorID(r *http.Request) primitive.ObjectID {
	return auth.CurrentPrincipal(r).UserID
}

/*─────────────────────────────────────────────────────────────────────────────*
| Locations                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// ListLocations handles GET /api/locations. Visitors get active ones only.
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	list, err := h.locations.List(r.Context(), !authz.IsAdmin(r))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, list)
}

// GetLocation handles GET /api/locations/{slug}.
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	l, err := h.locations.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, l)
}

// CreateLocation handles POST /api/locations.
func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var b landingBody
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := b.requireName(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	l, err := h.locations.Create(r.Context(), models.Location{
		Name:        deref(b.Name),
		Slug:        deref(b.Slug),
		City:        deref(b.City),
		Address:     deref(b.Address),
		Description: deref(b.Description),
		Content:     deref(b.Content),
		Active:      b.Active == nil || *b.Active,
		Order:       b.order(),
	})
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, actorID(r), audit.EventCreated, "locations", l.ID.Hex())
	jsonutil.Created(w, l)
}

// UpdateLocation handles PUT /api/locations with {_id|id, ...fields}.
func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, set, ok := h.decodeUpdate(w, r, true)
	if !ok {
		return
	}
	l, err := h.locations.Update(r.Context(), id, set)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, actorID(r), audit.EventUpdated, "locations", id.Hex())
	jsonutil.OK(w, l)
}

// DeleteLocation handles DELETE /api/locations?id=.
func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", r.URL.Query().Get("id"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.locations.Delete(r.Context(), id); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, actorID(r), audit.EventDeleted, "locations", id.Hex())
	jsonutil.Success(w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Services                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ListServices handles GET /api/services. Visitors get active ones only.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	list, err := h.services.List(r.Context(), !authz.IsAdmin(r))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, list)
}

// GetService handles GET /api/services/{slug}.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	s, err := h.services.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, s)
}

// CreateService handles POST /api/services.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var b landingBody
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := b.requireName(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	s, err := h.services.Create(r.Context(), models.Service{
		Name:        deref(b.Name),
		Slug:        deref(b.Slug),
		Icon:        deref(b.Icon),
		Description: deref(b.Description),
		Content:     deref(b.Content),
		Active:      b.Active == nil || *b.Active,
		Order:       b.order(),
	})
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, actorID(r), audit.EventCreated, "services", s.ID.Hex())
	jsonutil.Created(w, s)
}

// UpdateService handles PUT /api/services with {_id|id, ...fields}.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, set, ok := h.decodeUpdate(w, r, false)
	if !ok {
		return
	}
	s, err := h.services.Update(r.Context(), id, set)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, actorID(r), audit.EventUpdated, "services", id.Hex())
	jsonutil.OK(w, s)
}

// DeleteService handles DELETE /api/services?id=.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", r.URL.Query().Get("id"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.services.Delete(r.Context(), id); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, actorID(r), audit.EventDeleted, "services", id.Hex())
	jsonutil.Success(w)
}
