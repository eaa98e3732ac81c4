// Package menus serves navigation menus under /api/menus.
package menus

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	menustore "github.com/dalemusser/stratarent/internal/app/store/menus"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/dalemusser/stratarent/internal/app/system/inputval"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const entity = "menus"

// Handler serves menu endpoints.
type Handler struct {
	menus  *menustore.Store
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
}

// NewHandler creates a new menu Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{
		menus:  menustore.New(db),
		audit:  audit,
		errLog: errLog,
	}
}

// List handles GET /api/menus?placement=header.
//
// The default response is the nested tree of active items. Admins may pass
// flat=true to get every item, active or not, for the editor.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	placement := normalize.Placement(r.URL.Query().Get("placement"))
	if placement != "" && !models.IsValidPlacement(placement) {
		h.errLog.Fail(w, r, apperr.Validation("placement", "Invalid placement"))
		return
	}

	if flat := jsonutil.QueryBool(r, "flat"); flat != nil && *flat && authz.IsAdmin(r) {
		list, err := h.menus.List(r.Context(), placement, false)
		if err != nil {
			h.errLog.Fail(w, r, err)
			return
		}
		jsonutil.OK(w, list)
		return
	}

	tree, err := h.menus.Tree(r.Context(), placement)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, tree)
}

type menuBody struct {
	Label       *string `json:"label"`
	URL         *string `json:"url"`
	Target      *string `json:"target"`
	Order       *int    `json:"order"`
	Active      *bool   `json:"active"`
	Placement   *string `json:"placement"`
	ParentID    *string `json:"parentId"`
	ClearParent bool    `json:"clearParent"`
}

func (b *menuBody) validate() error {
	if b.Target != nil && *b.Target != models.TargetSelf && *b.Target != models.TargetBlank {
		return apperr.Validation("target", "Target must be _self or _blank")
	}
	if b.Placement != nil {
		p := normalize.Placement(*b.Placement)
		if !models.IsValidPlacement(p) {
			return apperr.Validation("placement", "Placement must be header, footer or both")
		}
		b.Placement = &p
	}
	return nil
}

// parent resolves parentId. An empty string means "no parent".
func (b *menuBody) parent() (id *primitive.ObjectID, topLevel bool, err error) {
	if b.ClearParent {
		return nil, true, nil
	}
	if b.ParentID == nil {
		return nil, false, nil
	}
	if strings.TrimSpace(*b.ParentID) == "" {
		return nil, true, nil
	}
	oid, err := jsonutil.ParseID("parentId", *b.ParentID)
	if err != nil {
		return nil, false, err
	}
	return &oid, false, nil
}

type menuCreate struct {
	Label string `json:"label" validate:"required,max=100" label:"Label"`
	URL   string `json:"url" validate:"required,max=2048" label:"URL"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create handles POST /api/menus.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var b menuBody
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	req := menuCreate{
		Label: strings.TrimSpace(deref(b.Label)),
		URL:   strings.TrimSpace(deref(b.URL)),
	}
	if err := inputval.Validate(req).Err(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := b.validate(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	parent, _, err := b.parent()
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}

	in := menustore.CreateInput{
		Label:    req.Label,
		URL:      req.URL,
		Active:   b.Active == nil || *b.Active,
		ParentID: parent,
	}
	if b.Target != nil {
		in.Target = *b.Target
	}
	if b.Order != nil {
		in.Order = *b.Order
	}
	if b.Placement != nil {
		in.Placement = *b.Placement
	}

	m, err := h.menus.Create(r.Context(), in)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventCreated, entity, m.ID.Hex())
	jsonutil.Created(w, m)
}

// Update handles PUT /api/menus with {_id|id, ...fields}. parentId "" or
// clearParent true moves the item to the top level.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var b struct {
		jsonutil.IDRef
		menuBody
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
	if b.Label != nil && strings.TrimSpace(*b.Label) == "" {
		h.errLog.Fail(w, r, apperr.Validation("label", "Label cannot be empty"))
		return
	}
	if b.URL != nil && strings.TrimSpace(*b.URL) == "" {
		h.errLog.Fail(w, r, apperr.Validation("url", "URL cannot be empty"))
		return
	}
	if err := b.validate(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	parent, clearParent, err := b.parent()
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}

	m, err := h.menus.Update(r.Context(), id, menustore.UpdateInput{
		Label:       b.Label,
		URL:         b.URL,
		Target:      b.Target,
		Order:       b.Order,
		Active:      b.Active,
		Placement:   b.Placement,
		ParentID:    parent,
		ClearParent: clearParent,
	})
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventUpdated, entity, id.Hex())
	jsonutil.OK(w, m)
}

// Delete handles DELETE /api/menus?id=. Children move to the top level.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", r.URL.Query().Get("id"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.menus.Delete(r.Context(), id); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventDeleted, entity, id.Hex())
	jsonutil.Success(w)
}
