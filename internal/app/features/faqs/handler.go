// Package faqs serves the FAQ list under /api/faqs.
package faqs

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	faqstore "github.com/dalemusser/stratarent/internal/app/store/faqs"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/dalemusser/stratarent/internal/app/system/inputval"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"go.mongodb.org/mongo-driver/mongo"
)

const entity = "faqs"

// Handler serves FAQ endpoints.
type Handler struct {
	faqs   *faqstore.Store
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
}

// NewHandler creates a new FAQ Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{
		faqs:   faqstore.New(db),
		audit:  audit,
		errLog: errLog,
	}
}

// List handles GET /api/faqs. Visitors get active entries only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.faqs.List(r.Context(), !authz.IsAdmin(r))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, list)
}

type faqBody struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Order    *int    `json:"order"`
	Active   *bool   `json:"active"`
}

type faqCreate struct {
	Question string `json:"question" validate:"required,max=500" label:"Question"`
	Answer   string `json:"answer" validate:"required" label:"Answer"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create handles POST /api/faqs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var b faqBody
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	req := faqCreate{
		Question: strings.TrimSpace(deref(b.Question)),
		Answer:   strings.TrimSpace(deref(b.Answer)),
	}
	if err := inputval.Validate(req).Err(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}

	in := faqstore.CreateInput{
		Question: req.Question,
		Answer:   req.Answer,
		Active:   b.Active == nil || *b.Active,
	}
	if b.Order != nil {
		in.Order = *b.Order
	}
	faq, err := h.faqs.Create(r.Context(), in)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventCreated, entity, faq.ID.Hex())
	jsonutil.Created(w, faq)
}

// Update handles PUT /api/faqs with {_id|id, ...fields}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var b struct {
		jsonutil.IDRef
		faqBody
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
	if b.Question != nil && strings.TrimSpace(*b.Question) == "" {
		h.errLog.Fail(w, r, apperr.Validation("question", "Question cannot be empty"))
		return
	}
	if b.Answer != nil && strings.TrimSpace(*b.Answer) == "" {
		h.errLog.Fail(w, r, apperr.Validation("answer", "Answer cannot be empty"))
		return
	}

	faq, err := h.faqs.Update(r.Context(), id, faqstore.UpdateInput{
		Question: b.Question,
		Answer:   b.Answer,
		Order:    b.Order,
		Active:   b.Active,
	})
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventUpdated, entity, id.Hex())
	jsonutil.OK(w, faq)
}

// Delete handles DELETE /api/faqs?id=.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", r.URL.Query().Get("id"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.faqs.Delete(r.Context(), id); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventDeleted, entity, id.Hex())
	jsonutil.Success(w)
}
