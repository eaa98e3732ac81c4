// Package subscribers serves newsletter signups: public subscribe and
// unsubscribe plus the admin subscriber list.
package subscribers

import (
	"net/http"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	subscriberstore "github.com/dalemusser/stratarent/internal/app/store/subscribers"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/authz"
	"github.com/dalemusser/stratarent/internal/app/system/inputval"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves subscriber endpoints.
type Handler struct {
	subs   *subscriberstore.Store
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a new subscriber Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		subs:   subscriberstore.New(db),
		errLog: errLog,
		logger: logger,
	}
}

// MountPublic registers POST /subscribe and POST /unsubscribe on the /api
// router.
func MountPublic(r chi.Router, h *Handler) {
	r.Post("/subscribe", h.Subscribe)
	r.Post("/unsubscribe", h.Unsubscribe)
}

// AdminRoutes returns the subscriber list, mounted at /api/subscribers.
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(authz.RequireAdmin)
	r.Get("/", h.List)
	return r
}

type subscribeInput struct {
	Email  string `json:"email" validate:"required,email,max=254" label:"Email"`
	Source string `json:"source" validate:"max=40" label:"Source"`
}

// Subscribe handles POST /api/subscribe with {email, source}. Subscribing
// an address that is already on the list succeeds.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in subscribeInput
	if err := jsonutil.Decode(w, r, &in); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	in.Email = normalize.Email(in.Email)
	in.Source = normalize.QueryParam(in.Source)
	if err := inputval.Validate(in).Err(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}

	sub, err := h.subs.Subscribe(r.Context(), in.Email, in.Source)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.logger.Info("newsletter signup", zap.String("source", sub.Source))
	jsonutil.OK(w, map[string]any{
		"success": true,
		"message": "Subscribed successfully",
	})
}

type unsubscribeInput struct {
	Email string `json:"email" validate:"required,email,max=254" label:"Email"`
}

// Unsubscribe handles POST /api/unsubscribe with {email}. Unknown addresses
// get the same answer so the endpoint does not reveal who is subscribed.
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var in unsubscribeInput
	if err := jsonutil.Decode(w, r, &in); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	in.Email = normalize.Email(in.Email)
	if err := inputval.Validate(in).Err(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.subs.Unsubscribe(r.Context(), in.Email); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, map[string]any{
		"success": true,
		"message": "Unsubscribed successfully",
	})
}

// List handles GET /api/subscribers?status=active.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := normalize.Status(r.URL.Query().Get("status"))
	if status != "" && status != models.SubscriberActive && status != models.SubscriberUnsubscribed {
		h.errLog.Fail(w, r, apperr.Validation("status", "Status must be active or unsubscribed"))
		return
	}
	list, err := h.subs.List(r.Context(), status)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, list)
}
