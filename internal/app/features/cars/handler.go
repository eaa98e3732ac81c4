// Package cars serves the rental fleet endpoints under /api/cars.
//
// Reads are public. Create, update and delete are admin only; the guard is
// applied in Routes, not here.
package cars

import (
	"net/http"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	carstore "github.com/dalemusser/stratarent/internal/app/store/cars"
	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/inputval"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

const entity = "cars"

// Handler serves car endpoints.
type Handler struct {
	cars   *carstore.Store
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
}

// NewHandler creates a new cars Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{
		cars:   carstore.New(db),
		audit:  audit,
		errLog: errLog,
	}
}

// List handles GET /api/cars?type=&available=&featured=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.cars.List(r.Context(), carstore.Filter{
		Type:      r.URL.Query().Get("type"),
		Available: jsonutil.QueryBool(r, "available"),
		Featured:  jsonutil.QueryBool(r, "featured"),
		Limit:     jsonutil.QueryInt(r, "limit", 0),
	})
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, list)
}

// Get handles GET /api/cars/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", chi.URLParam(r, "id"))
	if err != nil {
		// A malformed id cannot match any car.
		jsonutil.NotFound(w, "Car not found")
		return
	}
	car, err := h.cars.GetByID(r.Context(), id)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, car)
}

type carBody struct {
	Model         *string  `json:"model"`
	CarModel      *string  `json:"carModel"`
	Type          *string  `json:"type"`
	PricePerDay   *float64 `json:"pricePerDay"`
	PricePerWeek  *float64 `json:"pricePerWeek"`
	PricePerMonth *float64 `json:"pricePerMonth"`
	Deposit       *float64 `json:"deposit"`
	Available     *bool    `json:"available"`
	Featured      *bool    `json:"featured"`
	Seats         *int     `json:"seats"`
	Transmission  *string  `json:"transmission"`
	Fuel          *string  `json:"fuel"`
	Features      []string `json:"features"`
	Images        []string `json:"images"`
}

// validate checks the fields that are present. Required-field checks for
// create happen in Create.
func (b *carBody) validate() error {
	if b.Type != nil && !models.IsValidCarType(*b.Type) {
		return apperr.Validation("type", "Invalid car type")
	}
	for field, p := range map[string]*float64{
		"pricePerDay":   b.PricePerDay,
		"pricePerWeek":  b.PricePerWeek,
		"pricePerMonth": b.PricePerMonth,
		"deposit":       b.Deposit,
	} {
		if p != nil && *p < 0 {
			return apperr.Validation(field, field+" cannot be negative")
		}
	}
	if b.Seats != nil && *b.Seats < 0 {
		return apperr.Validation("seats", "seats cannot be negative")
	}
	return nil
}

type carCreate struct {
	Model string `json:"model" validate:"required,max=120" label:"Model"`
	Type  string `json:"type" validate:"required,cartype" label:"Type"`
}

// Create handles POST /api/cars.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var b carBody
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := b.validate(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}

	in := carstore.CreateInput{
		Model:         deref(b.Model),
		CarModel:      deref(b.CarModel),
		PricePerWeek:  derefFloat(b.PricePerWeek),
		PricePerMonth: derefFloat(b.PricePerMonth),
		Deposit:       derefFloat(b.Deposit),
		Available:     b.Available == nil || *b.Available,
		Featured:      b.Featured != nil && *b.Featured,
		Transmission:  deref(b.Transmission),
		Fuel:          deref(b.Fuel),
		Features:      b.Features,
		Images:        b.Images,
	}
	req := carCreate{Model: in.Model, Type: deref(b.Type)}
	if req.Model == "" {
		req.Model = in.CarModel
	}
	if err := inputval.Validate(req).Err(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if b.PricePerDay == nil {
		h.errLog.Fail(w, r, apperr.Validation("pricePerDay", "Price per day is required"))
		return
	}
	in.Type = models.CarType(req.Type)
	in.PricePerDay = *b.PricePerDay
	if b.Seats != nil {
		in.Seats = *b.Seats
	}

	car, err := h.cars.Create(r.Context(), in)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventCreated, entity, car.ID.Hex())
	jsonutil.Created(w, car)
}

// Update handles PUT /api/cars with {_id|id, ...fields}. Only supplied fields
// change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var b struct {
		jsonutil.IDRef
		carBody
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
	if (b.Model != nil || b.CarModel != nil) && deref(b.Model) == "" && deref(b.CarModel) == "" {
		h.errLog.Fail(w, r, apperr.Validation("model", "Model cannot be empty"))
		return
	}

	in := carstore.UpdateInput{
		Model:         b.Model,
		CarModel:      b.CarModel,
		PricePerDay:   b.PricePerDay,
		PricePerWeek:  b.PricePerWeek,
		PricePerMonth: b.PricePerMonth,
		Deposit:       b.Deposit,
		Available:     b.Available,
		Featured:      b.Featured,
		Seats:         b.Seats,
		Transmission:  b.Transmission,
		Fuel:          b.Fuel,
		Features:      b.Features,
		Images:        b.Images,
	}
	if b.Type != nil {
		t := models.CarType(*b.Type)
		in.Type = &t
	}

	car, err := h.cars.Update(r.Context(), id, in)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventUpdated, entity, id.Hex())
	jsonutil.OK(w, car)
}

// Delete handles DELETE /api/cars?id=. Deleting a missing car succeeds.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", r.URL.Query().Get("id"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.cars.Delete(r.Context(), id); err != nil {
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

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
