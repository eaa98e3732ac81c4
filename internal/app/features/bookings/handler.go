// Package bookings serves rental reservations under /api/bookings. Every
// endpoint is admin only.
package bookings

import (
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/audit"
	bookingstore "github.com/dalemusser/stratarent/internal/app/store/bookings"
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

const entity = "bookings"

var errCarNotFound = apperr.Validation("carId", "Car not found")

// Handler serves booking endpoints.
type Handler struct {
	bookings *bookingstore.Store
	cars     *carstore.Store
	audit    *auditlog.Logger
	errLog   *errorsfeature.ErrorLogger
}

// NewHandler creates a new bookings Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger) *Handler {
	return &Handler{
		bookings: bookingstore.New(db),
		cars:     carstore.New(db),
		audit:    audit,
		errLog:   errLog,
	}
}

// List handles GET /api/bookings?status=&carId=. Each booking carries its
// car, or null when the car was deleted.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := bookingstore.Filter{Status: r.URL.Query().Get("status")}
	if f.Status != "" && !models.IsValidBookingStatus(f.Status) {
		h.errLog.Fail(w, r, apperr.Validation("status", "Invalid booking status"))
		return
	}
	if raw := r.URL.Query().Get("carId"); raw != "" {
		id, err := jsonutil.ParseID("carId", raw)
		if err != nil {
			h.errLog.Fail(w, r, err)
			return
		}
		f.CarID = id
	}
	list, err := h.bookings.List(r.Context(), f)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, list)
}

// Get handles GET /api/bookings/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, "Booking not found")
		return
	}
	b, err := h.bookings.GetByID(r.Context(), id)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	jsonutil.OK(w, b)
}

type bookingBody struct {
	CarID           *string        `json:"carId"`
	CustomerName    *string        `json:"customerName"`
	CustomerEmail   *string        `json:"customerEmail"`
	CustomerPhone   *string        `json:"customerPhone"`
	PickupDate      *jsonutil.Date `json:"pickupDate"`
	ReturnDate      *jsonutil.Date `json:"returnDate"`
	PickupLocation  *string        `json:"pickupLocation"`
	DropoffLocation *string        `json:"dropoffLocation"`
	Status          *string        `json:"status"`
	Notes           *string        `json:"notes"`
	TotalPrice      *float64       `json:"totalPrice"`
}

func (b *bookingBody) validate() error {
	if b.Status != nil && !models.IsValidBookingStatus(*b.Status) {
		return apperr.Validation("status", "Invalid booking status")
	}
	if b.TotalPrice != nil && *b.TotalPrice < 0 {
		return apperr.Validation("totalPrice", "totalPrice cannot be negative")
	}
	if b.PickupDate != nil && b.ReturnDate != nil && b.ReturnDate.Before(b.PickupDate.Time) {
		return apperr.Validation("returnDate", "Return date must be after pickup date")
	}
	return nil
}

// loadCar resolves a car id from the body, mapping a miss to a validation
// error on carId.
func (h *Handler) loadCar(r *http.Request, raw string) (*models.Car, error) {
	id, err := jsonutil.ParseID("carId", raw)
	if err != nil {
		return nil, err
	}
	car, err := h.cars.GetByID(r.Context(), id)
	if errors.Is(err, carstore.ErrNotFound) {
		return nil, errCarNotFound
	}
	return car, err
}

type bookingCreate struct {
	CarID        string `json:"carId" validate:"required,objectid" label:"Car"`
	CustomerName string `json:"customerName" validate:"required,max=200" label:"Customer name"`
}

// Create handles POST /api/bookings. When totalPrice is omitted it is the
// car's daily price times the billable days.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var b bookingBody
	if err := jsonutil.Decode(w, r, &b); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	req := bookingCreate{
		CarID:        strings.TrimSpace(deref(b.CarID)),
		CustomerName: strings.TrimSpace(deref(b.CustomerName)),
	}
	if err := inputval.Validate(req).Err(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	switch {
	case b.PickupDate == nil || b.PickupDate.IsZero():
		h.errLog.Fail(w, r, apperr.Validation("pickupDate", "Pickup date is required"))
		return
	case b.ReturnDate == nil || b.ReturnDate.IsZero():
		h.errLog.Fail(w, r, apperr.Validation("returnDate", "Return date is required"))
		return
	}
	if err := b.validate(); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	car, err := h.loadCar(r, req.CarID)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}

	in := bookingstore.CreateInput{
		CarID:           car.ID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   strings.TrimSpace(deref(b.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(deref(b.CustomerPhone)),
		PickupDate:      b.PickupDate.Time,
		ReturnDate:      b.ReturnDate.Time,
		PickupLocation:  deref(b.PickupLocation),
		DropoffLocation: deref(b.DropoffLocation),
		Notes:           deref(b.Notes),
	}
	if b.Status != nil {
		in.Status = models.BookingStatus(*b.Status)
	}
	if b.TotalPrice != nil {
		in.TotalPrice = *b.TotalPrice
	} else {
		in.TotalPrice = QuotePrice(car, in.PickupDate, in.ReturnDate)
	}

	booking, err := h.bookings.Create(r.Context(), in)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventCreated, entity, booking.ID.Hex())
	jsonutil.Created(w, booking)
}

// Update handles PUT /api/bookings with {_id|id, ...fields} and returns the
// booking with its car joined.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var b struct {
		jsonutil.IDRef
		bookingBody
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
	if b.CustomerName != nil && strings.TrimSpace(*b.CustomerName) == "" {
		h.errLog.Fail(w, r, apperr.Validation("customerName", "Customer name cannot be empty"))
		return
	}

	in := bookingstore.UpdateInput{
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		Notes:           b.Notes,
		TotalPrice:      b.TotalPrice,
	}
	if b.CarID != nil {
		car, err := h.loadCar(r, strings.TrimSpace(*b.CarID))
		if err != nil {
			h.errLog.Fail(w, r, err)
			return
		}
		in.CarID = &car.ID
	}
	if b.PickupDate != nil {
		in.PickupDate = &b.PickupDate.Time
	}
	if b.ReturnDate != nil {
		in.ReturnDate = &b.ReturnDate.Time
	}
	if b.Status != nil {
		s := models.BookingStatus(*b.Status)
		in.Status = &s
	}

	if _, err := h.bookings.Update(r.Context(), id, in); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	booking, err := h.bookings.GetByID(r.Context(), id)
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	h.audit.ContentChanged(r.Context(), r, auth.CurrentPrincipal(r).UserID, audit.EventUpdated, entity, id.Hex())
	jsonutil.OK(w, booking)
}

// Delete handles DELETE /api/bookings?id=.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := jsonutil.ParseID("id", r.URL.Query().Get("id"))
	if err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.bookings.Delete(r.Context(), id); err != nil {
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
