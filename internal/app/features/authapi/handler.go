// Package authapi serves the admin sign-in endpoints under /api/auth.
//
// Sign-in checks the per-email rate limit, verifies the bcrypt hash (with a
// dummy compare for unknown emails so timing does not reveal which emails
// exist), audits the outcome and issues the session cookie.
package authapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	errorsfeature "github.com/dalemusser/stratarent/internal/app/features/errors"
	"github.com/dalemusser/stratarent/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/stratarent/internal/app/store/users"
	"github.com/dalemusser/stratarent/internal/app/system/auditlog"
	"github.com/dalemusser/stratarent/internal/app/system/auth"
	"github.com/dalemusser/stratarent/internal/app/system/authutil"
	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid email or password"

// Handler serves the auth endpoints.
type Handler struct {
	users    *userstore.Store
	sessions *auth.SessionManager
	limiter  *ratelimit.Store // nil disables rate limiting
	audit    *auditlog.Logger
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
}

// NewHandler creates a new auth Handler. limiter may be nil.
func NewHandler(
	db *mongo.Database,
	sessions *auth.SessionManager,
	limiter *ratelimit.Store,
	audit *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:    userstore.New(db),
		sessions: sessions,
		limiter:  limiter,
		audit:    audit,
		errLog:   errLog,
		logger:   logger,
	}
}

// SessionUser is the public view of the signed-in user.
type SessionUser struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// SessionResponse is returned by login and session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user"`
}

// Login handles POST /api/auth/login with {email, password}.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := jsonutil.Decode(w, r, &in); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	email := normalize.Email(in.Email)
	if email == "" || in.Password == "" {
		jsonutil.BadRequest(w, "Email and password are required")
		return
	}
	ctx := r.Context()

	if h.limiter != nil {
		if allowed, _, lockedUntil := h.limiter.CheckAllowed(ctx, email); !allowed {
			h.audit.LoginLockedOut(ctx, r, email)
			lockedResponse(w, lockedUntil)
			return
		}
	}

	user, err := h.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		authutil.BurnCompare(in.Password)
		h.recordFailure(r, email)
		h.audit.LoginFailedUserNotFound(ctx, r, email)
		jsonutil.Error(w, http.StatusUnauthorized, invalidCredentials)
		return
	case err != nil:
		h.errLog.Fail(w, r, err)
		return
	}

	if !authutil.CheckPassword(in.Password, user.PasswordHash) {
		locked := h.recordFailure(r, email)
		h.audit.LoginFailedWrongPassword(ctx, r, user.ID, email)
		if locked {
			h.audit.LoginLockedOut(ctx, r, email)
		}
		jsonutil.Error(w, http.StatusUnauthorized, invalidCredentials)
		return
	}
	if user.Status != models.StatusActive {
		h.audit.LoginFailedUserDisabled(ctx, r, user.ID, email)
		jsonutil.Error(w, http.StatusUnauthorized, invalidCredentials)
		return
	}

	if h.limiter != nil {
		if err := h.limiter.ClearOnSuccess(ctx, email); err != nil {
			h.logger.Warn("failed to clear login attempts", zap.String("email", email), zap.Error(err))
		}
	}
	if err := h.sessions.CreateSession(w, r, user.ID); err != nil {
		h.errLog.Fail(w, r, err)
		return
	}
	if err := h.users.SetLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		h.logger.Warn("failed to record last login", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}
	h.audit.LoginSuccess(ctx, r, user.ID, email)

	name := user.FullName
	if name == "" {
		name = user.Email
	}
	jsonutil.OK(w, SessionResponse{
		Authenticated: true,
		User:          &SessionUser{ID: user.ID.Hex(), Email: user.Email, Name: name, Role: user.Role},
	})
}

func (h *Handler) recordFailure(r *http.Request, email string) bool {
	if h.limiter == nil {
		return false
	}
	locked, _ := h.limiter.RecordFailure(r.Context(), email)
	return locked
}

func lockedResponse(w http.ResponseWriter, until *time.Time) {
	if until != nil {
		secs := int(time.Until(*until).Seconds()) + 1
		if secs > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
	}
	jsonutil.Error(w, http.StatusTooManyRequests, "Too many failed login attempts. Try again later.")
}

// Logout handles POST /api/auth/logout. It succeeds without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p := auth.CurrentPrincipal(r)
	h.sessions.DestroySession(w, r)
	if p.Authenticated() {
		h.audit.Logout(r.Context(), r, p.UserID)
	}
	jsonutil.Success(w)
}

// Session handles GET /api/auth/session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	p := auth.CurrentPrincipal(r)
	if !p.Authenticated() {
		jsonutil.OK(w, SessionResponse{})
		return
	}
	name := p.Name
	if name == "" {
		name = p.Email
	}
	jsonutil.OK(w, SessionResponse{
		Authenticated: true,
		User:          &SessionUser{ID: p.UserID.Hex(), Email: p.Email, Name: name, Role: p.Role},
	})
}

// CSRF handles GET /api/auth/csrf. Clients echo the token in X-CSRF-Token.
func (h *Handler) CSRF(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	jsonutil.OK(w, map[string]string{"csrfToken": csrf.Token(r)})
}
