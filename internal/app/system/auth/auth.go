// Package auth resolves the signed session cookie on a request into a
// Principal. The cookie carries only the user id; role and status are read
// fresh from the users collection through a UserFetcher on every request, so
// a client can never claim a role.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultSessionName is used when no cookie name is configured.
const DefaultSessionName = "stratarent-session"

// Session error classification for logging and monitoring.
type sessionErrorType int

const (
	sessionErrUnknown   sessionErrorType = iota
	sessionErrExpired                    // timestamp expired - normal
	sessionErrTampered                   // MAC invalid - potential attack
	sessionErrCorrupted                  // decode failed - corruption or key rotation
	sessionErrBackend                    // store failure
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Principal                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Kind says whether a request carries an identity.
type Kind int

const (
	None Kind = iota
	User
)

// Principal is the identity resolved for one request.
type Principal struct {
	Kind   Kind
	UserID primitive.ObjectID
	Name   string
	Email  string
	Role   string
}

// Anonymous is the principal of a request without a valid session.
var Anonymous = Principal{Kind: None}

// Authenticated reports whether the principal is a signed-in user.
func (p Principal) Authenticated() bool { return p.Kind == User }

// IsAdmin reports whether the principal is a signed-in admin.
func (p Principal) IsAdmin() bool { return p.Kind == User && p.Role == models.RoleAdmin }

// UserFetcher loads the current state of a user. Implementations return nil
// when the user does not exist, is disabled, or cannot be loaded.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *Principal
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and resolves sessions.
type SessionManager struct {
	store       *sessions.CookieStore
	logger      *zap.Logger
	name        string
	userFetcher UserFetcher
}

// SessionConfigError is returned when session configuration is invalid.
type SessionConfigError struct {
	Message string
}

func (e *SessionConfigError) Error() string {
	return e.Message
}

// NewSessionManager creates a SessionManager. In secure (production) mode a
// key shorter than 32 chars or a placeholder key is rejected; in dev mode it
// is only logged.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, &SessionConfigError{Message: "session key is empty; provide ≥32 random chars"}
	}

	isWeak := len(sessionKey) < 32 || isDefaultKey(sessionKey)
	if secure && isWeak {
		return nil, &SessionConfigError{
			Message: "session key is too weak for production; provide ≥32 random chars (not the default dev key)",
		}
	}
	if isWeak {
		logger.Warn("session key is weak; 32+ random chars required in production",
			zap.Int("length", len(sessionKey)),
			zap.Bool("is_default", isDefaultKey(sessionKey)))
	}

	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// securecookie enforces MaxAge on decode too.
	store.MaxAge(int(maxAge.Seconds()))

	logger.Info("session manager initialized",
		zap.Bool("secure", secure),
		zap.String("name", name),
		zap.String("domain", domain))

	return &SessionManager{store: store, logger: logger, name: name}, nil
}

// SessionName returns the configured session cookie name.
func (sm *SessionManager) SessionName() string {
	return sm.name
}

// SetUserFetcher sets the source of fresh user data. Without one, every
// request resolves to Anonymous.
func (sm *SessionManager) SetUserFetcher(uf UserFetcher) {
	sm.userFetcher = uf
}

// Resolve returns the principal for r. Any decode failure (expired,
// tampered, malformed) resolves to Anonymous and is logged, never surfaced.
func (sm *SessionManager) Resolve(r *http.Request) Principal {
	p, _ := sm.resolve(r)
	return p
}

// resolve also returns the session so the middleware can clear stale ones.
func (sm *SessionManager) resolve(r *http.Request) (Principal, *sessions.Session) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.logSessionError(r, err)
		return Anonymous, nil
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return Anonymous, sess
	}
	userID := getString(sess, userIDKey)
	if userID == "" || sm.userFetcher == nil {
		return Anonymous, sess
	}

	p := sm.userFetcher.FetchUser(r.Context(), userID)
	if p == nil {
		sm.logger.Info("session invalidated: user not found or disabled",
			zap.String("user_id", userID),
			zap.String("path", r.URL.Path))
		return Anonymous, sess
	}
	p.Kind = User
	return *p, sess
}

func (sm *SessionManager) logSessionError(r *http.Request, err error) {
	errType, category := classifySessionError(err)
	switch errType {
	case sessionErrExpired:
		sm.logger.Debug("session expired",
			zap.String("category", category),
			zap.String("path", r.URL.Path))
	case sessionErrTampered:
		sm.logger.Warn("session MAC validation failed (possible tampering)",
			zap.String("category", category),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()))
	case sessionErrCorrupted:
		sm.logger.Info("session decode failed",
			zap.String("category", category),
			zap.String("path", r.URL.Path))
	default:
		sm.logger.Error("session store error",
			zap.Error(err),
			zap.String("category", category),
			zap.String("path", r.URL.Path))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Request context                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const principalKey ctxKey = "principal"

// LoadSessionUser resolves the session once and stores the principal in the
// request context. A session whose user vanished or was disabled is cleared.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, sess := sm.resolve(r)
		if !p.Authenticated() && sess != nil && getString(sess, userIDKey) != "" {
			sess.Values[isAuthKey] = false
			delete(sess.Values, userIDKey)
			_ = sess.Save(r, w)
		}
		next.ServeHTTP(w, WithPrincipal(r, p))
	})
}

// CurrentPrincipal returns the principal stored by LoadSessionUser, or
// Anonymous.
func CurrentPrincipal(r *http.Request) Principal {
	if p, ok := r.Context().Value(principalKey).(Principal); ok {
		return p
	}
	return Anonymous
}

// WithPrincipal returns a copy of r carrying p. Tests use it to bypass the
// cookie layer.
func WithPrincipal(r *http.Request, p Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session issuance                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// CreateSession marks the session as belonging to userID.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) error {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sess, _ = sm.store.New(r, sm.name)
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID.Hex()
	return sess.Save(r, w)
}

// DestroySession expires the session cookie.
func (sm *SessionManager) DestroySession(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sess, _ = sm.store.New(r, sm.name)
	}
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

// isDefaultKey checks if the session key looks like a placeholder.
func isDefaultKey(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range []string{"dev-only", "change-me", "placeholder", "default", "example", "insecure", "test-key", "secret123", "password"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// classifySessionError categorizes a session/cookie error for logging.
func classifySessionError(err error) (sessionErrorType, string) {
	if err == nil {
		return sessionErrUnknown, "none"
	}

	scErr, ok := err.(securecookie.Error)
	if !ok {
		return sessionErrBackend, "unknown"
	}
	if !scErr.IsDecode() {
		return sessionErrBackend, "backend"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired timestamp"):
		return sessionErrExpired, "expired"
	case strings.Contains(msg, "mac") || strings.Contains(msg, "hash"):
		return sessionErrTampered, "mac_invalid"
	case strings.Contains(msg, "decrypt"):
		return sessionErrCorrupted, "decrypt_failed"
	case strings.Contains(msg, "base64") || strings.Contains(msg, "decode"):
		return sessionErrCorrupted, "decode_failed"
	default:
		return sessionErrCorrupted, "decode_other"
	}
}
