// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/store/audit"
	"github.com/dalemusser/stratarent/internal/app/system/network"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by Config fields.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config holds audit logging configuration per event category.
type Config struct {
	Auth    string // login, logout, lockout
	Content string // admin create/update/delete of site content
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
// A nil *Logger is valid and records nothing.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when only zap output is
// wanted.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) mode(category string) string {
	var m string
	switch category {
	case audit.CategoryAuth:
		m = l.config.Auth
	case audit.CategoryContent:
		m = l.config.Content
	}
	if m == "" {
		return ModeAll
	}
	return m
}

// Log records an audit event according to the category's configured mode.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	mode := l.mode(event.Category)
	if mode == ModeOff {
		return
	}
	if (mode == ModeAll || mode == ModeLog) && l.zapLog != nil {
		l.logToZap(event)
	}
	if (mode == ModeAll || mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil && l.zapLog != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func authEvent(r *http.Request, eventType string, userID *primitive.ObjectID, email string, success bool, reason string) audit.Event {
	return audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		UserID:        userID,
		IP:            network.ClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       success,
		FailureReason: reason,
		Details:       map[string]string{"email": email},
	}
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, authEvent(r, audit.EventLoginSuccess, &userID, email, true, ""))
}

// LoginFailedUserNotFound logs a login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, authEvent(r, audit.EventLoginFailedUserNotFound, nil, email, false, "user not found"))
}

// LoginFailedWrongPassword logs a login with the wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, authEvent(r, audit.EventLoginFailedWrongPassword, &userID, email, false, "wrong password"))
}

// LoginFailedUserDisabled logs a login to a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, authEvent(r, audit.EventLoginFailedUserDisabled, &userID, email, false, "user disabled"))
}

// LoginLockedOut logs a login refused because of too many failures.
func (l *Logger) LoginLockedOut(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, authEvent(r, audit.EventLoginLockedOut, nil, email, false, "too many failed attempts"))
}

// Logout logs a user logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	var uid *primitive.ObjectID
	if !userID.IsZero() {
		uid = &userID
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    uid,
		IP:        network.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// ContentChanged logs an admin create, update or delete of a document in
// entity (the collection name).
func (l *Logger) ContentChanged(ctx context.Context, r *http.Request, actorID primitive.ObjectID, eventType, entity, id string) {
	var actor *primitive.ObjectID
	if !actorID.IsZero() {
		actor = &actorID
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: eventType,
		ActorID:   actor,
		IP:        network.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"entity": entity, "id": id},
	})
}

// System logs a system-level action such as a cache revalidation or upload.
func (l *Logger) System(ctx context.Context, r *http.Request, actorID primitive.ObjectID, eventType string, success bool, details map[string]string) {
	var actor *primitive.ObjectID
	if !actorID.IsZero() {
		actor = &actorID
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategorySystem,
		EventType: eventType,
		ActorID:   actor,
		IP:        network.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
		Details:   details,
	})
}
