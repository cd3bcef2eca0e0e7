// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/hostpro/internal/app/store/audit"
	"github.com/dalemusser/hostpro/internal/app/system/ratelimit"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Logging destinations for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, register, workline switch).
	Auth string
	// Admin controls logging for user administration events.
	Admin string
}

// Logger records audit events to MongoDB (via audit.Store) and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when only zap output is wanted.
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
		zap.String("request_id", event.RequestID),
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

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers can run without auditing in tests.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = ModeAll
	}
	if setting == "" {
		setting = ModeAll
	}
	if setting == ModeOff {
		return
	}

	if event.RequestID == "" {
		event.RequestID = middleware.GetReqID(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = uuid.NewString()
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func requestEvent(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = &userID
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedUserNotFound logs a login attempt for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound, false)
	e.FailureReason = "user not found"
	e.Details = map[string]string{"attempted_email": attemptedEmail}
	l.Log(ctx, e)
}

// LoginFailedWrongPassword logs a failed login due to a wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword, false)
	e.UserID = &userID
	e.FailureReason = "wrong password"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailedUserInactive logs a failed login by a deactivated account.
func (l *Logger) LoginFailedUserInactive(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginFailedUserInactive, false)
	e.UserID = &userID
	e.FailureReason = "account deactivated"
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// UserRegistered logs a self-service registration.
func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, user models.User) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventUserRegistered, true)
	e.UserID = &user.ID
	e.Details = map[string]string{"email": user.Email, "role": string(user.Role)}
	l.Log(ctx, e)
}

// WorklineSwitched logs a change of the user's current workline.
func (l *Logger) WorklineSwitched(ctx context.Context, r *http.Request, userID primitive.ObjectID, from, to models.Workline) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventWorklineSwitched, true)
	e.UserID = &userID
	e.Details = map[string]string{"from": string(from), "to": string(to)}
	l.Log(ctx, e)
}

// WorklineSwitchDenied logs an attempt to switch to a workline the user is not a member of.
func (l *Logger) WorklineSwitchDenied(ctx context.Context, r *http.Request, userID primitive.ObjectID, target models.Workline) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventWorklineSwitchDenied, false)
	e.UserID = &userID
	e.FailureReason = "not a member of workline"
	e.Details = map[string]string{"target": string(target)}
	l.Log(ctx, e)
}

// --- Admin Events ---

// UserCreated logs creation of a user by an administrator.
func (l *Logger) UserCreated(ctx context.Context, r *http.Request, actorID, userID primitive.ObjectID, role models.Role) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserCreated, true)
	e.ActorID = &actorID
	e.UserID = &userID
	e.Details = map[string]string{"role": string(role)}
	l.Log(ctx, e)
}

// UserUpdated logs a change to a user. fields names what changed.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID, userID primitive.ObjectID, fields string) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserUpdated, true)
	e.ActorID = &actorID
	e.UserID = &userID
	e.Details = map[string]string{"fields": fields}
	l.Log(ctx, e)
}

// UserDeactivated logs a soft delete.
func (l *Logger) UserDeactivated(ctx context.Context, r *http.Request, actorID, userID primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryAdmin, audit.EventUserDeactivated, true)
	e.ActorID = &actorID
	e.UserID = &userID
	l.Log(ctx, e)
}
