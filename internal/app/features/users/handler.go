// internal/app/features/users/handler.go
package users

import (
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"github.com/dalemusser/hostpro/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Log      *zap.Logger
	AuditLog *auditlog.Logger
}

// NewHandler constructs a users feature handler bound to the given Mongo
// database and logger. audit may be nil.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Log:      logger,
		AuditLog: audit,
	}
}
