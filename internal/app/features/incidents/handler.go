// internal/app/features/incidents/handler.go
package incidents

import (
	incidentstore "github.com/dalemusser/hostpro/internal/app/store/incidents"
	userstore "github.com/dalemusser/hostpro/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the cybersecurity incidents API.
type Handler struct {
	Incidents *incidentstore.Store
	Users     *userstore.Store
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Incidents: incidentstore.New(db),
		Users:     userstore.New(db),
		Log:       logger,
	}
}
