// internal/app/features/authapi/types.go
package authapi

import (
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/domain/models"
)

type registerRequest struct {
	Email           string   `json:"email" validate:"required,email" label:"Email"`
	Password        string   `json:"password" validate:"required,min=6" label:"Password"`
	Name            string   `json:"name" validate:"required,min=2,max=100" label:"Name"`
	Role            string   `json:"role" validate:"role" label:"Role"`
	Department      string   `json:"department" validate:"max=100" label:"Department"`
	Worklines       []string `json:"worklines" validate:"workline" label:"Worklines"`
	PrimaryWorkline string   `json:"primaryWorkline" validate:"workline" label:"Primary workline"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type switchRequest struct {
	Workline string `json:"workline"`
}

type loginResponse struct {
	Token              string            `json:"token"`
	User               models.User       `json:"user"`
	AvailableWorklines []models.Workline `json:"availableWorklines"`
	PrimaryWorkline    models.Workline   `json:"primaryWorkline"`
}

type switchResponse struct {
	Token    string          `json:"token"`
	Workline models.Workline `json:"workline"`
	Message  string          `json:"message"`
}

type verifyResponse struct {
	User                models.User        `json:"user"`
	Worklines           []models.Workline  `json:"worklines"`
	PrimaryWorkline     models.Workline    `json:"primaryWorkline"`
	WorklinePermissions []authz.Permission `json:"worklinePermissions"`
}
