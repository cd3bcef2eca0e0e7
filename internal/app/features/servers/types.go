// internal/app/features/servers/types.go
package servers

import "github.com/dalemusser/hostpro/internal/domain/models"

type createRequest struct {
	Name            string             `json:"name" validate:"required,max=200" label:"Name"`
	Type            string             `json:"type" validate:"required,max=100" label:"Type"`
	Location        string             `json:"location" validate:"required,max=200" label:"Location"`
	IPAddress       string             `json:"ipAddress" validate:"required,ip" label:"IP address"`
	Specifications  models.ServerSpecs `json:"specifications"`
	OperatingSystem string             `json:"operatingSystem" validate:"max=100" label:"Operating system"`
	Status          string             `json:"status" validate:"oneof=active maintenance offline" label:"Status"`
	ClientID        string             `json:"clientId"`
	MonthlyPrice    float64            `json:"monthlyPrice" validate:"min=0" label:"Monthly price"`
}

type updateRequest struct {
	Name            *string             `json:"name" validate:"min=1,max=200" label:"Name"`
	Type            *string             `json:"type" validate:"min=1,max=100" label:"Type"`
	Location        *string             `json:"location" validate:"min=1,max=200" label:"Location"`
	IPAddress       *string             `json:"ipAddress" validate:"ip" label:"IP address"`
	Specifications  *models.ServerSpecs `json:"specifications"`
	OperatingSystem *string             `json:"operatingSystem" validate:"max=100" label:"Operating system"`
	Status          *string             `json:"status" validate:"oneof=active maintenance offline" label:"Status"`
	ClientID        *string             `json:"clientId"`
	MonthlyPrice    *float64            `json:"monthlyPrice" validate:"min=0" label:"Monthly price"`
}
