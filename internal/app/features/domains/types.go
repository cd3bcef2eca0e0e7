// internal/app/features/domains/types.go
package domains

import "github.com/dalemusser/hostpro/internal/domain/models"

type createRequest struct {
	Name       string             `json:"name" validate:"required,max=253" label:"Name"`
	ClientID   string             `json:"clientId" validate:"required" label:"Client"`
	Registrar  string             `json:"registrar" validate:"required,max=200" label:"Registrar"`
	ExpiryDate string             `json:"expiryDate" validate:"required" label:"Expiry date"`
	Status     string             `json:"status" validate:"max=50" label:"Status"`
	AutoRenew  bool               `json:"autoRenew"`
	DNSRecords []models.DNSRecord `json:"dnsRecords"`
	SSLStatus  string             `json:"sslStatus" validate:"max=50" label:"SSL status"`
}

type updateRequest struct {
	Name       *string            `json:"name" validate:"min=1,max=253" label:"Name"`
	ClientID   *string            `json:"clientId" label:"Client"`
	Registrar  *string            `json:"registrar" validate:"min=1,max=200" label:"Registrar"`
	ExpiryDate *string            `json:"expiryDate" label:"Expiry date"`
	Status     *string            `json:"status" validate:"max=50" label:"Status"`
	AutoRenew  *bool              `json:"autoRenew"`
	DNSRecords []models.DNSRecord `json:"dnsRecords"`
	SSLStatus  *string            `json:"sslStatus" validate:"max=50" label:"SSL status"`
}
