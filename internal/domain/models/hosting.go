// internal/domain/models/hosting.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HostingPlan string

const (
	PlanShared    HostingPlan = "shared"
	PlanVPS       HostingPlan = "vps"
	PlanDedicated HostingPlan = "dedicated"
	PlanCloud     HostingPlan = "cloud"
)

func (p HostingPlan) Valid() bool {
	switch p {
	case PlanShared, PlanVPS, PlanDedicated, PlanCloud:
		return true
	}
	return false
}

// Client is a customer of one workline. Cybersecurity clients carry the
// risk fields; hosting clients carry Plan and Domain.
type Client struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Workline  Workline            `bson:"workline" json:"workline"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	Company   string              `bson:"company" json:"company"`
	Status    string              `bson:"status" json:"status"`
	CreatedBy *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`

	// cybersecurity
	Industry      string   `bson:"industry,omitempty" json:"industry,omitempty"`
	RiskLevel     Severity `bson:"riskLevel,omitempty" json:"riskLevel,omitempty"`
	Services      []string `bson:"services,omitempty" json:"services,omitempty"`
	SecurityScore int      `bson:"securityScore" json:"securityScore"`
	IncidentCount int      `bson:"incidentCount" json:"incidentCount"`

	// hosting
	Plan   HostingPlan `bson:"plan,omitempty" json:"plan,omitempty"`
	Domain string      `bson:"domain,omitempty" json:"domain,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ClientRef is the short form of a client embedded in other resources.
type ClientRef struct {
	ID      primitive.ObjectID `json:"id"`
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Company string             `json:"company"`
}

func (c Client) Ref() ClientRef {
	return ClientRef{ID: c.ID, Name: c.Name, Email: c.Email, Company: c.Company}
}

type ServerStatus string

const (
	ServerActive      ServerStatus = "active"
	ServerMaintenance ServerStatus = "maintenance"
	ServerOffline     ServerStatus = "offline"
)

func (s ServerStatus) Valid() bool {
	switch s {
	case ServerActive, ServerMaintenance, ServerOffline:
		return true
	}
	return false
}

// ServerSpecs describes a server's hardware allocation.
type ServerSpecs struct {
	CPU       string `bson:"cpu,omitempty" json:"cpu,omitempty"`
	RAM       string `bson:"ram,omitempty" json:"ram,omitempty"`
	Storage   string `bson:"storage,omitempty" json:"storage,omitempty"`
	Bandwidth string `bson:"bandwidth,omitempty" json:"bandwidth,omitempty"`
}

type Server struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	Type            string              `bson:"type" json:"type"`
	Location        string              `bson:"location" json:"location"`
	IPAddress       string              `bson:"ipAddress" json:"ipAddress"`
	Specifications  ServerSpecs         `bson:"specifications" json:"specifications"`
	OperatingSystem string              `bson:"operatingSystem" json:"operatingSystem"`
	Status          ServerStatus        `bson:"status" json:"status"`
	ClientID        *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	MonthlyPrice    float64             `bson:"monthlyPrice" json:"monthlyPrice"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// DNSRecord is a single record in a domain's zone.
type DNSRecord struct {
	Type  string `bson:"type" json:"type"`
	Name  string `bson:"name" json:"name"`
	Value string `bson:"value" json:"value"`
	TTL   int    `bson:"ttl,omitempty" json:"ttl,omitempty"`
}

// Domain is a registered domain name owned by a hosting client.
type Domain struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name       string              `bson:"name" json:"name"` // stored lowercase, unique
	ClientID   primitive.ObjectID  `bson:"clientId" json:"-"`
	Registrar  string              `bson:"registrar" json:"registrar"`
	ExpiryDate time.Time           `bson:"expiryDate" json:"expiryDate"`
	Status     string              `bson:"status" json:"status"`
	AutoRenew  bool                `bson:"autoRenew" json:"autoRenew"`
	DNSRecords []DNSRecord         `bson:"dnsRecords" json:"dnsRecords"`
	SSLStatus  string              `bson:"sslStatus" json:"sslStatus"`
	CreatedBy  *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}
