// internal/domain/models/security.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Severity ranks incidents, threats and client risk.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type IncidentStatus string

const (
	IncidentOpen          IncidentStatus = "open"
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentContained     IncidentStatus = "contained"
	IncidentResolved      IncidentStatus = "resolved"
	IncidentClosed        IncidentStatus = "closed"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentOpen, IncidentInvestigating, IncidentContained, IncidentResolved, IncidentClosed:
		return true
	}
	return false
}

// Incident is a security event tracked by the cybersecurity workline.
type Incident struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title           string              `bson:"title" json:"title"`
	Description     string              `bson:"description" json:"description"`
	Type            string              `bson:"type" json:"type"`
	Severity        Severity            `bson:"severity" json:"severity"`
	Status          IncidentStatus      `bson:"status" json:"status"`
	AffectedSystems []string            `bson:"affectedSystems" json:"affectedSystems"`
	DetectedAt      time.Time           `bson:"detectedAt" json:"detectedAt"`
	ReportedBy      string              `bson:"reportedBy" json:"reportedBy"`
	AssignedTo      *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	ResolvedAt      *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type ThreatType string

const (
	ThreatMalware    ThreatType = "malware"
	ThreatPhishing   ThreatType = "phishing"
	ThreatDDoS       ThreatType = "ddos"
	ThreatRansomware ThreatType = "ransomware"
	ThreatInsider    ThreatType = "insider"
	ThreatAPT        ThreatType = "apt"
	ThreatOther      ThreatType = "other"
)

func (t ThreatType) Valid() bool {
	switch t {
	case ThreatMalware, ThreatPhishing, ThreatDDoS, ThreatRansomware, ThreatInsider, ThreatAPT, ThreatOther:
		return true
	}
	return false
}

type ThreatStatus string

const (
	ThreatActive     ThreatStatus = "active"
	ThreatMonitoring ThreatStatus = "monitoring"
	ThreatMitigated  ThreatStatus = "mitigated"
)

func (s ThreatStatus) Valid() bool {
	switch s {
	case ThreatActive, ThreatMonitoring, ThreatMitigated:
		return true
	}
	return false
}

// Threat is a known threat under watch by the cybersecurity workline.
type Threat struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	Type            ThreatType          `bson:"type" json:"type"`
	Severity        Severity            `bson:"severity" json:"severity"`
	Description     string              `bson:"description" json:"description"`
	Source          string              `bson:"source" json:"source"`
	Status          ThreatStatus        `bson:"status" json:"status"`
	Indicators      []string            `bson:"indicators" json:"indicators"`
	MitigationSteps []string            `bson:"mitigationSteps" json:"mitigationSteps"`
	CreatedBy       *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}
