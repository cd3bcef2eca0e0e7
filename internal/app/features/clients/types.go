// internal/app/features/clients/types.go
package clients

// createRequest carries the fields of both kinds of client; the ones that
// do not belong to the handler's workline are ignored.
type createRequest struct {
	Name    string `json:"name" validate:"required,max=200" label:"Name"`
	Email   string `json:"email" validate:"required,email" label:"Email"`
	Company string `json:"company" validate:"required,max=200" label:"Company"`
	Status  string `json:"status" validate:"oneof=active inactive suspended" label:"Status"`

	Industry      string   `json:"industry" validate:"max=100" label:"Industry"`
	RiskLevel     string   `json:"riskLevel" validate:"oneof=low medium high critical" label:"Risk level"`
	Services      []string `json:"services"`
	SecurityScore int      `json:"securityScore" validate:"min=0,max=100" label:"Security score"`
	IncidentCount int      `json:"incidentCount" validate:"min=0" label:"Incident count"`

	Plan   string `json:"plan" validate:"oneof=shared vps dedicated cloud" label:"Plan"`
	Domain string `json:"domain" validate:"max=253" label:"Domain"`
}

type updateRequest struct {
	Name    *string `json:"name" validate:"min=1,max=200" label:"Name"`
	Email   *string `json:"email" validate:"email" label:"Email"`
	Company *string `json:"company" validate:"min=1,max=200" label:"Company"`
	Status  *string `json:"status" validate:"oneof=active inactive suspended" label:"Status"`

	Industry      *string  `json:"industry" validate:"max=100" label:"Industry"`
	RiskLevel     *string  `json:"riskLevel" validate:"oneof=low medium high critical" label:"Risk level"`
	Services      []string `json:"services"`
	SecurityScore *int     `json:"securityScore" validate:"min=0,max=100" label:"Security score"`
	IncidentCount *int     `json:"incidentCount" validate:"min=0" label:"Incident count"`

	Plan   *string `json:"plan" validate:"oneof=shared vps dedicated cloud" label:"Plan"`
	Domain *string `json:"domain" validate:"max=253" label:"Domain"`
}
