// internal/app/features/incidents/types.go
package incidents

type createRequest struct {
	Title           string   `json:"title" validate:"required,max=200" label:"Title"`
	Type            string   `json:"type" validate:"required,max=100" label:"Type"`
	Description     string   `json:"description" validate:"max=5000" label:"Description"`
	Severity        string   `json:"severity" validate:"oneof=low medium high critical" label:"Severity"`
	Status          string   `json:"status" validate:"oneof=open investigating contained resolved closed" label:"Status"`
	AffectedSystems []string `json:"affectedSystems"`
	DetectedAt      string   `json:"detectedAt"`
	ReportedBy      string   `json:"reportedBy" validate:"max=200" label:"Reported by"`
	AssignedTo      string   `json:"assignedTo"`
}

type updateRequest struct {
	Title           *string  `json:"title" validate:"min=1,max=200" label:"Title"`
	Type            *string  `json:"type" validate:"min=1,max=100" label:"Type"`
	Description     *string  `json:"description" validate:"max=5000" label:"Description"`
	Severity        *string  `json:"severity" validate:"oneof=low medium high critical" label:"Severity"`
	Status          *string  `json:"status" validate:"oneof=open investigating contained resolved closed" label:"Status"`
	AffectedSystems []string `json:"affectedSystems"`
	DetectedAt      *string  `json:"detectedAt"`
	ReportedBy      *string  `json:"reportedBy" validate:"max=200" label:"Reported by"`
	AssignedTo      *string  `json:"assignedTo"`
}
