// internal/app/features/threats/types.go
package threats

type createRequest struct {
	Name            string   `json:"name" validate:"required,max=200" label:"Name"`
	Type            string   `json:"type" validate:"required,oneof=malware phishing ddos ransomware insider apt other" label:"Type"`
	Severity        string   `json:"severity" validate:"required,oneof=low medium high critical" label:"Severity"`
	Description     string   `json:"description" validate:"required,max=5000" label:"Description"`
	Source          string   `json:"source" validate:"required,max=200" label:"Source"`
	Status          string   `json:"status" validate:"oneof=active monitoring mitigated" label:"Status"`
	Indicators      []string `json:"indicators"`
	MitigationSteps []string `json:"mitigationSteps"`
}

type updateRequest struct {
	Name            *string  `json:"name" validate:"min=1,max=200" label:"Name"`
	Type            *string  `json:"type" validate:"oneof=malware phishing ddos ransomware insider apt other" label:"Type"`
	Severity        *string  `json:"severity" validate:"oneof=low medium high critical" label:"Severity"`
	Description     *string  `json:"description" validate:"min=1,max=5000" label:"Description"`
	Source          *string  `json:"source" validate:"min=1,max=200" label:"Source"`
	Status          *string  `json:"status" validate:"oneof=active monitoring mitigated" label:"Status"`
	Indicators      []string `json:"indicators"`
	MitigationSteps []string `json:"mitigationSteps"`
}

type indicatorsRequest struct {
	Indicators []string `json:"indicators"`
}
