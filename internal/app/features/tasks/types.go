// internal/app/features/tasks/types.go
package tasks

import "github.com/dalemusser/hostpro/internal/app/system/jsonutil"

type createRequest struct {
	Title       string   `json:"title" validate:"required,max=200" label:"Title"`
	Description string   `json:"description" validate:"max=5000" label:"Description"`
	Status      string   `json:"status" validate:"oneof=pending in-progress completed cancelled" label:"Status"`
	Priority    string   `json:"priority" validate:"oneof=low medium high urgent" label:"Priority"`
	AssignedTo  string   `json:"assignedTo"`
	DueDate     string   `json:"dueDate"`
	Site        string   `json:"site" validate:"max=100" label:"Site"`
	Tags        []string `json:"tags"`
}

// updateRequest treats a null assignedTo or dueDate as "clear it".
type updateRequest struct {
	Title       *string                   `json:"title" validate:"min=1,max=200" label:"Title"`
	Description *string                   `json:"description" validate:"max=5000" label:"Description"`
	Status      *string                   `json:"status" validate:"oneof=pending in-progress completed cancelled" label:"Status"`
	Priority    *string                   `json:"priority" validate:"oneof=low medium high urgent" label:"Priority"`
	AssignedTo  jsonutil.Nullable[string] `json:"assignedTo"`
	DueDate     jsonutil.Nullable[string] `json:"dueDate"`
	Site        *string                   `json:"site" validate:"min=1,max=100" label:"Site"`
	Tags        []string                  `json:"tags"`
}
