// internal/app/features/users/types.go
package users

type createRequest struct {
	Email           string   `json:"email" validate:"required,email" label:"Email"`
	Password        string   `json:"password" validate:"required,min=6" label:"Password"`
	Name            string   `json:"name" validate:"required,min=2,max=100" label:"Name"`
	Role            string   `json:"role" validate:"role" label:"Role"`
	Department      string   `json:"department" validate:"max=100" label:"Department"`
	Worklines       []string `json:"worklines" validate:"workline" label:"Worklines"`
	PrimaryWorkline string   `json:"primaryWorkline" validate:"workline" label:"Primary workline"`
}

type updateRequest struct {
	Email           *string  `json:"email" validate:"email" label:"Email"`
	Password        *string  `json:"password" validate:"min=6" label:"Password"`
	Name            *string  `json:"name" validate:"min=2,max=100" label:"Name"`
	Role            *string  `json:"role" validate:"role" label:"Role"`
	Department      *string  `json:"department" validate:"max=100" label:"Department"`
	Worklines       []string `json:"worklines" validate:"workline" label:"Worklines"`
	PrimaryWorkline *string  `json:"primaryWorkline" validate:"workline" label:"Primary workline"`
	IsActive        *bool    `json:"isActive"`
}
