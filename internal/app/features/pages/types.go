// internal/app/features/pages/types.go
package pages

import "time"

type createRequest struct {
	Title           string   `json:"title" validate:"required,max=200" label:"Title"`
	Content         string   `json:"content" validate:"required" label:"Content"`
	Excerpt         string   `json:"excerpt" validate:"max=500" label:"Excerpt"`
	Status          string   `json:"status" validate:"oneof=draft published archived" label:"Status"`
	Site            string   `json:"site" validate:"max=100" label:"Site"`
	MetaTitle       string   `json:"metaTitle" validate:"max=200" label:"Meta title"`
	MetaDescription string   `json:"metaDescription" validate:"max=500" label:"Meta description"`
	Tags            []string `json:"tags"`
}

type updateRequest struct {
	Title           *string  `json:"title" validate:"min=1,max=200" label:"Title"`
	Content         *string  `json:"content" validate:"min=1" label:"Content"`
	Excerpt         *string  `json:"excerpt" validate:"max=500" label:"Excerpt"`
	Status          *string  `json:"status" validate:"oneof=draft published archived" label:"Status"`
	Site            *string  `json:"site" validate:"min=1,max=100" label:"Site"`
	MetaTitle       *string  `json:"metaTitle" validate:"max=200" label:"Meta title"`
	MetaDescription *string  `json:"metaDescription" validate:"max=500" label:"Meta description"`
	Tags            []string `json:"tags"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published archived" label:"Status"`
}

// publicPage is what unauthenticated readers see.
type publicPage struct {
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	MetaTitle       string     `json:"metaTitle"`
	MetaDescription string     `json:"metaDescription"`
	Tags            []string   `json:"tags"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
}
