// internal/domain/models/page.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageStatus is a page's publishing state.
type PageStatus string

const (
	PageDraft     PageStatus = "draft"
	PagePublished PageStatus = "published"
	PageArchived  PageStatus = "archived"
)

// Valid reports whether s is a known page status.
func (s PageStatus) Valid() bool {
	switch s {
	case PageDraft, PagePublished, PageArchived:
		return true
	}
	return false
}

// DefaultPageSite is used when a page is created without a site.
const DefaultPageSite = "cybersecurity"

// Page is a CMS page owned by a site. Slug is unique within Site.
type Page struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title           string              `bson:"title" json:"title"`
	Slug            string              `bson:"slug" json:"slug"`
	Content         string              `bson:"content" json:"content"`
	Excerpt         string              `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Status          PageStatus          `bson:"status" json:"status"`
	Site            string              `bson:"site" json:"site"`
	AuthorID        *primitive.ObjectID `bson:"author,omitempty" json:"-"`
	MetaTitle       string              `bson:"metaTitle" json:"metaTitle"`
	MetaDescription string              `bson:"metaDescription" json:"metaDescription"`
	Tags            []string            `bson:"tags" json:"tags"`
	Views           int64               `bson:"views" json:"views"`

	PublishedAt *time.Time `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}
