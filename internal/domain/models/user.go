// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in to the admin API.
//
// NOTE:
//   - Permissions is always the static set for Role at the time the role was
//     last assigned. It is never edited directly.
//   - IsActive gates login. Deleting a user clears it instead of removing
//     the document.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email           string             `bson:"email" json:"email"` // stored lowercase
	PasswordHash    string             `bson:"password" json:"-"`
	Name            string             `bson:"name" json:"name"`
	Role            Role               `bson:"role" json:"role"`
	Permissions     []string           `bson:"permissions" json:"permissions"`
	Department      string             `bson:"department" json:"department"`
	Worklines       []Workline         `bson:"worklines" json:"worklines"`
	PrimaryWorkline Workline           `bson:"primaryWorkline,omitempty" json:"primaryWorkline,omitempty"`
	IsActive        bool               `bson:"isActive" json:"isActive"`

	LastLogin *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// UserRef is the short form of a user embedded in other resources.
type UserRef struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// Ref returns the short form of u.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// EffectiveWorklines returns the user's worklines, falling back to
// DefaultWorkline for accounts created before worklines existed.
func (u User) EffectiveWorklines() []Workline {
	if len(u.Worklines) == 0 {
		return []Workline{DefaultWorkline}
	}
	return u.Worklines
}

// EffectivePrimaryWorkline returns PrimaryWorkline, or the first workline
// when none was recorded.
func (u User) EffectivePrimaryWorkline() Workline {
	if u.PrimaryWorkline != "" {
		return u.PrimaryWorkline
	}
	return u.EffectiveWorklines()[0]
}
