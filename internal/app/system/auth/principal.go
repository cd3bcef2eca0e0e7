package auth

import (
	"errors"

	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrWorklineDenied is returned when switching to a workline the principal
// is not a member of.
var ErrWorklineDenied = errors.New("auth: workline not permitted")

// Principal is the identity asserted by a verified token. It is a snapshot
// taken when the token was issued.
type Principal struct {
	UserID          primitive.ObjectID
	Email           string
	Role            models.Role
	Permissions     []authz.Permission
	Worklines       []models.Workline
	PrimaryWorkline models.Workline
}

// NewPrincipal builds the principal for u. Permissions come from the static
// role table, not from the stored document.
func NewPrincipal(u models.User) Principal {
	return Principal{
		UserID:          u.ID,
		Email:           u.Email,
		Role:            u.Role,
		Permissions:     authz.ForRole(u.Role),
		Worklines:       append([]models.Workline(nil), u.EffectiveWorklines()...),
		PrimaryWorkline: u.EffectivePrimaryWorkline(),
	}
}

// Can reports whether the principal's role grants p.
func (p Principal) Can(perm authz.Permission) bool {
	return authz.RoleHas(p.Role, perm)
}

// InWorkline reports whether the principal is a member of w.
func (p Principal) InWorkline(w models.Workline) bool {
	return models.ContainsWorkline(p.Worklines, w)
}

// SwitchWorkline returns a copy of p whose current workline is target.
// p itself is left unchanged, so a token issued for p stays valid as is.
func (p Principal) SwitchWorkline(target models.Workline) (Principal, error) {
	if !target.Valid() || !p.InWorkline(target) {
		return p, ErrWorklineDenied
	}
	next := p
	next.Permissions = append([]authz.Permission(nil), p.Permissions...)
	next.Worklines = append([]models.Workline(nil), p.Worklines...)
	next.PrimaryWorkline = target
	return next, nil
}
