package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/hostpro/internal/app/store/crud"
	"github.com/dalemusser/hostpro/internal/app/system/authz"
	"github.com/dalemusser/hostpro/internal/app/system/normalize"
	"github.com/dalemusser/hostpro/internal/app/system/paging"
	"github.com/dalemusser/hostpro/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultDepartment is recorded when none is given.
const DefaultDepartment = "General"

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = crud.ErrNotFound
	// ErrDuplicateEmail is returned when the email belongs to another user.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New("role must be admin, moderator or user")
)

type Store struct {
	users crud.Collection[models.User]
}

func New(db *mongo.Database) *Store {
	return &Store{users: crud.New[models.User](db, "users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.users.Get(ctx, bson.M{"email": normalize.Email(email)})
}

// EmailExists reports whether any user, active or not, has email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.users.Exists(ctx, bson.M{"email": normalize.Email(email)})
}

// Create inserts a new active user after normalizing fields. Permissions
// are derived from the role and worklines default to DefaultWorkline.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if !u.Role.Valid() {
		return models.User{}, errBadRole
	}
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.Name = normalize.Name(u.Name)
	u.Permissions = authz.Strings(authz.ForRole(u.Role))
	if u.Department == "" {
		u.Department = DefaultDepartment
	}
	if len(u.Worklines) == 0 {
		u.Worklines = []models.Workline{models.DefaultWorkline}
	}
	if u.PrimaryWorkline == "" || !models.ContainsWorkline(u.Worklines, u.PrimaryWorkline) {
		u.PrimaryWorkline = u.Worklines[0]
	}
	u.IsActive = true

	now := time.Now().UTC().Truncate(time.Millisecond)
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.users.Insert(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ListFilter narrows List. Empty fields are ignored.
type ListFilter struct {
	Search     string
	Role       string
	Department string
	Active     *bool
}

// List returns one page of users, newest first.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.User, int64, error) {
	filter := bson.M{}
	crud.Eq(filter, "role", f.Role)
	crud.Eq(filter, "department", f.Department)
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}
	if f.Search != "" {
		filter["$or"] = crud.SearchAny(f.Search, "name", "email")
	}
	return s.users.Page(ctx, filter, p)
}

// Update carries the fields to change; nil means unchanged.
type Update struct {
	Email           *string
	Name            *string
	Department      *string
	Role            *models.Role
	PasswordHash    *string
	Worklines       []models.Workline
	PrimaryWorkline *models.Workline
	IsActive        *bool
}

// Update applies upd and returns the updated user. A role change replaces
// the stored permission set with the new role's.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Department != nil {
		set["department"] = *upd.Department
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return models.User{}, errBadRole
		}
		set["role"] = *upd.Role
		set["permissions"] = authz.Strings(authz.ForRole(*upd.Role))
	}
	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
	}
	if upd.Worklines != nil {
		set["worklines"] = upd.Worklines
	}
	if upd.PrimaryWorkline != nil {
		set["primaryWorkline"] = *upd.PrimaryWorkline
	}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}

	u, err := s.users.Update(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if wafflemongo.IsDup(err) {
		return models.User{}, ErrDuplicateEmail
	}
	return u, err
}

// Deactivate soft-deletes a user.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	active := false
	_, err := s.Update(ctx, id, Update{IsActive: &active})
	return err
}

// TouchLastLogin records a successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.users.C.UpdateByID(ctx, id, bson.M{"$set": bson.M{"lastLogin": at.UTC()}})
	return err
}

// SetPrimaryWorkline persists the caller's current workline.
func (s *Store) SetPrimaryWorkline(ctx context.Context, id primitive.ObjectID, w models.Workline) error {
	_, err := s.Update(ctx, id, Update{PrimaryWorkline: &w})
	return err
}

// Refs resolves ids to their short form. Unknown ids are absent from the map.
func (s *Store) Refs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	out := make(map[primitive.ObjectID]models.UserRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1})
	users, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Ref()
	}
	return out, nil
}

// EnsureAdmin creates an admin with email in every workline unless a user
// with that email already exists. It reports whether a user was created.
func (s *Store) EnsureAdmin(ctx context.Context, email, passwordHash, name string) (models.User, bool, error) {
	existing, err := s.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, false, err
	}
	u, err := s.Create(ctx, models.User{
		Email:           email,
		PasswordHash:    passwordHash,
		Name:            name,
		Role:            models.RoleAdmin,
		Department:      "Administration",
		Worklines:       append([]models.Workline(nil), models.AllWorklines...),
		PrimaryWorkline: models.DefaultWorkline,
	})
	if errors.Is(err, ErrDuplicateEmail) {
		// Lost a race with another seeder.
		existing, err := s.GetByEmail(ctx, email)
		return existing, false, err
	}
	return u, err == nil, err
}
