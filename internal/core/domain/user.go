package domain

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	RoleMember = "member"
	RoleCoach  = "coach"
)

// User models the authenticated identity of a visitor. Coach accounts carry
// additional branding fields; member accounts leave them empty.
type User struct {
	ID         string    `json:"id" bson:"_id" validate:"required"`
	Email      string    `json:"email,omitempty" bson:"email,omitempty"`
	FirstName  string    `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Role       string    `json:"role" bson:"role" validate:"required,oneof=member coach"`
	Brand      string    `json:"brand,omitempty" bson:"brand,omitempty"`
	BrandSlug  string    `json:"brand_slug,omitempty" bson:"brand_slug,omitempty"`
	ThemeColor string    `json:"theme_color,omitempty" bson:"theme_color,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

var validate = validator.New()

// ValidateUser performs the structural check applied to every user record
// before it is trusted, at login and on every store read. A record without an
// id or with an unknown role is invalid.
func ValidateUser(u *User) error {
	if u == nil {
		return ErrInvalidUser
	}
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}
	return nil
}

// IsCoach reports whether the user holds the coach role.
func (u *User) IsCoach() bool {
	return u != nil && u.Role == RoleCoach
}

// Clone returns a copy so callers can never mutate session-owned state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// UserPatch carries a partial update for an authenticated user. Nil fields are
// left untouched. Role is deliberately absent: it is immutable for the life of
// a session.
type UserPatch struct {
	Email      *string `json:"email,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Brand      *string `json:"brand,omitempty"`
	BrandSlug  *string `json:"brand_slug,omitempty"`
	ThemeColor *string `json:"theme_color,omitempty"`
}

// Apply merges the patch into a copy of u and returns it.
func (p UserPatch) Apply(u *User) *User {
	merged := u.Clone()
	if p.Email != nil {
		merged.Email = *p.Email
	}
	if p.FirstName != nil {
		merged.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		merged.LastName = *p.LastName
	}
	if p.Brand != nil {
		merged.Brand = *p.Brand
	}
	if p.BrandSlug != nil {
		merged.BrandSlug = *p.BrandSlug
	}
	if p.ThemeColor != nil {
		merged.ThemeColor = *p.ThemeColor
	}
	merged.UpdatedAt = time.Now().UTC()
	return merged
}
