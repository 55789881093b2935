// Package models defines data structures for the application.
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a user's access level.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// Roles lists every assignable role.
var Roles = []Role{RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin}

// ParseRole matches s against the known roles, ignoring case and surrounding space.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// DefaultPhoto is assigned to users who never uploaded one.
const DefaultPhoto = "default.jpg"

// User represents a user in the system.
type User struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"5c8a1d5b0190b214360dc057"`
	Name                 string             `json:"name" bson:"name" example:"Jonas"`
	Email                string             `json:"email" bson:"email" example:"admin@natours.io"`
	Photo                string             `json:"photo" bson:"photo" example:"user-1.jpg"`
	Role                 Role               `json:"role" bson:"role" example:"user"`
	Password             string             `json:"-" bson:"password"` // "-" = never include in JSON response
	PasswordChangedAt    *time.Time         `json:"passwordChangedAt,omitempty" bson:"passwordChangedAt,omitempty"`
	PasswordResetToken   string             `json:"-" bson:"passwordResetToken,omitempty"`
	PasswordResetExpires *time.Time         `json:"-" bson:"passwordResetExpires,omitempty"`
	Active               bool               `json:"-" bson:"active"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
}

// ChangedPasswordAfter reports whether the password was changed after a token
// issued at issuedAt. Comparison is at second precision, matching JWT iat.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// Summary returns the public profile embedded in tours and reviews.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Photo: u.Photo, Role: u.Role}
}

// UserSummary is the populated form of a user reference.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email,omitempty" bson:"email,omitempty"`
	Photo string             `json:"photo" bson:"photo"`
	Role  Role               `json:"role,omitempty" bson:"role,omitempty"`
}

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Name            string `json:"name" binding:"required,min=3,max=15" example:"Jonas"`
	Email           string `json:"email" binding:"required,email" example:"jonas@example.com"`
	Password        string `json:"password" binding:"required,min=8" example:"test1234"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password" example:"test1234"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@natours.io"`
	Password string `json:"password" binding:"required" example:"test1234"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"jonas@example.com"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8" example:"newpass123"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required" example:"newpass123"`
}

// UpdatePasswordRequest changes the password of the logged-in user.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" binding:"required" example:"test1234"`
	Password        string `json:"password" binding:"required,min=8" example:"newpass123"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required" example:"newpass123"`
}

// UpdateMeRequest updates the logged-in user's own profile. Password fields
// are accepted only so they can be rejected with a pointer to the right route.
type UpdateMeRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=3,max=15" example:"Jonas"`
	Email           *string `json:"email" binding:"omitempty,email" example:"new@example.com"`
	Photo           *string `json:"photo" binding:"omitempty,max=200" example:"users/5c8a/photo.jpg"`
	Password        *string `json:"password" swaggerignore:"true"`
	PasswordConfirm *string `json:"passwordConfirm" swaggerignore:"true"`
}

// UpdateUserRequest is the admin payload for editing a user. Roles and
// passwords have their own routes.
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=3,max=15" example:"Jonas"`
	Email *string `json:"email" binding:"omitempty,email" example:"new@example.com"`
	Photo *string `json:"photo" binding:"omitempty,max=200" example:"user-2.jpg"`
}

// UpdateRoleRequest is the payload for changing a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" example:"guide"`
}

// AuthResponse is returned by every route that issues a token.
type AuthResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	User  *User  `json:"user"`
}
