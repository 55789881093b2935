// Package authz maps user roles to the actions they may perform.
package authz

import (
	"strings"

	"tours-api/internal/models"
)

// Action constants define the authorization actions.
const (
	ActionTourWrite      = "tour:write"
	ActionTourPlan       = "tour:plan"
	ActionTourViewSecret = "tour:view_secret"
	ActionReviewCreate   = "review:create"
	ActionReviewModify   = "review:modify"
	ActionReviewAny      = "review:any"
	ActionUserAdmin      = "user:admin"
)

// Authorizer decides whether a role may perform an action.
type Authorizer interface {
	Can(role models.Role, action string) bool
}

// RolePolicy is a fixed role table.
type RolePolicy struct {
	permissions map[string][]models.Role
}

// DefaultPolicy is the access table of the API.
var DefaultPolicy = NewRolePolicy(map[string][]models.Role{
	ActionTourWrite:      {models.RoleAdmin, models.RoleLeadGuide},
	ActionTourPlan:       {models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide},
	ActionTourViewSecret: {models.RoleAdmin, models.RoleLeadGuide},
	ActionReviewCreate:   {models.RoleUser},
	ActionReviewModify:   {models.RoleUser, models.RoleAdmin},
	ActionReviewAny:      {models.RoleAdmin},
	ActionUserAdmin:      {models.RoleAdmin},
})

// NewRolePolicy creates a policy from an action to roles table.
func NewRolePolicy(permissions map[string][]models.Role) *RolePolicy {
	return &RolePolicy{permissions: permissions}
}

// Can reports whether role may perform action. Roles compare case-insensitively;
// unknown actions are denied.
func (p *RolePolicy) Can(role models.Role, action string) bool {
	allowed, ok := p.permissions[action]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if strings.EqualFold(string(r), strings.TrimSpace(string(role))) {
			return true
		}
	}
	return false
}

var _ Authorizer = (*RolePolicy)(nil)
