// Package authz holds the role policy as a pure decision function so it
// can be unit-tested without touching storage or the HTTP layer.
package authz

import "library_system/internal/domain"

// Resource identifies a resource class exposed by the API.
type Resource string

// Resource classes.
const (
	Users      Resource = "users"
	Books      Resource = "books"
	Categories Resource = "categories"
	Borrowings Resource = "borrowings"
	Reviews    Resource = "reviews"
)

// Action identifies an operation on a resource class.
type Action string

// Actions.
const (
	List    Action = "list"
	Show    Action = "show"
	Create  Action = "create"
	Update  Action = "update"
	Destroy Action = "destroy"
)

// Role sets used by the policy table.
var (
	adminOnly  = []string{domain.RoleAdmin}
	memberOnly = []string{domain.RoleMember}
	anyRole    = []string{domain.RoleMember, domain.RoleAdmin}
)

// policy maps each resource/action pair to the roles allowed to perform
// it. A pair absent from the table is denied for every role.
var policy = map[Resource]map[Action][]string{
	Users: {
		List:    adminOnly,
		Show:    adminOnly,
		Update:  adminOnly,
		Destroy: adminOnly,
	},
	Categories: {
		List:    adminOnly,
		Show:    adminOnly,
		Create:  adminOnly,
		Update:  adminOnly,
		Destroy: adminOnly,
	},
	Books: {
		List:    anyRole,
		Show:    anyRole,
		Create:  adminOnly,
		Update:  adminOnly,
		Destroy: adminOnly,
	},
	Borrowings: {
		List:    adminOnly,
		Show:    adminOnly,
		Create:  memberOnly,
		Update:  adminOnly,
		Destroy: adminOnly,
	},
	Reviews: {
		List:    anyRole,
		Show:    anyRole,
		Create:  memberOnly,
		Update:  anyRole,
		Destroy: adminOnly,
	},
}

// Allowed decides whether a role may perform an action on a resource
// class. It is side-effect free and never consults storage.
func Allowed(role string, action Action, resource Resource) bool {
	actions, ok := policy[resource]
	if !ok {
		return false
	}
	for _, r := range actions[action] {
		if r == role {
			return true
		}
	}
	return false
}
