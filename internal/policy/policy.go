// Package policy holds the role-to-capability table consulted by the route
// guard and the view filter. The policy is data, not scattered role checks:
// every "can this role see/do X" question in the app is answered here so the
// rules are defined once and testable without rendering anything.
package policy

import (
	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
)

// Destination names a navigable page of the interface.
type Destination string

const (
	DestDashboard    Destination = "dashboard"
	DestBooks        Destination = "books"
	DestMembers      Destination = "members"
	DestLoans        Destination = "loans"
	DestProfile      Destination = "profile"
	DestSettings     Destination = "settings"
	DestLogin        Destination = "login"
	DestRegister     Destination = "register"
	DestVerifyEmail  Destination = "verify-email"
	DestFindID       Destination = "find-id"
	DestFindPassword Destination = "find-password"
)

// Resource names a backend resource whose row-level actions are role-gated.
type Resource string

const (
	ResourceBooks   Resource = "books"
	ResourceMembers Resource = "members"
	ResourceLoans   Resource = "loans"
)

// Action is a row-level affordance on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// RouteRule describes who may reach a destination. AnonymousOnly marks the
// auth entry points (login, register, account-recovery flows) that an
// authenticated session has no business revisiting.
type RouteRule struct {
	Path          string
	AnonymousOnly bool
	Roles         []domainauth.Role
}

var allRoles = []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleUser}
var adminOnly = []domainauth.Role{domainauth.RoleAdmin}

// routeTable is the single source of truth for navigation-time access.
var routeTable = map[Destination]RouteRule{
	DestDashboard:    {Path: "/", Roles: allRoles},
	DestBooks:        {Path: "/books", Roles: adminOnly},
	DestMembers:      {Path: "/members", Roles: adminOnly},
	DestLoans:        {Path: "/loans", Roles: adminOnly},
	DestProfile:      {Path: "/profile", Roles: allRoles},
	DestSettings:     {Path: "/settings", Roles: allRoles},
	DestLogin:        {Path: "/login", AnonymousOnly: true},
	DestRegister:     {Path: "/register", AnonymousOnly: true},
	DestVerifyEmail:  {Path: "/verify-email", AnonymousOnly: true},
	DestFindID:       {Path: "/find-id", AnonymousOnly: true},
	DestFindPassword: {Path: "/find-password", AnonymousOnly: true},
}

// actionTable gates row-level affordances per resource. The original
// interface exposes all catalog management to admins only.
var actionTable = map[Resource]map[Action][]domainauth.Role{
	ResourceBooks: {
		ActionCreate: adminOnly,
		ActionEdit:   adminOnly,
		ActionDelete: adminOnly,
	},
	ResourceMembers: {
		ActionCreate: adminOnly,
		ActionEdit:   adminOnly,
		ActionDelete: adminOnly,
	},
	ResourceLoans: {
		ActionCreate: adminOnly,
		ActionEdit:   adminOnly,
		ActionDelete: adminOnly,
	},
}

// Route returns the rule for a destination. The second return is false for
// unknown destinations; the guard treats those as session-required with an
// empty permitted-role set, which fails closed.
func Route(dest Destination) (RouteRule, bool) {
	r, ok := routeTable[dest]
	return r, ok
}

// Allows reports whether a role may reach the destination. Anonymous-only
// destinations allow no role at all.
func Allows(role domainauth.Role, dest Destination) bool {
	rule, ok := routeTable[dest]
	if !ok || rule.AnonymousOnly {
		return false
	}
	for _, r := range rule.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AllowsAction reports whether a role may perform the action on the resource.
// Unknown resources or actions are denied.
func AllowsAction(role domainauth.Role, res Resource, act Action) bool {
	actions, ok := actionTable[res]
	if !ok {
		return false
	}
	roles, ok := actions[act]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// NavEntry is one item of the side navigation.
type NavEntry struct {
	Destination Destination `json:"destination"`
	Path        string      `json:"path"`
	Label       string      `json:"label"`
}

// navOrder fixes the display order of the navigation.
var navOrder = []struct {
	dest  Destination
	label string
}{
	{DestDashboard, "Dashboard"},
	{DestBooks, "Books"},
	{DestMembers, "Members"},
	{DestLoans, "Loans"},
}

// NavEntries derives the visible navigation for a role. It is recomputed on
// every call; caching it across a role change would be a correctness bug.
func NavEntries(role domainauth.Role) []NavEntry {
	entries := make([]NavEntry, 0, len(navOrder))
	for _, item := range navOrder {
		if !Allows(role, item.dest) {
			continue
		}
		entries = append(entries, NavEntry{
			Destination: item.dest,
			Path:        routeTable[item.dest].Path,
			Label:       item.label,
		})
	}
	return entries
}

// IdentityExceptions layers identity-level exemptions on top of the role
// table. The seed admin account must survive any destructive self-service
// action no matter who is looking at it; this is an exception keyed on the
// subject, not a third role.
type IdentityExceptions struct {
	SeedAdmin string
}

// IsProtected reports whether the subject is exempt from destructive actions.
func (e IdentityExceptions) IsProtected(subject string) bool {
	return e.SeedAdmin != "" && subject == e.SeedAdmin
}

// DeleteAllowed combines the role table with the identity exemption for a
// concrete record. The exemption always wins over the role policy.
func (e IdentityExceptions) DeleteAllowed(role domainauth.Role, res Resource, subject string) bool {
	if e.IsProtected(subject) {
		return false
	}
	return AllowsAction(role, res, ActionDelete)
}
