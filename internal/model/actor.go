package model

import "strings"

// Role is the closed set of roles known to the registry.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleDoctor      Role = "doctor"
	RoleNurse       Role = "nurse"
	RolePharmacy    Role = "pharmacy"
	RoleDiagnostics Role = "diagnostics"
	RoleLaboratory  Role = "laboratory"
	RoleRadiology   Role = "radiology"
)

// Permission is the closed set of grants a role can carry. PermissionAll
// implies every other permission.
type Permission string

const (
	PermissionAll                   Permission = "all"
	PermissionViewAll               Permission = "view_all"
	PermissionViewPatients          Permission = "view_patients"
	PermissionViewAssigned          Permission = "view_assigned"
	PermissionCreatePatient         Permission = "create_patient"
	PermissionCreateAction          Permission = "create_action"
	PermissionUpdateActions         Permission = "update_actions"
	PermissionUpdateAssignedActions Permission = "update_assigned_actions"
)

// PermissionSet is an immutable set of permissions derived from a role.
type PermissionSet map[Permission]struct{}

func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the set carries the permission, honoring the
// PermissionAll wildcard.
func (s PermissionSet) Has(p Permission) bool {
	if _, ok := s[PermissionAll]; ok {
		return true
	}
	_, ok := s[p]
	return ok
}

// HasAny reports whether the set carries at least one of the permissions.
func (s PermissionSet) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// Department is the fixed set of organizational units clinical actions are
// routed between.
type Department string

const (
	DepartmentDoctor      Department = "Doctor"
	DepartmentNursing     Department = "Nursing"
	DepartmentDiagnostics Department = "Diagnostics"
	DepartmentPharmacy    Department = "Pharmacy"
	DepartmentReferrals   Department = "Referrals"
	DepartmentLaboratory  Department = "Laboratory"
	DepartmentRadiology   Department = "Radiology"
)

// Departments returns the fixed department enumeration in display order.
func Departments() []Department {
	return []Department{
		DepartmentDoctor,
		DepartmentNursing,
		DepartmentDiagnostics,
		DepartmentPharmacy,
		DepartmentReferrals,
		DepartmentLaboratory,
		DepartmentRadiology,
	}
}

// ParseDepartment resolves a department name case-insensitively.
func ParseDepartment(name string) (Department, bool) {
	for _, d := range Departments() {
		if strings.EqualFold(string(d), name) {
			return d, true
		}
	}
	return "", false
}

// Actor is an authenticated user, resolved once per request and passed
// explicitly through the call chain. Department is set only for
// department-operations roles.
type Actor struct {
	Username    string        `json:"username"`
	Name        string        `json:"name"`
	Role        Role          `json:"role"`
	Department  Department    `json:"department,omitempty"`
	Permissions PermissionSet `json:"-"`
}

// HasPermission reports whether the actor holds the permission.
func (a *Actor) HasPermission(p Permission) bool {
	return a.Permissions.Has(p)
}

// InDepartment reports whether the actor belongs to a department-operations
// role whose department matches, case-insensitively.
func (a *Actor) InDepartment(d Department) bool {
	return a.Department != "" && strings.EqualFold(string(a.Department), string(d))
}

// User is an entry in the static identity registry.
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// LoginRequest carries credentials for session establishment.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Actor       *Actor `json:"actor"`
}
