package rbac

import (
	"fmt"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
)

// ErrUnknownRole is returned when a role is absent from the registry.
type ErrUnknownRole struct {
	Role model.Role
}

func (e *ErrUnknownRole) Error() string {
	return fmt.Sprintf("unknown role: %s", e.Role)
}

// Service is the static identity and role registry. Role permission sets are
// fixed for the process lifetime.
type Service struct {
	permissions map[model.Role]model.PermissionSet
	departments map[model.Role]model.Department
	users       map[string]*model.User
}

func NewService() *Service {
	return &Service{
		permissions: map[model.Role]model.PermissionSet{
			model.RoleAdmin: model.NewPermissionSet(model.PermissionAll),
			model.RoleDoctor: model.NewPermissionSet(
				model.PermissionViewAll,
				model.PermissionCreatePatient,
				model.PermissionCreateAction,
				model.PermissionUpdateActions,
			),
			model.RoleNurse: model.NewPermissionSet(
				model.PermissionViewPatients,
				model.PermissionCreateAction,
				model.PermissionUpdateActions,
			),
			model.RolePharmacy: model.NewPermissionSet(
				model.PermissionViewAssigned,
				model.PermissionUpdateAssignedActions,
			),
			model.RoleDiagnostics: model.NewPermissionSet(
				model.PermissionViewAssigned,
				model.PermissionUpdateAssignedActions,
			),
			model.RoleLaboratory: model.NewPermissionSet(
				model.PermissionViewAssigned,
				model.PermissionUpdateAssignedActions,
			),
			model.RoleRadiology: model.NewPermissionSet(
				model.PermissionViewAssigned,
				model.PermissionUpdateAssignedActions,
			),
		},
		departments: map[model.Role]model.Department{
			model.RolePharmacy:    model.DepartmentPharmacy,
			model.RoleDiagnostics: model.DepartmentDiagnostics,
			model.RoleLaboratory:  model.DepartmentLaboratory,
			model.RoleRadiology:   model.DepartmentRadiology,
		},
		users: make(map[string]*model.User),
	}
}

// PermissionsOf returns the immutable permission set for a role.
func (s *Service) PermissionsOf(role model.Role) (model.PermissionSet, error) {
	perms, ok := s.permissions[role]
	if !ok {
		return nil, &ErrUnknownRole{Role: role}
	}
	return perms, nil
}

// DepartmentOf returns the operations department for department-scoped roles,
// or false for roles that are not bound to a single department queue.
func (s *Service) DepartmentOf(role model.Role) (model.Department, bool) {
	d, ok := s.departments[role]
	return d, ok
}

// IsDepartmentRole reports whether the role is a department-operations role.
func (s *Service) IsDepartmentRole(role model.Role) bool {
	_, ok := s.departments[role]
	return ok
}

// RegisterUser adds a user to the static registry. The user's role must be
// known.
func (s *Service) RegisterUser(user *model.User) error {
	if _, err := s.PermissionsOf(user.Role); err != nil {
		return err
	}
	s.users[user.Username] = user
	return nil
}

// LookupUser resolves a username in the registry.
func (s *Service) LookupUser(username string) (*model.User, bool) {
	u, ok := s.users[username]
	return u, ok
}

// ActorFor builds the typed actor for a user, with the permission set and
// department derived from the role.
func (s *Service) ActorFor(user *model.User) (*model.Actor, error) {
	perms, err := s.PermissionsOf(user.Role)
	if err != nil {
		return nil, err
	}
	actor := &model.Actor{
		Username:    user.Username,
		Name:        user.Name,
		Role:        user.Role,
		Permissions: perms,
	}
	if d, ok := s.DepartmentOf(user.Role); ok {
		actor.Department = d
	}
	return actor, nil
}
