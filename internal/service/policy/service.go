package policy

import (
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/rbac"
)

// PatientScope is the read-time scoping decision for patient collections.
type PatientScope string

const (
	ScopeAllPatients      PatientScope = "all"
	ScopeAssignedPatients PatientScope = "assigned"
	ScopeNameAgeOnly      PatientScope = "name_age_only"
)

// ActionScope is the read-time scoping decision for clinical actions.
type ActionScope string

const (
	ScopeAllActions      ActionScope = "all"
	ScopeAssignedActions ActionScope = "assigned"
	ScopeNoActions       ActionScope = "none"
)

// Service is the access policy engine. Every method is a pure decision over
// the actor and the target record; denial is expressed in the return value,
// never as an error.
type Service struct {
	registry *rbac.Service
}

func NewService(registry *rbac.Service) *Service {
	return &Service{registry: registry}
}

// PatientScope decides how much of the patient collection the actor may see.
// Department-operations roles see only patients with at least one action
// assigned to their department; everyone else authenticated sees name and age
// only, unless they hold a view-all grant.
func (s *Service) PatientScope(actor *model.Actor) PatientScope {
	if actor.Permissions.HasAny(model.PermissionAll, model.PermissionViewAll) {
		return ScopeAllPatients
	}
	if s.registry.IsDepartmentRole(actor.Role) {
		return ScopeAssignedPatients
	}
	return ScopeNameAgeOnly
}

// ActionScope decides which clinical actions the actor may see.
func (s *Service) ActionScope(actor *model.Actor) ActionScope {
	if actor.Role == model.RoleAdmin {
		return ScopeAllActions
	}
	if s.registry.IsDepartmentRole(actor.Role) {
		return ScopeAssignedActions
	}
	if actor.HasPermission(model.PermissionCreateAction) {
		return ScopeAllActions
	}
	return ScopeNoActions
}

func (s *Service) CanCreatePatient(actor *model.Actor) bool {
	return actor.Permissions.HasAny(model.PermissionCreatePatient, model.PermissionAll)
}

func (s *Service) CanCreateAction(actor *model.Actor) bool {
	return actor.Permissions.HasAny(model.PermissionCreateAction, model.PermissionAll)
}

// CanUpdateActions reports whether the actor holds any action-mutation grant
// at all, before department scoping is applied.
func (s *Service) CanUpdateActions(actor *model.Actor) bool {
	return actor.Permissions.HasAny(
		model.PermissionUpdateActions,
		model.PermissionUpdateAssignedActions,
		model.PermissionAll,
	)
}

// CanTransitionAction decides whether the actor may mutate this specific
// action. Department-operations roles are restricted to their own queue even
// when they hold the generic update permission; doctor, nurse and admin are
// not restricted that way.
func (s *Service) CanTransitionAction(actor *model.Actor, action *model.ClinicalAction) bool {
	if !s.CanUpdateActions(actor) {
		return false
	}
	if s.registry.IsDepartmentRole(actor.Role) {
		return actor.InDepartment(action.AssignedTo)
	}
	return true
}

// AllowStatusTransition enforces forward-only status movement: terminal
// statuses accept no transition, and nothing moves back to pending.
func (s *Service) AllowStatusTransition(from, to model.ActionStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == model.ActionStatusPending && from != model.ActionStatusPending {
		return false
	}
	return true
}

// VisibleActions filters the full action list down to what the actor's scope
// admits.
func (s *Service) VisibleActions(actor *model.Actor, actions []*model.ClinicalAction) []*model.ClinicalAction {
	switch s.ActionScope(actor) {
	case ScopeAllActions:
		return actions
	case ScopeAssignedActions:
		visible := make([]*model.ClinicalAction, 0, len(actions))
		for _, a := range actions {
			if actor.InDepartment(a.AssignedTo) {
				visible = append(visible, a)
			}
		}
		return visible
	default:
		return []*model.ClinicalAction{}
	}
}

// AssignedPatientIDs collects the patients that have at least one action
// routed to the actor's department. Used for the assigned-only patient scope.
func (s *Service) AssignedPatientIDs(actor *model.Actor, actions []*model.ClinicalAction) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, a := range actions {
		if actor.InDepartment(a.AssignedTo) {
			ids[a.PatientID.String()] = struct{}{}
		}
	}
	return ids
}
