package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/repository"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/policy"
	apperrors "github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/errors"
)

const (
	defaultBloodGroup = "O+"
	admissionLayout   = "2006-01-02"
)

// Broadcaster pushes mutations to entitled subscribers. Delivery is
// best-effort and never surfaces failures into the mutating request.
type Broadcaster interface {
	PublishPatientCreated(ctx context.Context, patient *model.Patient)
	PublishActionCreated(ctx context.Context, action *model.ClinicalAction)
	PublishActionUpdated(ctx context.Context, action *model.ClinicalAction)
}

// Service owns the workflow collections. Callers are expected to have cleared
// the coarse permission checks already; per-record decisions that need the
// current record state (department scoping, status monotonicity) run inside
// the store's atomic update.
type Service struct {
	patients    repository.PatientRepository
	actions     repository.ActionRepository
	policy      *policy.Service
	broadcaster Broadcaster
}

func NewService(patients repository.PatientRepository, actions repository.ActionRepository, policySvc *policy.Service, broadcaster Broadcaster) *Service {
	return &Service{
		patients:    patients,
		actions:     actions,
		policy:      policySvc,
		broadcaster: broadcaster,
	}
}

// CreatePatient admits a new patient. The identifier and admission date are
// server-assigned; status defaults to admitted.
func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		ID:            uuid.New(),
		Name:          req.Name,
		Age:           req.Age,
		Gender:        req.Gender,
		BloodGroup:    req.BloodGroup,
		AdmissionDate: time.Now().Format(admissionLayout),
		Condition:     req.Condition,
		Status:        model.PatientStatusAdmitted,
	}
	if patient.BloodGroup == "" {
		patient.BloodGroup = defaultBloodGroup
	}
	if req.Status != "" {
		patient.Status = model.PatientStatus(req.Status)
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.broadcaster.PublishPatientCreated(ctx, patient)
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*model.Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

// CreateAction opens a new clinical action for an existing patient. Status is
// forced to pending regardless of what the caller supplied; initiator fields
// default to the acting user.
func (s *Service) CreateAction(ctx context.Context, actor *model.Actor, req *model.CreateActionRequest) (*model.ClinicalAction, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid patient id", err)
	}
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidInput("patient does not exist", err)
		}
		return nil, apperrors.Internal(err)
	}

	assignedTo, ok := model.ParseDepartment(req.AssignedTo)
	if !ok {
		return nil, apperrors.InvalidInput("unknown department", nil)
	}

	now := time.Now()
	action := &model.ClinicalAction{
		ID:          uuid.New(),
		PatientID:   patientID,
		Type:        model.ActionType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		InitiatedBy: req.InitiatedBy,
		AssignedTo:  assignedTo,
		Status:      model.ActionStatusPending,
		Priority:    model.ActionPriority(req.Priority),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if action.InitiatedBy == "" {
		action.InitiatedBy = actor.Name
	}
	if dept, ok := model.ParseDepartment(req.InitiatedByDepartment); ok {
		action.InitiatedByDepartment = dept
	} else if actor.Department != "" {
		action.InitiatedByDepartment = actor.Department
	} else {
		action.InitiatedByDepartment = model.DepartmentDoctor
	}
	if action.Priority == "" {
		action.Priority = model.ActionPriorityMedium
	}

	if err := s.actions.Create(ctx, action); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.broadcaster.PublishActionCreated(ctx, action)
	return action, nil
}

func (s *Service) ListActions(ctx context.Context) ([]*model.ClinicalAction, error) {
	actions, err := s.actions.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return actions, nil
}

func (s *Service) ActionsForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.ClinicalAction, error) {
	actions, err := s.actions.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return actions, nil
}

// UpdateActionStatus transitions an action. The department-scoping and
// forward-only checks run inside the store update so a concurrent transition
// cannot slip between the decision and the write.
func (s *Service) UpdateActionStatus(ctx context.Context, actor *model.Actor, id uuid.UUID, status model.ActionStatus) (*model.ClinicalAction, error) {
	updated, err := s.actions.Update(ctx, id, func(a *model.ClinicalAction) error {
		if !s.policy.CanTransitionAction(actor, a) {
			return apperrors.Forbidden("action is assigned to another department")
		}
		if !s.policy.AllowStatusTransition(a.Status, status) {
			return apperrors.InvalidInput("invalid status transition", nil)
		}
		a.Status = status
		return nil
	})
	if err != nil {
		return nil, translateUpdateErr(err)
	}

	s.broadcaster.PublishActionUpdated(ctx, updated)
	return updated, nil
}

// UpdateActionFields merges a partial update into an action. The same
// department scoping as the status path applies, and a status change embedded
// here still has to move forward.
func (s *Service) UpdateActionFields(ctx context.Context, actor *model.Actor, id uuid.UUID, req *model.UpdateActionRequest) (*model.ClinicalAction, error) {
	updated, err := s.actions.Update(ctx, id, func(a *model.ClinicalAction) error {
		if !s.policy.CanTransitionAction(actor, a) {
			return apperrors.Forbidden("action is assigned to another department")
		}
		if req.Status != nil && !s.policy.AllowStatusTransition(a.Status, model.ActionStatus(*req.Status)) {
			return apperrors.InvalidInput("invalid status transition", nil)
		}
		if req.AssignedTo != nil {
			dept, ok := model.ParseDepartment(*req.AssignedTo)
			if !ok {
				return apperrors.InvalidInput("unknown department", nil)
			}
			a.AssignedTo = dept
		}
		if req.Type != nil {
			a.Type = model.ActionType(*req.Type)
		}
		if req.Title != nil {
			a.Title = *req.Title
		}
		if req.Description != nil {
			a.Description = *req.Description
		}
		if req.Priority != nil {
			a.Priority = model.ActionPriority(*req.Priority)
		}
		if req.Status != nil {
			a.Status = model.ActionStatus(*req.Status)
		}
		return nil
	})
	if err != nil {
		return nil, translateUpdateErr(err)
	}

	s.broadcaster.PublishActionUpdated(ctx, updated)
	return updated, nil
}

func translateUpdateErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("clinical action", err)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Internal(err)
}
